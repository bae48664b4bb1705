package decl

import "slices"

// Equal reports whether a and b declare the same thing. GeneratedBy, the
// parent and comments are ignored; namespaces compare their children
// element-wise.
func (t *Tree) Equal(a, b NodeID) bool {
	na, nb := t.Node(a), t.Node(b)
	if na == nil || nb == nil {
		return na == nb
	}
	if na.Kind != nb.Kind || na.Name != nb.Name {
		return false
	}
	switch na.Kind {
	case KindNamespace, KindModule, KindClass, KindInterface, KindStruct, KindEnum:
		x, y := t.Namespace(a), t.Namespace(b)
		if x.Flags != y.Flags || x.Superclass != y.Superclass || !equalEnums(x.Enums, y.Enums) {
			return false
		}
		if len(x.Children) != len(y.Children) {
			return false
		}
		for i := range x.Children {
			if !t.Equal(x.Children[i], y.Children[i]) {
				return false
			}
		}
		return true
	case KindMethod:
		x, y := t.Method(a), t.Method(b)
		return x.ReturnType == y.ReturnType &&
			x.Abstract == y.Abstract &&
			x.Override == y.Override &&
			x.Overridable == y.Overridable &&
			x.Final == y.Final &&
			x.ClassMethod == y.ClassMethod &&
			slices.Equal(x.Params, y.Params) &&
			slices.Equal(x.TypeParameters, y.TypeParameters)
	case KindAttribute:
		return *t.Attribute(a) == *t.Attribute(b)
	case KindConstant:
		return *t.Constant(a) == *t.Constant(b)
	case KindMixin:
		return *t.Mixin(a) == *t.Mixin(b)
	case KindTypeAlias:
		return *t.TypeAlias(a) == *t.TypeAlias(b)
	case KindArbitrary:
		return *t.Arbitrary(a) == *t.Arbitrary(b)
	case KindStructProp:
		return *t.StructProp(a) == *t.StructProp(b)
	default:
		return false
	}
}

func equalEnums(a, b []EnumValue) bool {
	return slices.Equal(a, b)
}
