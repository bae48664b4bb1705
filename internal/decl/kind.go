package decl

import "strings"

// Kind is the closed set of declaration kinds.
type Kind uint8

const (
	// KindInvalid doubles as the wildcard in a Query.
	KindInvalid Kind = iota
	// KindNamespace is the root namespace. In a Query it matches every namespace kind.
	KindNamespace
	KindModule
	// KindClass in a Query also matches structs and enums.
	KindClass
	KindInterface
	KindStruct
	KindEnum
	KindMethod
	KindAttribute
	KindConstant
	KindMixin
	KindTypeAlias
	KindArbitrary
	KindStructProp
)

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindNamespace:  "namespace",
	KindModule:     "module",
	KindClass:      "class",
	KindInterface:  "interface",
	KindStruct:     "struct",
	KindEnum:       "enum",
	KindMethod:     "method",
	KindAttribute:  "attribute",
	KindConstant:   "constant",
	KindMixin:      "mixin",
	KindTypeAlias:  "type_alias",
	KindArbitrary:  "arbitrary",
	KindStructProp: "prop",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// ParseKind maps a lower-case kind name back to a Kind.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if k != int(KindInvalid) && name == s {
			return Kind(k), true
		}
	}
	return KindInvalid, false
}

func (k Kind) IsNamespace() bool {
	return k >= KindNamespace && k <= KindEnum
}

func (k Kind) IsMember() bool {
	return k >= KindMethod && k <= KindStructProp
}

// IsClassLike reports whether k may carry a superclass.
func (k Kind) IsClassLike() bool {
	return k == KindClass || k == KindStruct || k == KindEnum
}

// Satisfies reports whether a node of kind k matches a query for want.
func (k Kind) Satisfies(want Kind) bool {
	switch want {
	case KindInvalid:
		return true
	case KindNamespace:
		return k.IsNamespace()
	case KindClass:
		return k.IsClassLike()
	default:
		return k == want
	}
}

// Label is the capitalised kind name used by Describe.
func (k Kind) Label() string {
	switch k {
	case KindNamespace:
		return "Namespace"
	case KindModule:
		return "Module"
	case KindClass:
		return "Class"
	case KindInterface:
		return "Interface"
	case KindStruct:
		return "Struct"
	case KindEnum:
		return "Enum"
	case KindMethod:
		return "Method"
	case KindAttribute:
		return "Attribute"
	case KindConstant:
		return "Constant"
	case KindMixin:
		return "Mixin"
	case KindTypeAlias:
		return "Type alias"
	case KindArbitrary:
		return "Arbitrary code"
	case KindStructProp:
		return "Prop"
	default:
		return "Invalid"
	}
}
