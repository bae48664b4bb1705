package schema

import (
	"fmt"
	"strings"

	"declgen/internal/decl"
	"declgen/internal/diag"
	"declgen/internal/resolve"
)

var namespaceKinds = map[string]decl.Kind{
	"module":    decl.KindModule,
	"class":     decl.KindClass,
	"interface": decl.KindInterface,
	"struct":    decl.KindStruct,
	"enum":      decl.KindEnum,
}

// Validate checks a document without touching any tree: kinds, names,
// attribute kinds, aliases that must not be combined and where bodies may
// appear.
func Validate(doc *Document) error {
	for i, d := range doc.Declarations {
		if err := validate(d, fmt.Sprintf("declarations[%d]", i), true); err != nil {
			return fmt.Errorf("%s: %w", doc.Source, err)
		}
	}
	return nil
}

func validate(d Declaration, at string, topLevel bool) error {
	kind := strings.ToLower(strings.TrimSpace(d.Kind))
	_, isNamespace := namespaceKinds[kind]
	switch {
	case isNamespace:
	case kind == "path":
		if !topLevel {
			return diag.Newf(diag.ResNotRoot, "%s: path declarations must be top-level", at)
		}
		if d.Leaf != "" {
			if _, ok := namespaceKinds[strings.ToLower(d.Leaf)]; !ok {
				return diag.Newf(diag.DocUnknownKind, "%s: unknown leaf kind %q", at, d.Leaf)
			}
		}
	case kind == "method":
		if d.Returns != "" && d.ReturnType != "" {
			return diag.Newf(diag.DeclAmbiguousParameter, "%s: both returns and return_type given", at)
		}
	case kind == "attribute":
		if _, ok := decl.ParseAttrKind(d.Attr); !ok {
			return diag.Newf(diag.DocBadAttrKind, "%s: attr %q (want reader, writer or accessor)", at, d.Attr)
		}
	case kind == "constant", kind == "include", kind == "extend", kind == "type_alias",
		kind == "arbitrary", kind == "prop", kind == "comment_next":
	case kind == "":
		return diag.Newf(diag.DocUnknownKind, "%s: missing kind", at)
	default:
		return diag.Newf(diag.DocUnknownKind, "%s: unknown kind %q", at, d.Kind)
	}

	if kind != "arbitrary" && kind != "comment_next" && strings.TrimSpace(d.Name) == "" {
		return diag.Newf(diag.DocMissingName, "%s: %s without a name", at, kind)
	}
	if len(d.Body) > 0 && !isNamespace && kind != "path" {
		return diag.Newf(diag.DocUnknownField, "%s: %s cannot have a body", at, kind)
	}
	for i, child := range d.Body {
		if err := validate(child, fmt.Sprintf("%s.body[%d]", at, i), false); err != nil {
			return err
		}
	}
	return nil
}

// Apply validates doc and builds it into t under the root, stamping the
// document's contributor on every node it creates. The first failing
// declaration stops the document; nodes created before the failure, including
// earlier children of the failing declaration, stay in t.
func Apply(t *decl.Tree, doc *Document) error {
	if err := Validate(doc); err != nil {
		return err
	}
	prev := t.Contributor()
	t.SetContributor(decl.NamedContributor(doc.Contributor))
	defer t.SetContributor(prev)

	for i, d := range doc.Declarations {
		if err := apply(t, t.Root(), d); err != nil {
			return fmt.Errorf("%s: declarations[%d]: %w", doc.Source, i, err)
		}
	}
	return nil
}

func apply(t *decl.Tree, parent decl.NodeID, d Declaration) error {
	kind := strings.ToLower(strings.TrimSpace(d.Kind))
	if kind == "comment_next" {
		return t.AddCommentToNextChild(parent, d.Comments...)
	}

	id, err := create(t, parent, kind, d)
	if err != nil {
		return err
	}
	if len(d.Comments) > 0 {
		if err := t.AddComment(id, d.Comments...); err != nil {
			return err
		}
	}
	for i, child := range d.Body {
		if err := apply(t, id, child); err != nil {
			return fmt.Errorf("%s.body[%d]: %w", d.Name, i, err)
		}
	}
	return nil
}

func create(t *decl.Tree, parent decl.NodeID, kind string, d Declaration) (decl.NodeID, error) {
	if nsKind, ok := namespaceKinds[kind]; ok {
		enums := make([]decl.EnumValue, 0, len(d.Enums))
		for _, e := range d.Enums {
			enums = append(enums, decl.EnumValue{Name: e.Name, Serialization: e.Serialization})
		}
		return t.CreateNamespace(parent, decl.NamespaceSpec{
			Name:       d.Name,
			Kind:       nsKind,
			Flags:      decl.Flags{Abstract: d.Abstract, Final: d.Final, Sealed: d.Sealed},
			Superclass: d.Superclass,
			Enums:      enums,
		})
	}

	switch kind {
	case "path":
		leaf := decl.KindModule
		if d.Leaf != "" {
			leaf = namespaceKinds[strings.ToLower(d.Leaf)]
		}
		scope, err := resolve.ParsePath(d.Name, leaf)
		if err != nil {
			return decl.NoNodeID, err
		}
		return resolve.Path(t, parent, scope)
	case "method":
		params := make([]decl.Parameter, 0, len(d.Params))
		for _, p := range d.Params {
			params = append(params, decl.Parameter{Name: p.Name, Type: p.Type, Default: p.Default})
		}
		return t.CreateMethod(parent, decl.MethodSpec{
			Name:           d.Name,
			Params:         params,
			ReturnType:     d.ReturnType,
			Returns:        d.Returns,
			Abstract:       d.Abstract,
			Override:       d.Override,
			Implementation: d.Implementation,
			Overridable:    d.Overridable,
			Final:          d.Final,
			ClassMethod:    d.ClassMethod,
			TypeParameters: d.TypeParameters,
		})
	case "attribute":
		attrKind, _ := decl.ParseAttrKind(d.Attr)
		return t.CreateMember(parent, decl.AttributeSpec{
			Name: d.Name, Kind: attrKind, Type: d.Type, ClassAttribute: d.ClassAttribute,
		})
	case "constant":
		return t.CreateMember(parent, decl.ConstantSpec{Name: d.Name, Value: d.Value, Eigen: d.Eigen})
	case "include":
		return t.CreateInclude(parent, d.Name)
	case "extend":
		return t.CreateExtend(parent, d.Name)
	case "type_alias":
		return t.CreateTypeAlias(parent, d.Name, d.Type)
	case "arbitrary":
		return t.CreateArbitrary(parent, d.Code)
	case "prop":
		return t.CreateStructProp(parent, decl.StructPropSpec{
			Name: d.Name, Type: d.Type, Optional: d.Optional, Default: d.Default, Immutable: d.Immutable,
		})
	}
	return decl.NoNodeID, diag.Newf(diag.DocUnknownKind, "unknown kind %q", d.Kind)
}
