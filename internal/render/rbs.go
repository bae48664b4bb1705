package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"declgen/internal/decl"
)

// rbsSyntax renders Ruby RBS. RBS has no namespace flags, no method
// qualifiers and no singleton block: class attributes render inline with
// "self." and eigen constants render like any other constant.
type rbsSyntax struct {
	opt  Options
	unit string
}

func (rbsSyntax) banner(string) []string { return nil }

func (rbsSyntax) commentMarker() string { return "# " }

func (rbsSyntax) classLevelBlock() bool { return false }

func (rbsSyntax) open(t *decl.Tree, id decl.NodeID) string {
	n := t.Node(id)
	ns := t.Namespace(id)
	switch n.Kind {
	case decl.KindModule:
		return "module " + n.Name
	case decl.KindInterface:
		return "interface " + n.Name
	default:
		if ns.Superclass != "" {
			return "class " + n.Name + " < " + ns.Superclass
		}
		return "class " + n.Name
	}
}

func (rbsSyntax) flags(decl.Kind, decl.Flags) []string { return nil }

func (rbsSyntax) mixin(m *decl.Mixin) string {
	return m.Direction.String() + " " + m.Target
}

func (rbsSyntax) typeAlias(name string, a *decl.TypeAlias) string {
	return fmt.Sprintf("type %s = %s", name, rbsType(a.Type))
}

// constant uses Value as the constant's type.
func (rbsSyntax) constant(name string, c *decl.Constant) string {
	return name + ": " + rbsType(c.Value)
}

func (rbsSyntax) enumValues(owner string, values []decl.EnumValue) []string {
	lines := make([]string, 0, len(values))
	for _, v := range values {
		lines = append(lines, v.Name+": "+owner)
	}
	return lines
}

func (rbsSyntax) structProp(name string, p *decl.StructProp) string {
	keyword := "attr_accessor"
	if p.Immutable {
		keyword = "attr_reader"
	}
	typ := rbsType(p.Type)
	if p.Optional && typ != "untyped" {
		typ += "?"
	}
	return fmt.Sprintf("%s %s: %s", keyword, name, typ)
}

func (rbsSyntax) attribute(name string, a *decl.Attribute) []string {
	if a.ClassAttribute {
		name = "self." + name
	}
	return []string{fmt.Sprintf("attr_%s %s: %s", a.AttrKind, name, rbsType(a.Type))}
}

func (s rbsSyntax) method(name string, m *decl.Method, indent int) []string {
	if m.ClassMethod {
		name = "self." + name
	}
	head := "def " + name + ": "
	if len(m.TypeParameters) > 0 {
		head += "[" + strings.Join(m.TypeParameters, ", ") + "] "
	}

	var params []string
	block := ""
	for _, p := range m.Params {
		if p.Kind() == decl.ParamBlock {
			block = rbsBlock(p)
			continue
		}
		params = append(params, rbsParam(p))
	}
	tail := ") "
	if block != "" {
		tail += block + " "
	}
	tail += "-> " + orDefault(m.ReturnType, "void")

	inline := head + "(" + strings.Join(params, ", ") + tail
	if !wraps(s.opt, len(params), indent+runewidth.StringWidth(inline)) {
		return []string{inline}
	}
	lines := []string{head + "("}
	for i, p := range params {
		if i < len(params)-1 {
			p += ","
		}
		lines = append(lines, s.unit+p)
	}
	return append(lines, strings.TrimPrefix(tail, " "))
}

func rbsParam(p decl.Parameter) string {
	typ := rbsType(p.Type)
	name := p.BareName()
	optional := ""
	if p.Default != "" {
		optional = "?"
	}
	switch p.Kind() {
	case decl.ParamKeyword:
		return optional + name + ": " + typ
	case decl.ParamSplat:
		return "*" + typ + " " + name
	case decl.ParamDoubleSplat:
		return "**" + typ + " " + name
	default:
		return optional + typ + " " + name
	}
}

func rbsBlock(p decl.Parameter) string {
	if p.Type == "" {
		return "?{ (*untyped) -> untyped }"
	}
	if p.Default != "" {
		return "?{ " + p.Type + " }"
	}
	return "{ " + p.Type + " }"
}

func rbsType(t string) string {
	return orDefault(t, "untyped")
}
