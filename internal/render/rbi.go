package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"declgen/internal/decl"
)

// rbiSyntax renders Sorbet RBI.
type rbiSyntax struct {
	opt  Options
	unit string
}

func (rbiSyntax) banner(strictness string) []string {
	return []string{"# typed: " + strictness}
}

func (rbiSyntax) commentMarker() string { return "# " }

func (rbiSyntax) classLevelBlock() bool { return true }

func (rbiSyntax) open(t *decl.Tree, id decl.NodeID) string {
	n := t.Node(id)
	ns := t.Namespace(id)
	switch n.Kind {
	case decl.KindModule, decl.KindInterface:
		return "module " + n.Name
	case decl.KindStruct:
		return "class " + n.Name + " < " + orDefault(ns.Superclass, "T::Struct")
	case decl.KindEnum:
		return "class " + n.Name + " < " + orDefault(ns.Superclass, "T::Enum")
	default:
		if ns.Superclass != "" {
			return "class " + n.Name + " < " + ns.Superclass
		}
		return "class " + n.Name
	}
}

func (rbiSyntax) flags(kind decl.Kind, f decl.Flags) []string {
	var out []string
	if f.Final {
		out = append(out, "final!")
	}
	if f.Sealed {
		out = append(out, "sealed!")
	}
	if kind == decl.KindInterface {
		out = append(out, "interface!")
	}
	if f.Abstract {
		out = append(out, "abstract!")
	}
	return out
}

func (rbiSyntax) mixin(m *decl.Mixin) string {
	return m.Direction.String() + " " + m.Target
}

func (rbiSyntax) typeAlias(name string, a *decl.TypeAlias) string {
	return fmt.Sprintf("%s = T.type_alias { %s }", name, rbiType(a.Type))
}

func (rbiSyntax) constant(name string, c *decl.Constant) string {
	return name + " = " + c.Value
}

func (s rbiSyntax) enumValues(_ string, values []decl.EnumValue) []string {
	lines := []string{"enums do"}
	for _, v := range values {
		if v.Serialization == "" {
			lines = append(lines, s.unit+v.Name+" = new")
		} else {
			lines = append(lines, s.unit+v.Name+" = new("+v.Serialization+")")
		}
	}
	return append(lines, "end")
}

func (rbiSyntax) structProp(name string, p *decl.StructProp) string {
	keyword := "prop"
	if p.Immutable {
		keyword = "const"
	}
	line := fmt.Sprintf("%s :%s, %s", keyword, name, rbiType(p.Type))
	if p.Optional {
		line += ", optional: true"
	}
	if p.Default != "" {
		line += ", default: " + p.Default
	}
	return line
}

func (rbiSyntax) attribute(name string, a *decl.Attribute) []string {
	typ := rbiType(a.Type)
	sig := fmt.Sprintf("sig { returns(%s) }", typ)
	if a.AttrKind == decl.AttrWriter {
		sig = fmt.Sprintf("sig { params(%s: %s).returns(%s) }", name, typ, typ)
	}
	return []string{sig, fmt.Sprintf("attr_%s :%s", a.AttrKind, name)}
}

func (s rbiSyntax) method(name string, m *decl.Method, indent int) []string {
	var quals []string
	if m.Abstract {
		quals = append(quals, "abstract")
	}
	if m.Override {
		quals = append(quals, "override")
	}
	if m.Overridable {
		quals = append(quals, "overridable")
	}
	if len(m.TypeParameters) > 0 {
		tps := make([]string, len(m.TypeParameters))
		for i, tp := range m.TypeParameters {
			tps[i] = ":" + tp
		}
		quals = append(quals, "type_parameters("+strings.Join(tps, ", ")+")")
	}
	ret := "void"
	if m.ReturnType != "" {
		ret = "returns(" + m.ReturnType + ")"
	}
	sigOpen := "sig"
	if m.Final {
		sigOpen = "sig(:final)"
	}
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.BareName() + ": " + rbiType(p.Type)
	}

	chain := append([]string(nil), quals...)
	if len(params) > 0 {
		chain = append(chain, "params("+strings.Join(params, ", ")+")")
	}
	chain = append(chain, ret)
	inline := sigOpen + " { " + strings.Join(chain, ".") + " }"

	var lines []string
	if !wraps(s.opt, len(params), indent+runewidth.StringWidth(inline)) {
		lines = append(lines, inline)
	} else {
		head := "params("
		if len(quals) > 0 {
			head = strings.Join(quals, ".") + ".params("
		}
		lines = append(lines, sigOpen+" do", s.unit+head)
		for i, p := range params {
			if i < len(params)-1 {
				p += ","
			}
			lines = append(lines, s.unit+s.unit+p)
		}
		lines = append(lines, s.unit+")."+ret, "end")
	}
	return append(lines, rbiDef(name, m))
}

func rbiDef(name string, m *decl.Method) string {
	if m.ClassMethod {
		name = "self." + name
	}
	if len(m.Params) == 0 {
		return "def " + name + "; end"
	}
	args := make([]string, len(m.Params))
	for i, p := range m.Params {
		args[i] = rbiArg(p)
	}
	return "def " + name + "(" + strings.Join(args, ", ") + "); end"
}

func rbiArg(p decl.Parameter) string {
	if p.Default == "" {
		return p.Name
	}
	switch p.Kind() {
	case decl.ParamKeyword:
		return p.Name + " " + p.Default
	case decl.ParamPositional:
		return p.Name + " = " + p.Default
	default:
		return p.Name
	}
}

func rbiType(t string) string {
	return orDefault(t, "T.untyped")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
