package render

import "declgen/internal/decl"

// syntax spells declarations for one dialect. Lines are relative to the
// declaration's own indentation; nested lines carry their extra indent.
type syntax interface {
	banner(strictness string) []string
	commentMarker() string
	open(t *decl.Tree, id decl.NodeID) string
	flags(kind decl.Kind, f decl.Flags) []string
	mixin(m *decl.Mixin) string
	typeAlias(name string, a *decl.TypeAlias) string
	constant(name string, c *decl.Constant) string
	enumValues(owner string, values []decl.EnumValue) []string
	structProp(name string, p *decl.StructProp) string
	attribute(name string, a *decl.Attribute) []string
	// method gets the indentation width of its first line for MaxLineWidth.
	method(name string, m *decl.Method, indent int) []string
	// classLevelBlock reports whether class attributes and eigen constants
	// are gathered in a "class << self" block.
	classLevelBlock() bool
}

func syntaxFor(opt Options, unit string) syntax {
	switch opt.Dialect {
	case RBS:
		return rbsSyntax{opt: opt, unit: unit}
	default:
		return rbiSyntax{opt: opt, unit: unit}
	}
}

// wraps decides between the inline and the one-parameter-per-line form.
func wraps(opt Options, params int, inlineWidth int) bool {
	if params == 0 {
		return false
	}
	if params > opt.BreakParams {
		return true
	}
	return opt.MaxLineWidth > 0 && inlineWidth > opt.MaxLineWidth
}
