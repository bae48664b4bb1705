package render

import (
	"sort"
	"strings"

	"declgen/internal/decl"
)

// group is the emission bucket of a block inside a namespace body.
type group uint8

const (
	groupFlags group = iota
	groupIncludes
	groupExtends
	groupAliases
	groupConstants
	groupEnums
	groupProps
	groupClassLevel
	groupAttributes
	groupArbitrary
	groupMethods
	groupNamespaces
)

// block is one rendered declaration (comments included), relative to the
// body it belongs to.
type block struct {
	group group
	lines []string
	// detached blocks always get a blank line around them.
	detached bool
}

type printer struct {
	tree *decl.Tree
	opt  Options
	syn  syntax
	unit string
}

func newPrinter(t *decl.Tree, opt Options) *printer {
	opt = opt.withDefaults()
	unit := strings.Repeat(" ", opt.TabSize)
	return &printer{
		tree: t,
		opt:  opt,
		syn:  syntaxFor(opt, unit),
		unit: unit,
	}
}

// Render returns the lines of id and everything below it. For the root
// namespace only its body is rendered.
func Render(t *decl.Tree, id decl.NodeID, opt Options) []string {
	p := newPrinter(t, opt)
	w := NewWriter(p.opt)
	if t.Kind(id) == decl.KindNamespace {
		w.WriteLines(p.body(id, 0))
		return w.Lines()
	}
	if b, ok := p.child(id, 0); ok {
		w.WriteLines(b.lines)
	}
	return w.Lines()
}

// File renders the whole tree with the dialect banner and a trailing newline.
func File(t *decl.Tree, opt Options) string {
	p := newPrinter(t, opt)
	w := NewWriter(p.opt)
	banner := p.syn.banner(p.opt.Strictness)
	w.WriteLines(banner)
	body := p.body(t.Root(), 0)
	if len(banner) > 0 && len(body) > 0 {
		w.Blank()
	}
	w.WriteLines(body)
	return strings.Join(w.Lines(), "\n") + "\n"
}

// namespace renders header, body and the closing line.
func (p *printer) namespace(id decl.NodeID, depth int) []string {
	lines := p.comments(id)
	lines = append(lines, p.syn.open(p.tree, id))
	lines = append(lines, nest(p.unit, p.body(id, depth+1))...)
	return append(lines, "end")
}

func (p *printer) body(id decl.NodeID, depth int) []string {
	ns := p.tree.Namespace(id)
	if ns == nil {
		return nil
	}
	kind := p.tree.Kind(id)
	var blocks []block

	if flags := p.syn.flags(kind, ns.Flags); len(flags) > 0 {
		blocks = append(blocks, block{group: groupFlags, lines: flags})
	}
	for _, inc := range p.sortedMixins(p.tree.Includes(id)) {
		blocks = append(blocks, p.single(inc, groupIncludes, p.syn.mixin(p.tree.Mixin(inc))))
	}
	for _, ext := range p.sortedMixins(p.tree.Extends(id)) {
		blocks = append(blocks, p.single(ext, groupExtends, p.syn.mixin(p.tree.Mixin(ext))))
	}

	var (
		aliases, constants, props []decl.NodeID
		eigen, classAttrs, rest   []decl.NodeID
	)
	classLevel := p.syn.classLevelBlock()
	for _, child := range ns.Children {
		switch p.tree.Kind(child) {
		case decl.KindMixin:
			// emitted above
		case decl.KindTypeAlias:
			aliases = append(aliases, child)
		case decl.KindConstant:
			if classLevel && p.tree.Constant(child).Eigen {
				eigen = append(eigen, child)
			} else {
				constants = append(constants, child)
			}
		case decl.KindStructProp:
			props = append(props, child)
		case decl.KindAttribute:
			if classLevel && p.tree.Attribute(child).ClassAttribute {
				classAttrs = append(classAttrs, child)
			} else {
				rest = append(rest, child)
			}
		case decl.KindMethod, decl.KindArbitrary,
			decl.KindModule, decl.KindClass, decl.KindInterface, decl.KindStruct, decl.KindEnum:
			rest = append(rest, child)
		case decl.KindNamespace, decl.KindInvalid:
			// the root never appears as a child
		}
	}

	for _, a := range aliases {
		n := p.tree.Node(a)
		blocks = append(blocks, p.single(a, groupAliases, p.syn.typeAlias(n.Name, p.tree.TypeAlias(a))))
	}
	for _, c := range constants {
		n := p.tree.Node(c)
		blocks = append(blocks, p.single(c, groupConstants, p.syn.constant(n.Name, p.tree.Constant(c))))
	}
	if kind == decl.KindEnum && len(ns.Enums) > 0 {
		blocks = append(blocks, block{group: groupEnums, lines: p.syn.enumValues(p.tree.Name(id), ns.Enums)})
	}
	if kind == decl.KindStruct {
		for _, prop := range props {
			n := p.tree.Node(prop)
			blocks = append(blocks, p.single(prop, groupProps, p.syn.structProp(n.Name, p.tree.StructProp(prop))))
		}
	}
	if len(eigen) > 0 || len(classAttrs) > 0 {
		blocks = append(blocks, p.classLevel(eigen, classAttrs, depth))
	}

	if p.opt.SortNamespaces {
		rest = p.sortRest(rest)
	}
	for _, child := range rest {
		if b, ok := p.child(child, depth); ok {
			blocks = append(blocks, b)
		}
	}
	return join(blocks)
}

// classLevel wraps eigen constants and class attributes in one
// "class << self" block.
func (p *printer) classLevel(eigen, attrs []decl.NodeID, depth int) block {
	var inner []block
	for _, c := range eigen {
		n := p.tree.Node(c)
		inner = append(inner, p.single(c, groupConstants, p.syn.constant(n.Name, p.tree.Constant(c))))
	}
	for _, a := range attrs {
		if b, ok := p.child(a, depth+1); ok {
			inner = append(inner, b)
		}
	}
	lines := []string{"class << self"}
	lines = append(lines, nest(p.unit, join(inner))...)
	lines = append(lines, "end")
	return block{group: groupClassLevel, lines: lines, detached: true}
}

// child renders the members that may appear in the free part of a body,
// and namespaces.
func (p *printer) child(id decl.NodeID, depth int) (block, bool) {
	n := p.tree.Node(id)
	if n == nil {
		return block{}, false
	}
	switch n.Kind {
	case decl.KindModule, decl.KindClass, decl.KindInterface, decl.KindStruct, decl.KindEnum:
		return block{group: groupNamespaces, lines: p.namespace(id, depth), detached: true}, true
	case decl.KindMethod:
		lines := append(p.comments(id), p.syn.method(n.Name, p.tree.Method(id), p.indentWidth(depth))...)
		return block{group: groupMethods, lines: lines, detached: true}, true
	case decl.KindAttribute:
		lines := append(p.comments(id), p.syn.attribute(n.Name, p.tree.Attribute(id))...)
		return block{group: groupAttributes, lines: lines}, true
	case decl.KindArbitrary:
		lines := append(p.comments(id), strings.Split(p.tree.Arbitrary(id).Code, "\n")...)
		return block{group: groupArbitrary, lines: lines, detached: true}, true
	case decl.KindConstant:
		return p.single(id, groupConstants, p.syn.constant(n.Name, p.tree.Constant(id))), true
	case decl.KindMixin:
		g := groupIncludes
		if p.tree.Mixin(id).Direction == decl.Extend {
			g = groupExtends
		}
		return p.single(id, g, p.syn.mixin(p.tree.Mixin(id))), true
	case decl.KindTypeAlias:
		return p.single(id, groupAliases, p.syn.typeAlias(n.Name, p.tree.TypeAlias(id))), true
	case decl.KindStructProp:
		return p.single(id, groupProps, p.syn.structProp(n.Name, p.tree.StructProp(id))), true
	case decl.KindNamespace, decl.KindInvalid:
		return block{}, false
	}
	return block{}, false
}

func (p *printer) single(id decl.NodeID, g group, line string) block {
	return block{group: g, lines: append(p.comments(id), line)}
}

func (p *printer) comments(id decl.NodeID) []string {
	n := p.tree.Node(id)
	if n == nil || len(n.Comments) == 0 {
		return nil
	}
	marker := p.syn.commentMarker()
	out := make([]string, 0, len(n.Comments))
	for _, c := range n.Comments {
		if c == "" {
			out = append(out, strings.TrimRight(marker, " "))
			continue
		}
		out = append(out, marker+c)
	}
	return out
}

func (p *printer) indentWidth(depth int) int {
	return depth * p.opt.TabSize
}

func (p *printer) sortedMixins(ids []decl.NodeID) []decl.NodeID {
	if !p.opt.SortNamespaces {
		return ids
	}
	sorted := append([]decl.NodeID(nil), ids...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return p.tree.Mixin(sorted[i]).Target < p.tree.Mixin(sorted[j]).Target
	})
	return sorted
}

// sortRest orders attributes, arbitrary code and methods (each kept in
// creation order) before the nested namespaces, which are sorted by name.
func (p *printer) sortRest(ids []decl.NodeID) []decl.NodeID {
	rank := func(k decl.Kind) int {
		switch k {
		case decl.KindAttribute:
			return 0
		case decl.KindArbitrary:
			return 1
		case decl.KindMethod:
			return 2
		default:
			return 3
		}
	}
	sorted := append([]decl.NodeID(nil), ids...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := rank(p.tree.Kind(sorted[i])), rank(p.tree.Kind(sorted[j]))
		if ri != rj {
			return ri < rj
		}
		if ri == 3 {
			return p.tree.Name(sorted[i]) < p.tree.Name(sorted[j])
		}
		return false
	})
	return sorted
}

// join separates blocks with one blank line, except between two one-line
// blocks of the same group that are not detached.
func join(blocks []block) []string {
	var out []string
	for i, b := range blocks {
		if i > 0 && needsBlank(blocks[i-1], b) {
			out = append(out, "")
		}
		out = append(out, b.lines...)
	}
	return out
}

func needsBlank(prev, next block) bool {
	if prev.detached || next.detached {
		return true
	}
	if prev.group != next.group {
		return true
	}
	return len(prev.lines) > 1 || len(next.lines) > 1
}
