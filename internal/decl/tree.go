package decl

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

type Hints struct{ Nodes, Namespaces, Members uint }

// Tree owns every node of one generation session.
//
// Pointers returned by Node, Namespace, Method and the other accessors stay
// valid only until the next creation call.
type Tree struct {
	nodes      *Arena[Node]
	namespaces *Arena[Namespace]
	methods    *Arena[Method]
	attributes *Arena[Attribute]
	constants  *Arena[Constant]
	mixins     *Arena[Mixin]
	aliases    *Arena[TypeAlias]
	arbitrary  *Arena[Arbitrary]
	props      *Arena[StructProp]

	byKey       map[mergeKey]NodeID
	root        NodeID
	contributor Contributor
	log         zerolog.Logger
}

func NewTree() *Tree {
	return NewTreeWithHints(Hints{})
}

func NewTreeWithHints(hints Hints) *Tree {
	if hints.Nodes == 0 {
		hints.Nodes = 1 << 7
	}
	if hints.Namespaces == 0 {
		hints.Namespaces = 1 << 5
	}
	if hints.Members == 0 {
		hints.Members = 1 << 5
	}
	t := &Tree{
		nodes:      NewArena[Node](hints.Nodes),
		namespaces: NewArena[Namespace](hints.Namespaces),
		methods:    NewArena[Method](hints.Members),
		attributes: NewArena[Attribute](hints.Members),
		constants:  NewArena[Constant](hints.Members),
		mixins:     NewArena[Mixin](hints.Members),
		aliases:    NewArena[TypeAlias](hints.Members),
		arbitrary:  NewArena[Arbitrary](hints.Members),
		props:      NewArena[StructProp](hints.Members),
		byKey:      make(map[mergeKey]NodeID),
		log:        zerolog.Nop(),
	}
	payload := PayloadID(t.namespaces.Allocate(Namespace{}))
	t.root = NodeID(t.nodes.Allocate(Node{Kind: KindNamespace, Payload: payload}))
	return t
}

// Root returns the unnamed, parent-less namespace.
func (t *Tree) Root() NodeID {
	return t.root
}

// SetLogger routes merge and creation events to l. The default is zerolog.Nop().
func (t *Tree) SetLogger(l zerolog.Logger) {
	t.log = l
}

// Logger returns the logger set with SetLogger.
func (t *Tree) Logger() zerolog.Logger {
	return t.log
}

// SetContributor stamps c as GeneratedBy on every node created afterwards.
func (t *Tree) SetContributor(c Contributor) {
	t.contributor = c
}

func (t *Tree) Contributor() Contributor {
	return t.contributor
}

// Len returns the number of nodes, root included.
func (t *Tree) Len() int {
	return int(t.nodes.Len())
}

func (t *Tree) Node(id NodeID) *Node {
	if !id.IsValid() {
		return nil
	}
	return t.nodes.Get(uint32(id))
}

func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Node(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

func (t *Tree) Name(id NodeID) string {
	if n := t.Node(id); n != nil {
		return n.Name
	}
	return ""
}

func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.Node(id); n != nil {
		return n.Parent
	}
	return NoNodeID
}

// Children returns the child list of a namespace, nil for anything else.
// Do not modify it.
func (t *Tree) Children(id NodeID) []NodeID {
	if ns := t.Namespace(id); ns != nil {
		return ns.Children
	}
	return nil
}

func (t *Tree) Namespace(id NodeID) *Namespace {
	n := t.Node(id)
	if n == nil || !n.Kind.IsNamespace() {
		return nil
	}
	return t.namespaces.Get(uint32(n.Payload))
}

func (t *Tree) Method(id NodeID) *Method {
	n := t.Node(id)
	if n == nil || n.Kind != KindMethod {
		return nil
	}
	return t.methods.Get(uint32(n.Payload))
}

func (t *Tree) Attribute(id NodeID) *Attribute {
	n := t.Node(id)
	if n == nil || n.Kind != KindAttribute {
		return nil
	}
	return t.attributes.Get(uint32(n.Payload))
}

func (t *Tree) Constant(id NodeID) *Constant {
	n := t.Node(id)
	if n == nil || n.Kind != KindConstant {
		return nil
	}
	return t.constants.Get(uint32(n.Payload))
}

func (t *Tree) Mixin(id NodeID) *Mixin {
	n := t.Node(id)
	if n == nil || n.Kind != KindMixin {
		return nil
	}
	return t.mixins.Get(uint32(n.Payload))
}

func (t *Tree) TypeAlias(id NodeID) *TypeAlias {
	n := t.Node(id)
	if n == nil || n.Kind != KindTypeAlias {
		return nil
	}
	return t.aliases.Get(uint32(n.Payload))
}

func (t *Tree) Arbitrary(id NodeID) *Arbitrary {
	n := t.Node(id)
	if n == nil || n.Kind != KindArbitrary {
		return nil
	}
	return t.arbitrary.Get(uint32(n.Payload))
}

func (t *Tree) StructProp(id NodeID) *StructProp {
	n := t.Node(id)
	if n == nil || n.Kind != KindStructProp {
		return nil
	}
	return t.props.Get(uint32(n.Payload))
}

// Includes returns the include mixins of ns in creation order.
func (t *Tree) Includes(ns NodeID) []NodeID {
	return t.mixinsOf(ns, Include)
}

// Extends returns the extend mixins of ns in creation order.
func (t *Tree) Extends(ns NodeID) []NodeID {
	return t.mixinsOf(ns, Extend)
}

func (t *Tree) mixinsOf(ns NodeID, dir Direction) []NodeID {
	var out []NodeID
	for _, child := range t.Children(ns) {
		if m := t.Mixin(child); m != nil && m.Direction == dir {
			out = append(out, child)
		}
	}
	return out
}

// IsRoot reports whether id is the root namespace of t.
func (t *Tree) IsRoot(id NodeID) bool {
	return id.IsValid() && id == t.root
}

// QualifiedName joins the names of id and its named ancestors with "::".
func (t *Tree) QualifiedName(id NodeID) string {
	var parts []string
	for cur := id; cur.IsValid(); cur = t.Parent(cur) {
		if name := t.Name(cur); name != "" {
			parts = append(parts, name)
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "::")
}

// Describe returns a one-line human description of a node.
func (t *Tree) Describe(id NodeID) string {
	n := t.Node(id)
	if n == nil {
		return "<invalid>"
	}
	switch n.Kind {
	case KindNamespace, KindModule, KindClass, KindInterface, KindStruct, KindEnum:
		ns := t.Namespace(id)
		name := n.Name
		if name == "" {
			name = "<root>"
		}
		desc := fmt.Sprintf("%s %s - %d children", n.Kind.Label(), name, len(ns.Children))
		if ns.Superclass != "" {
			desc += ", superclass " + ns.Superclass
		}
		return desc
	case KindMethod:
		m := t.Method(id)
		ret := m.ReturnType
		if ret == "" {
			ret = "void"
		}
		prefix := ""
		if m.ClassMethod {
			prefix = "self."
		}
		return fmt.Sprintf("Method %s%s - %d parameters, returns %s", prefix, n.Name, len(m.Params), ret)
	case KindAttribute:
		a := t.Attribute(id)
		return fmt.Sprintf("Attribute %s (%s) - %s", n.Name, a.AttrKind, untypedIfEmpty(a.Type))
	case KindConstant:
		return fmt.Sprintf("Constant %s = %s", n.Name, t.Constant(id).Value)
	case KindMixin:
		m := t.Mixin(id)
		return fmt.Sprintf("%s %s", capitalize(m.Direction.String()), m.Target)
	case KindTypeAlias:
		return fmt.Sprintf("Type alias %s = %s", n.Name, t.TypeAlias(id).Type)
	case KindArbitrary:
		lines := strings.Count(t.Arbitrary(id).Code, "\n") + 1
		return fmt.Sprintf("Arbitrary code - %d lines", lines)
	case KindStructProp:
		return fmt.Sprintf("Prop %s - %s", n.Name, untypedIfEmpty(t.StructProp(id).Type))
	default:
		return "<invalid>"
	}
}

func untypedIfEmpty(s string) string {
	if s == "" {
		return "untyped"
	}
	return s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
