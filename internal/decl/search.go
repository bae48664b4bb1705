package decl

import "golang.org/x/text/unicode/norm"

// Query filters nodes by name and kind; zero fields match anything.
type Query struct {
	Name string
	Kind Kind
}

func (q Query) matches(n *Node) bool {
	if q.Name != "" && norm.NFC.String(n.Name) != norm.NFC.String(q.Name) {
		return false
	}
	return n.Kind.Satisfies(q.Kind)
}

// Find returns the first node matching q in depth-first pre-order, starting
// with from itself.
func (t *Tree) Find(from NodeID, q Query) (NodeID, bool) {
	var found NodeID
	t.walk(from, func(id NodeID, n *Node) bool {
		if q.matches(n) {
			found = id
			return false
		}
		return true
	})
	return found, found.IsValid()
}

// FindAll returns every node matching q, in the order Find would visit them.
func (t *Tree) FindAll(from NodeID, q Query) []NodeID {
	var out []NodeID
	t.walk(from, func(id NodeID, n *Node) bool {
		if q.matches(n) {
			out = append(out, id)
		}
		return true
	})
	return out
}

// ChildNamespace returns the first namespace child of parent named name,
// whatever its kind.
func (t *Tree) ChildNamespace(parent NodeID, name string) (NodeID, bool) {
	want := norm.NFC.String(name)
	for _, child := range t.Children(parent) {
		n := t.Node(child)
		if n.Kind.IsNamespace() && norm.NFC.String(n.Name) == want {
			return child, true
		}
	}
	return NoNodeID, false
}

// Walk visits id and its descendants in pre-order until fn returns false.
func (t *Tree) Walk(id NodeID, fn func(NodeID) bool) {
	t.walk(id, func(id NodeID, _ *Node) bool { return fn(id) })
}

func (t *Tree) walk(id NodeID, fn func(NodeID, *Node) bool) bool {
	n := t.Node(id)
	if n == nil {
		return true
	}
	if !fn(id, n) {
		return false
	}
	for _, child := range t.Children(id) {
		if !t.walk(child, fn) {
			return false
		}
	}
	return true
}
