package testkit

import (
	"fmt"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"declgen/internal/decl"
)

// CheckTree runs the structural invariants of a declaration tree:
// 1) the root is an unnamed namespace without a parent
// 2) every child points back at the namespace that lists it, and is listed once
// 3) no namespace has two namespace children with the same name and kind
// 4) every allocated node is reachable from the root
func CheckTree(t *decl.Tree) error {
	if t == nil {
		return fmt.Errorf("nil tree")
	}
	root := t.Node(t.Root())
	if root == nil {
		return fmt.Errorf("root node not found")
	}

	// 1) root sanity
	if root.Kind != decl.KindNamespace {
		return fmt.Errorf("root kind is %s, want namespace", root.Kind)
	}
	if root.Name != "" || root.Parent.IsValid() {
		return fmt.Errorf("root must be unnamed and parent-less: name=%q parent=%d", root.Name, root.Parent)
	}

	// 2) + 3)
	seen := make(map[decl.NodeID]bool, t.Len())
	if err := checkNamespace(t, t.Root(), seen); err != nil {
		return err
	}

	// 4) reachability
	total, err := safecast.Conv[uint32](t.Len())
	if err != nil {
		return fmt.Errorf("node count overflow: %w", err)
	}
	reached, err := safecast.Conv[uint32](len(seen) + 1)
	if err != nil {
		return fmt.Errorf("reachable count overflow: %w", err)
	}
	if reached != total {
		return fmt.Errorf("%d nodes allocated but %d reachable from root", total, reached)
	}
	return nil
}

type siblingKey struct {
	name string
	kind decl.Kind
}

func checkNamespace(t *decl.Tree, id decl.NodeID, seen map[decl.NodeID]bool) error {
	ns := t.Namespace(id)
	if ns == nil {
		return fmt.Errorf("node %d is not a namespace", id)
	}
	siblings := make(map[siblingKey]decl.NodeID)
	for _, child := range ns.Children {
		n := t.Node(child)
		if n == nil {
			return fmt.Errorf("nil child id=%d under %q", child, t.QualifiedName(id))
		}
		if seen[child] {
			return fmt.Errorf("node %d (%s) has more than one parent", child, t.Describe(child))
		}
		seen[child] = true
		if n.Parent != id {
			return fmt.Errorf("node %d parent mismatch: got=%d want=%d", child, n.Parent, id)
		}
		if n.Kind == decl.KindNamespace {
			return fmt.Errorf("root-kind namespace nested under %q", t.QualifiedName(id))
		}
		if !n.Kind.IsNamespace() {
			continue
		}
		key := siblingKey{name: norm.NFC.String(n.Name), kind: n.Kind}
		if prev, dup := siblings[key]; dup {
			return fmt.Errorf("duplicate %s %q under %q: nodes %d and %d", n.Kind, n.Name, t.QualifiedName(id), prev, child)
		}
		siblings[key] = child
		if err := checkNamespace(t, child, seen); err != nil {
			return err
		}
	}
	return nil
}
