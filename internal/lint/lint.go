// Package lint reports suspicious but legal shapes of a declaration tree.
// Nothing here changes the tree: equal sibling members are kept and only
// reported.
package lint

import (
	"fmt"

	"declgen/internal/decl"
	"declgen/internal/diag"
)

type Options struct {
	// EmptyNamespaces also reports namespaces without children or enum values.
	EmptyNamespaces bool
}

// Run walks the whole tree and reports findings to r.
func Run(t *decl.Tree, r diag.Reporter, opt Options) {
	t.Walk(t.Root(), func(id decl.NodeID) bool {
		if !t.Kind(id).IsNamespace() {
			return true
		}
		duplicates(t, r, id)
		if opt.EmptyNamespaces && !t.IsRoot(id) {
			ns := t.Namespace(id)
			if len(ns.Children) == 0 && len(ns.Enums) == 0 {
				diag.ReportInfo(r, diag.LintEmptyNamespace, t.QualifiedName(id),
					fmt.Sprintf("%s has no declarations", t.Kind(id))).Emit()
			}
		}
		return true
	})
}

// duplicates reports every member of ns equal to an earlier sibling.
func duplicates(t *decl.Tree, r diag.Reporter, ns decl.NodeID) {
	var members []decl.NodeID
	for _, child := range t.Children(ns) {
		if !t.Kind(child).IsMember() {
			continue
		}
		for _, prev := range members {
			if t.Equal(prev, child) {
				b := diag.ReportWarning(r, diag.LintDuplicateMember, path(t, child),
					fmt.Sprintf("duplicate %s", t.Describe(child)))
				if by := t.Node(child).GeneratedBy; by != nil {
					b.WithNote(path(t, child), "declared by "+by.ContributorName())
				}
				if by := t.Node(prev).GeneratedBy; by != nil {
					b.WithNote(path(t, prev), "first declared by "+by.ContributorName())
				} else {
					b.WithNote(path(t, prev), "first declared here")
				}
				b.Emit()
				break
			}
		}
		members = append(members, child)
	}
}

// path names a member by its owner when the member itself has no name.
func path(t *decl.Tree, id decl.NodeID) string {
	if t.Name(id) == "" {
		return t.QualifiedName(t.Parent(id))
	}
	return t.QualifiedName(id)
}
