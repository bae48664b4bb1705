package decl

import (
	"strings"

	"declgen/internal/diag"
)

// AddComment appends comment lines to id. Each element is split on "\n".
func (t *Tree) AddComment(id NodeID, lines ...string) error {
	n := t.Node(id)
	if n == nil {
		return diag.Newf(diag.DeclUnknownNode, "unknown node %d", id)
	}
	n.Comments = append(n.Comments, splitComment(lines)...)
	return nil
}

// AddCommentToNextChild queues lines on ns; the next child created under ns
// gets them in front of its own comments. A queue that is never drained is
// simply dropped.
func (t *Tree) AddCommentToNextChild(ns NodeID, lines ...string) error {
	if err := t.checkParent(ns); err != nil {
		return err
	}
	payload := t.Namespace(ns)
	payload.Pending = append(payload.Pending, splitComment(lines)...)
	return nil
}

func splitComment(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, strings.Split(l, "\n")...)
	}
	return out
}
