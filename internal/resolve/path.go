package resolve

import (
	"fmt"
	"strings"

	"declgen/internal/decl"
	"declgen/internal/diag"
)

// maxDepth bounds the ancestry walk; deeper chains are treated as cyclic.
const maxDepth = 256

type level struct {
	name string
	kind decl.Kind
	// reuse takes an existing namespace of any kind before creating kind.
	reuse bool
}

// Path returns the namespace for e under root, creating every missing
// ancestor on the way and reusing existing ones through the normal merge.
//
// Names and kinds of the whole chain are resolved before anything is
// created, so a NameResolutionError leaves the tree unchanged. root must be
// the root namespace of t (UsageError otherwise).
func Path(t *decl.Tree, root decl.NodeID, e Entity) (decl.NodeID, error) {
	if !t.IsRoot(root) {
		return decl.NoNodeID, diag.Newf(diag.ResNotRoot, "path resolution on %q: not the root namespace", t.QualifiedName(root)).
			WithDetail("node", t.Describe(root))
	}
	if e == nil {
		return decl.NoNodeID, diag.Newf(diag.ResEmptyPath, "nil entity")
	}

	chain, err := ancestry(e)
	if err != nil {
		return decl.NoNodeID, err
	}
	levels := make([]level, 0, len(chain))
	for i, ent := range chain {
		name, ok := scopeName(ent)
		if !ok {
			return decl.NoNodeID, diag.Newf(diag.ResAnonymousScope, "cannot determine the name of scope %d of %d (%T)", i+1, len(chain), ent)
		}
		if s, ok := ent.(*Scope); ok && s.Kind == decl.KindInvalid {
			levels = append(levels, level{name: name, kind: decl.KindModule, reuse: true})
			continue
		}
		levels = append(levels, level{name: name, kind: scopeKind(t, name, ent)})
	}

	log := t.Logger()
	cur := root
	for _, lv := range levels {
		if lv.reuse {
			if existing, ok := t.ChildNamespace(cur, lv.name); ok {
				cur = existing
				continue
			}
		}
		next, err := t.CreateNamespace(cur, decl.NamespaceSpec{Name: lv.name, Kind: lv.kind})
		if err != nil {
			return decl.NoNodeID, fmt.Errorf("resolve %s: %w", lv.name, err)
		}
		cur = next
	}
	log.Debug().Str("path", t.QualifiedName(cur)).Int("depth", len(levels)).Msg("path resolved")
	return cur, nil
}

// ancestry lists e and its enclosing scopes, outermost first.
func ancestry(e Entity) ([]Entity, error) {
	var chain []Entity
	for cur := e; cur != nil; cur = cur.Enclosing() {
		if len(chain) == maxDepth {
			return nil, diag.Newf(diag.ResAnonymousScope, "ancestry deeper than %d scopes", maxDepth)
		}
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func scopeName(e Entity) (string, bool) {
	if n, ok := e.(Namer); ok {
		if name, ok := n.ScopeName(); ok && strings.TrimSpace(name) != "" {
			return name, true
		}
	}
	if s, ok := e.(fmt.Stringer); ok {
		full := strings.TrimSpace(s.String())
		if idx := strings.LastIndex(full, "::"); idx >= 0 {
			full = full[idx+2:]
		}
		if full != "" {
			return full, true
		}
	}
	return "", false
}

func scopeKind(t *decl.Tree, name string, e Entity) decl.Kind {
	kind := decl.KindModule
	if _, ok := e.(*Class); ok {
		kind = decl.KindClass
	}
	if in, ok := e.(Introspector); ok {
		if k := in.IntrospectKind(); isCreatable(k) {
			kind = k
		}
	}
	if r, ok := e.(KindReporter); ok {
		if claimed := r.ReportedKind(); claimed != kind {
			log := t.Logger()
			log.Trace().Str("scope", name).Str("claimed", claimed.String()).Str("kind", kind.String()).
				Msg("entity misreports its kind")
		}
	}
	return kind
}
