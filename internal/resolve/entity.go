package resolve

import (
	"strings"

	"declgen/internal/decl"
	"declgen/internal/diag"
)

// Entity is anything with an enclosing scope. The outermost entity returns nil.
type Entity interface {
	Enclosing() Entity
}

// Namer is the primary name lookup. It returns false for anonymous scopes.
type Namer interface {
	ScopeName() (string, bool)
}

// Introspector reports the real kind of an entity. Its answer overrides the
// Go type of the entity and anything the entity reports about itself, so an
// entity that claims to be a module but introspects as a class becomes a
// class. Only namespace kinds other than KindNamespace are honoured; any
// other answer falls back to the Go type.
type Introspector interface {
	IntrospectKind() decl.Kind
}

// KindReporter is what an entity claims to be. It is only logged, never used.
type KindReporter interface {
	ReportedKind() decl.Kind
}

type Module struct {
	Name   string
	Parent Entity
}

func (m *Module) Enclosing() Entity { return m.Parent }
func (m *Module) ScopeName() (string, bool) { return m.Name, m.Name != "" }
func (m *Module) ReportedKind() decl.Kind { return decl.KindModule }

type Class struct {
	Name   string
	Parent Entity
}

func (c *Class) Enclosing() Entity { return c.Parent }
func (c *Class) ScopeName() (string, bool) { return c.Name, c.Name != "" }
func (c *Class) ReportedKind() decl.Kind { return decl.KindClass }

// Scope is an entity with a fixed kind, as produced by ParsePath. A Kind of
// decl.KindInvalid reuses an existing namespace of any kind with the same
// name, or creates a module.
type Scope struct {
	Name   string
	Kind   decl.Kind
	Parent *Scope
}

func (s *Scope) Enclosing() Entity {
	if s.Parent == nil {
		return nil
	}
	return s.Parent
}

func (s *Scope) ScopeName() (string, bool) { return s.Name, s.Name != "" }
func (s *Scope) IntrospectKind() decl.Kind { return s.Kind }

// ParsePath turns "A::B::C" into a chain of scopes. Every level but the last
// takes whatever namespace already exists under that name (a module when
// there is none); the last one has kind leaf. A leading "::" is ignored.
func ParsePath(path string, leaf decl.Kind) (*Scope, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(path), "::")
	if trimmed == "" {
		return nil, diag.Newf(diag.ResEmptyPath, "empty path %q", path)
	}
	if !isCreatable(leaf) {
		return nil, diag.Newf(diag.DeclUnknownNode, "path %q: %s is not a namespace kind", path, leaf)
	}
	segments := strings.Split(trimmed, "::")
	var cur *Scope
	for i, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			return nil, diag.Newf(diag.ResEmptyPath, "path %q has an empty segment", path)
		}
		kind := decl.KindInvalid
		if i == len(segments)-1 {
			kind = leaf
		}
		cur = &Scope{Name: seg, Kind: kind, Parent: cur}
	}
	return cur, nil
}

func isCreatable(k decl.Kind) bool {
	return k.IsNamespace() && k != decl.KindNamespace
}
