package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"declgen/internal/decl"
	"declgen/internal/diag"
	"declgen/internal/testkit"
)

// renamed overrides its String form; ScopeName still gives the real name.
type renamed struct{ Class }

func (r *renamed) String() string { return "Foo" }

// liar claims to be a module but introspects as a class.
type liar struct{ name string }

func (l *liar) Enclosing() Entity { return nil }
func (l *liar) ScopeName() (string, bool) { return l.name, true }
func (l *liar) ReportedKind() decl.Kind { return decl.KindModule }
func (l *liar) IntrospectKind() decl.Kind { return decl.KindClass }

// stringOnly has no primary name lookup.
type stringOnly struct{ full string }

func (s stringOnly) Enclosing() Entity { return nil }
func (s stringOnly) String() string { return s.full }

type anonymous struct{}

func (anonymous) Enclosing() Entity { return nil }

func pathABC() *Class {
	a := &Module{Name: "PathA"}
	b := &Module{Name: "B", Parent: a}
	return &Class{Name: "C", Parent: b}
}

func TestPathCreatesNestedNamespaces(t *testing.T) {
	tree := decl.NewTree()
	leaf, err := Path(tree, tree.Root(), pathABC())
	require.NoError(t, err)

	assert.Equal(t, "PathA::B::C", tree.QualifiedName(leaf))
	assert.Equal(t, decl.KindClass, tree.Kind(leaf))
	b := tree.Parent(leaf)
	assert.Equal(t, decl.KindModule, tree.Kind(b))
	a := tree.Parent(b)
	assert.Equal(t, decl.KindModule, tree.Kind(a))
	assert.True(t, tree.IsRoot(tree.Parent(a)))
	require.NoError(t, testkit.CheckTree(tree))
}

func TestPathReusesExistingNamespaces(t *testing.T) {
	tree := decl.NewTree()
	a, err := tree.CreateModule(tree.Root(), "PathA", decl.Flags{})
	require.NoError(t, err)
	b, err := tree.CreateModule(a, "B", decl.Flags{})
	require.NoError(t, err)
	before := tree.Len()

	leaf, err := Path(tree, tree.Root(), pathABC())
	require.NoError(t, err)
	assert.Equal(t, b, tree.Parent(leaf))
	assert.Equal(t, before+1, tree.Len())

	again, err := Path(tree, tree.Root(), pathABC())
	require.NoError(t, err)
	assert.Equal(t, leaf, again)
	assert.Equal(t, before+1, tree.Len())
	require.NoError(t, testkit.CheckTree(tree))
}

func TestPathOnNonRoot(t *testing.T) {
	tree := decl.NewTree()
	x, err := tree.CreateModule(tree.Root(), "X", decl.Flags{})
	require.NoError(t, err)

	_, err = Path(tree, x, pathABC())
	require.Error(t, err)
	assert.ErrorIs(t, err, diag.ErrUsage)
	assert.Equal(t, diag.ResNotRoot, diag.CodeOf(err))
}

func TestPathUsesActualName(t *testing.T) {
	tree := decl.NewTree()
	leaf, err := Path(tree, tree.Root(), &renamed{Class{Name: "PathB"}})
	require.NoError(t, err)
	assert.Equal(t, "PathB", tree.Name(leaf))
}

func TestPathFallsBackToString(t *testing.T) {
	tree := decl.NewTree()
	leaf, err := Path(tree, tree.Root(), stringOnly{full: "Outer::Inner"})
	require.NoError(t, err)
	assert.Equal(t, "Inner", tree.Name(leaf))
	assert.Equal(t, decl.KindModule, tree.Kind(leaf))
}

func TestPathAnonymousScope(t *testing.T) {
	tree := decl.NewTree()
	before := tree.Len()

	_, err := Path(tree, tree.Root(), anonymous{})
	assert.ErrorIs(t, err, diag.ErrNameResolution)

	// the named ancestors must not be created either
	_, err = Path(tree, tree.Root(), &Class{Name: "", Parent: &Module{Name: "Named"}})
	assert.ErrorIs(t, err, diag.ErrNameResolution)
	assert.Equal(t, before, tree.Len())

	_, err = Path(tree, tree.Root(), nil)
	assert.ErrorIs(t, err, diag.ErrNameResolution)
}

func TestPathTrustsIntrospection(t *testing.T) {
	tree := decl.NewTree()
	leaf, err := Path(tree, tree.Root(), &liar{name: "PathC"})
	require.NoError(t, err)
	assert.Equal(t, decl.KindClass, tree.Kind(leaf))
}

func TestParsePath(t *testing.T) {
	scope, err := ParsePath("::Billing::Invoice::Line", decl.KindStruct)
	require.NoError(t, err)

	tree := decl.NewTree()
	leaf, err := Path(tree, tree.Root(), scope)
	require.NoError(t, err)
	assert.Equal(t, "Billing::Invoice::Line", tree.QualifiedName(leaf))
	assert.Equal(t, decl.KindStruct, tree.Kind(leaf))
	assert.Equal(t, decl.KindModule, tree.Kind(tree.Parent(leaf)))

	for _, bad := range []string{"", "::", "A::::B", "A:: "} {
		_, err := ParsePath(bad, decl.KindClass)
		assert.ErrorIs(t, err, diag.ErrNameResolution, bad)
	}
	_, err = ParsePath("A", decl.KindMethod)
	assert.ErrorIs(t, err, diag.ErrUsage)
}

func TestParsedPathReusesAnyKind(t *testing.T) {
	tree := decl.NewTree()
	billing, err := tree.CreateModule(tree.Root(), "Billing", decl.Flags{})
	require.NoError(t, err)
	invoice, err := tree.CreateClass(billing, "Invoice", "Base", decl.Flags{})
	require.NoError(t, err)

	scope, err := ParsePath("Billing::Invoice::Line", decl.KindClass)
	require.NoError(t, err)
	leaf, err := Path(tree, tree.Root(), scope)
	require.NoError(t, err)
	assert.Equal(t, invoice, tree.Parent(leaf))
	assert.Len(t, tree.Children(billing), 1)
	require.NoError(t, testkit.CheckTree(tree))
}
