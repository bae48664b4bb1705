package decl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"declgen/internal/decl"
)

func searchFixture(t *testing.T) (*decl.Tree, decl.NodeID) {
	t.Helper()
	tree := decl.NewTree()
	m, err := tree.CreateModule(tree.Root(), "M", decl.Flags{})
	require.NoError(t, err)
	a, err := tree.CreateClass(m, "A", "", decl.Flags{})
	require.NoError(t, err)
	_, err = tree.CreateClass(a, "B", "", decl.Flags{})
	require.NoError(t, err)
	_, err = tree.CreateModule(m, "C", decl.Flags{})
	require.NoError(t, err)
	_, err = tree.CreateClass(m, "D", "", decl.Flags{})
	require.NoError(t, err)
	_, err = tree.CreateStructClass(m, "S", nil)
	require.NoError(t, err)
	_, err = tree.CreateMethod(m, decl.MethodSpec{Name: "A"})
	require.NoError(t, err)
	return tree, m
}

func names(tree *decl.Tree, ids []decl.NodeID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, tree.Name(id))
	}
	return out
}

func TestFind(t *testing.T) {
	tree, m := searchFixture(t)

	a, ok := tree.Find(m, decl.Query{Name: "A"})
	require.True(t, ok)
	assert.Equal(t, decl.KindClass, tree.Kind(a))

	b, ok := tree.Find(a, decl.Query{Name: "B"})
	require.True(t, ok)
	assert.Equal(t, "B", tree.Name(b))

	c, ok := tree.Find(m, decl.Query{Kind: decl.KindModule})
	require.True(t, ok)
	assert.Equal(t, m, c, "search starts with the namespace itself")

	c, ok = tree.Find(a, decl.Query{Kind: decl.KindModule})
	assert.False(t, ok)
	assert.False(t, c.IsValid())

	meth, ok := tree.Find(m, decl.Query{Name: "A", Kind: decl.KindMethod})
	require.True(t, ok)
	assert.Equal(t, decl.KindMethod, tree.Kind(meth))
}

func TestFindAllPreOrder(t *testing.T) {
	tree, m := searchFixture(t)

	assert.Equal(t, []string{"A", "A"}, names(tree, tree.FindAll(m, decl.Query{Name: "A"})))
	assert.Equal(t, []string{"A", "B", "D", "S"}, names(tree, tree.FindAll(m, decl.Query{Kind: decl.KindClass})))
	assert.Equal(t, []string{"M", "A", "B", "C", "D", "S"}, names(tree, tree.FindAll(m, decl.Query{Kind: decl.KindNamespace})))
	assert.Equal(t, []string{"S"}, names(tree, tree.FindAll(tree.Root(), decl.Query{Kind: decl.KindStruct})))
	assert.Empty(t, tree.FindAll(m, decl.Query{Name: "nope"}))
	assert.Len(t, tree.FindAll(tree.Root(), decl.Query{}), tree.Len())
}
