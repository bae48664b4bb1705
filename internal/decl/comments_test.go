package decl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"declgen/internal/decl"
	"declgen/internal/diag"
)

func TestAddCommentSplitsLines(t *testing.T) {
	tree := decl.NewTree()
	mod, err := tree.CreateModule(tree.Root(), "M", decl.Flags{})
	require.NoError(t, err)

	require.NoError(t, tree.AddComment(mod, "This is a", "multi-line"))
	require.NoError(t, tree.AddComment(mod, "comment\nwith a tail"))
	assert.Equal(t, []string{"This is a", "multi-line", "comment", "with a tail"}, tree.Node(mod).Comments)

	assert.ErrorIs(t, tree.AddComment(decl.NodeID(42), "x"), diag.ErrUsage)
}

func TestPendingCommentsRenderFirst(t *testing.T) {
	tree := decl.NewTree()
	require.NoError(t, tree.AddCommentToNextChild(tree.Root(), "This is a module"))
	mod, err := tree.CreateModule(tree.Root(), "M", decl.Flags{})
	require.NoError(t, err)
	require.NoError(t, tree.AddComment(mod, "This was added internally"))

	assert.Equal(t, []string{"This is a module", "This was added internally"}, tree.Node(mod).Comments)
	assert.Empty(t, tree.Namespace(tree.Root()).Pending)

	// drained exactly once
	next, err := tree.CreateModule(tree.Root(), "N", decl.Flags{})
	require.NoError(t, err)
	assert.Empty(t, tree.Node(next).Comments)
}

func TestPendingCommentsGoToMembersToo(t *testing.T) {
	tree := decl.NewTree()
	klass, err := tree.CreateClass(tree.Root(), "A", "", decl.Flags{})
	require.NoError(t, err)
	require.NoError(t, tree.AddCommentToNextChild(klass, "first", "second"))
	meth, err := tree.CreateMethod(klass, decl.MethodSpec{Name: "foo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, tree.Node(meth).Comments)
}

func TestPendingCommentsOnMergeComeFirst(t *testing.T) {
	tree := decl.NewTree()
	mod, err := tree.CreateModule(tree.Root(), "M", decl.Flags{})
	require.NoError(t, err)
	require.NoError(t, tree.AddComment(mod, "original"))

	require.NoError(t, tree.AddCommentToNextChild(tree.Root(), "from second contributor"))
	again, err := tree.CreateModule(tree.Root(), "M", decl.Flags{})
	require.NoError(t, err)
	assert.Equal(t, mod, again)
	assert.Equal(t, []string{"from second contributor", "original"}, tree.Node(mod).Comments)
	assert.Empty(t, tree.Namespace(tree.Root()).Pending)
}

func TestUndrainedQueueIsNotAnError(t *testing.T) {
	tree := decl.NewTree()
	require.NoError(t, tree.AddCommentToNextChild(tree.Root(), "never used"))
	assert.Equal(t, []string{"never used"}, tree.Namespace(tree.Root()).Pending)

	meth, err := tree.CreateMethod(tree.Root(), decl.MethodSpec{Name: "m"})
	require.NoError(t, err)
	assert.ErrorIs(t, tree.AddCommentToNextChild(meth, "x"), diag.ErrUsage)
}
