package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"declgen/internal/decl"
	"declgen/internal/diag"
)

func TestDuplicateMembersAreReported(t *testing.T) {
	tree := decl.NewTree()
	m, err := tree.CreateModule(tree.Root(), "M", decl.Flags{})
	require.NoError(t, err)

	tree.SetContributor(decl.NamedContributor("billing"))
	_, err = tree.CreateMethod(m, decl.MethodSpec{Name: "foo", ReturnType: "String"})
	require.NoError(t, err)
	tree.SetContributor(decl.NamedContributor("orders"))
	_, err = tree.CreateMethod(m, decl.MethodSpec{Name: "foo", Returns: "String"})
	require.NoError(t, err)
	_, err = tree.CreateMethod(m, decl.MethodSpec{Name: "foo", ReturnType: "Integer"})
	require.NoError(t, err)

	bag := diag.NewBag(10)
	Run(tree, diag.BagReporter{Bag: bag}, Options{})

	require.Equal(t, 1, bag.Len())
	d := bag.Items()[0]
	assert.Equal(t, diag.SevWarning, d.Severity)
	assert.Equal(t, diag.LintDuplicateMember, d.Code)
	assert.Equal(t, "M::foo", d.Path)
	require.Len(t, d.Notes, 2)
	assert.Equal(t, "declared by orders", d.Notes[0].Msg)
	assert.Equal(t, "first declared by billing", d.Notes[1].Msg)

	// the tree keeps both
	assert.Len(t, tree.Children(m), 3)
}

func TestEmptyNamespaces(t *testing.T) {
	tree := decl.NewTree()
	m, err := tree.CreateModule(tree.Root(), "M", decl.Flags{})
	require.NoError(t, err)
	_, err = tree.CreateClass(m, "Empty", "", decl.Flags{})
	require.NoError(t, err)
	_, err = tree.CreateEnumClass(m, "Dir", []decl.EnumValue{{Name: "North"}})
	require.NoError(t, err)

	bag := diag.NewBag(10)
	Run(tree, diag.BagReporter{Bag: bag}, Options{})
	assert.Equal(t, 0, bag.Len())

	Run(tree, diag.BagReporter{Bag: bag}, Options{EmptyNamespaces: true})
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, "M::Empty", bag.Items()[0].Path)
	assert.Equal(t, diag.SevInfo, bag.Items()[0].Severity)
}
