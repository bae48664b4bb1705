package schema

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"declgen/internal/decl"
	"declgen/internal/diag"
	"declgen/internal/render"
	"declgen/internal/testkit"
)

const billingRBI = `# Billing API
module Billing
  class Invoice < Base
    include Comparable

    sig { returns(String) }
    attr_reader :number

    # Sum of all lines
    sig { returns(Integer) }
    def total; end

    sig { override.params(item: Item, qty: Integer).void }
    def add_line(item, qty: 1); end

    class Line < T::Struct
      prop :amount, Integer
    end
  end

  class Status < T::Enum
    enums do
      Draft = new
      Paid = new("paid")
    end
  end
end`

func TestLoadAndApply(t *testing.T) {
	for _, name := range []string{"billing.yaml", "billing.toml"} {
		t.Run(name, func(t *testing.T) {
			doc, err := Load(filepath.Join("testdata", name))
			require.NoError(t, err)
			assert.Equal(t, "billing", doc.Contributor)

			tree := decl.NewTree()
			require.NoError(t, Apply(tree, doc))
			require.NoError(t, testkit.CheckTree(tree))

			got := strings.Join(render.Render(tree, tree.Root(), render.DefaultOptions()), "\n")
			assert.Equal(t, billingRBI, got)

			invoice, ok := tree.Find(tree.Root(), decl.Query{Name: "Invoice"})
			require.True(t, ok)
			assert.Equal(t, "billing", tree.Node(invoice).GeneratedBy.ContributorName())
			assert.Nil(t, tree.Contributor(), "contributor is restored after apply")
		})
	}
}

func TestTwoContributorsMerge(t *testing.T) {
	first, err := Decode("a.yaml", []byte(`
declarations:
  - kind: module
    name: Shared
    body:
      - {kind: method, name: one}
`))
	require.NoError(t, err)
	second, err := Decode("b.yaml", []byte(`
declarations:
  - kind: module
    name: Shared
    final: true
    body:
      - {kind: method, name: two}
`))
	require.NoError(t, err)
	assert.Equal(t, "a", first.Contributor)

	tree := decl.NewTree()
	require.NoError(t, Apply(tree, first))
	require.NoError(t, Apply(tree, second))

	shared, ok := tree.Find(tree.Root(), decl.Query{Name: "Shared"})
	require.True(t, ok)
	assert.True(t, tree.Namespace(shared).Flags.Final)
	children := tree.Children(shared)
	require.Len(t, children, 2)
	assert.Equal(t, "a", tree.Node(children[0]).GeneratedBy.ContributorName())
	assert.Equal(t, "b", tree.Node(children[1]).GeneratedBy.ContributorName())
}

func TestDocumentErrors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		body     string
		code     diag.Code
		sentinel error
	}{
		{"unknown_format", "x.json", `{}`, diag.DocUnknownFormat, diag.ErrDocument},
		{"yaml_syntax", "x.yaml", "declarations: [", diag.DocParse, diag.ErrDocument},
		{"yaml_unknown_field", "x.yaml", "declarations:\n  - {kind: module, name: M, colour: red}\n", diag.DocUnknownField, diag.ErrDocument},
		{"toml_unknown_field", "x.toml", "[[declarations]]\nkind = \"module\"\nname = \"M\"\ncolour = \"red\"\n", diag.DocUnknownField, diag.ErrDocument},
		{"unknown_kind", "x.yaml", "declarations:\n  - {kind: widget, name: W}\n", diag.DocUnknownKind, diag.ErrDocument},
		{"missing_kind", "x.yaml", "declarations:\n  - {name: W}\n", diag.DocUnknownKind, diag.ErrDocument},
		{"missing_name", "x.yaml", "declarations:\n  - {kind: class}\n", diag.DocMissingName, diag.ErrDocument},
		{"bad_attr", "x.yaml", "declarations:\n  - {kind: attribute, name: a, attr: both}\n", diag.DocBadAttrKind, diag.ErrDocument},
		{"member_body", "x.yaml", "declarations:\n  - kind: method\n    name: m\n    body: [{kind: method, name: n}]\n", diag.DocUnknownField, diag.ErrDocument},
		{"ambiguous_returns", "x.yaml", "declarations:\n  - {kind: method, name: m, returns: A, return_type: A}\n", diag.DeclAmbiguousParameter, diag.ErrAmbiguousParameter},
		{"nested_path", "x.yaml", "declarations:\n  - kind: module\n    name: M\n    body: [{kind: path, name: A}]\n", diag.ResNotRoot, diag.ErrUsage},
		{"conflict", "x.yaml", "declarations:\n  - {kind: class, name: C, superclass: X}\n  - {kind: class, name: C, superclass: Y}\n", diag.DeclConflictingFlags, diag.ErrConflictingFlags},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode(tt.file, []byte(tt.body))
			if err == nil {
				err = Apply(decl.NewTree(), doc)
			}
			require.Error(t, err)
			assert.Equal(t, tt.code, diag.CodeOf(err), err.Error())
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestEmptyDocument(t *testing.T) {
	doc, err := Decode("empty.yaml", nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Declarations)
	assert.Equal(t, "empty", doc.Contributor)
}

func TestApplyStopsAtFirstFailure(t *testing.T) {
	doc, err := Decode("late.yaml", []byte(`
declarations:
  - kind: module
    name: M
    body:
      - {kind: method, name: first}
      - {kind: class, name: C, superclass: Y}
      - {kind: method, name: never}
`))
	require.NoError(t, err)

	tree := decl.NewTree()
	m, err := tree.CreateModule(tree.Root(), "M", decl.Flags{})
	require.NoError(t, err)
	_, err = tree.CreateNamespace(m, decl.NamespaceSpec{Name: "C", Kind: decl.KindClass, Superclass: "X"})
	require.NoError(t, err)

	err = Apply(tree, doc)
	require.ErrorIs(t, err, diag.ErrConflictingFlags)

	_, ok := tree.Find(m, decl.Query{Name: "first"})
	assert.True(t, ok, "children before the failure stay in the tree")
	_, ok = tree.Find(m, decl.Query{Name: "never"})
	assert.False(t, ok)
	c, ok := tree.Find(m, decl.Query{Name: "C"})
	require.True(t, ok)
	assert.Equal(t, "X", tree.Namespace(c).Superclass)
	require.NoError(t, testkit.CheckTree(tree))
}
