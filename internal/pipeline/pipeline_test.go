package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"declgen/internal/cache"
	"declgen/internal/diag"
	"declgen/internal/lint"
	"declgen/internal/render"
	"declgen/internal/testkit"
)

const docA = `declarations:
  - kind: module
    name: A
    body:
      - kind: constant
        name: X
        value: Integer
`

const docB = `contributor: second
declarations:
  - kind: module
    name: A
    body:
      - kind: method
        name: foo
        returns: String
`

const wantRBI = `# typed: strong

module A
  X = Integer

  sig { returns(String) }
  def foo; end
end
`

const wantRBS = `module A
  X: Integer

  def foo: () -> String
end
`

func writeDocs(t *testing.T, docs map[string]string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)
	paths := make([]string, 0, len(names))
	for _, name := range names {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(docs[name]), 0o644))
		paths = append(paths, p)
	}
	return dir, paths
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(evt Event) {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
}

func (r *recorder) count(stage Stage, status Status) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Stage == stage && e.Status == status {
			n++
		}
	}
	return n
}

func TestRunMergesDocumentsAndRendersDialects(t *testing.T) {
	_, files := writeDocs(t, map[string]string{"a.yaml": docA, "b.yaml": docB})
	rec := &recorder{}

	res, err := Run(context.Background(), Request{
		Files:    files,
		Dialects: []render.Dialect{render.RBI, render.RBS},
		Progress: rec,
		Jobs:     2,
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Tree)
	require.NoError(t, testkit.CheckTree(res.Tree))

	rbi, ok := res.Output(render.RBI)
	require.True(t, ok)
	assert.Equal(t, wantRBI, rbi.Text)
	assert.False(t, rbi.Cached)

	rbs, ok := res.Output(render.RBS)
	require.True(t, ok)
	assert.Equal(t, wantRBS, rbs.Text)

	require.Len(t, res.Documents, 2)
	assert.Equal(t, "a", res.Documents[0].Contributor)
	assert.Equal(t, "second", res.Documents[1].Contributor)

	assert.Equal(t, 2, rec.count(StageLoad, StatusQueued))
	assert.Equal(t, 2, rec.count(StageLoad, StatusDone))
	assert.Equal(t, 2, rec.count(StageBuild, StatusDone))
	assert.Equal(t, 2, rec.count(StageRender, StatusDone))
	assert.NotEmpty(t, res.Timer.Report().Phases)
}

func TestRunUsesCache(t *testing.T) {
	_, files := writeDocs(t, map[string]string{"a.yaml": docA, "b.yaml": docB})
	c, err := cache.Open("declgen", t.TempDir())
	require.NoError(t, err)

	req := Request{Files: files, Dialects: []render.Dialect{render.RBI}, Cache: c}
	first, err := Run(context.Background(), req)
	require.NoError(t, err)
	out, _ := first.Output(render.RBI)
	assert.False(t, out.Cached)

	rec := &recorder{}
	req.Progress = rec
	second, err := Run(context.Background(), req)
	require.NoError(t, err)
	out, _ = second.Output(render.RBI)
	assert.True(t, out.Cached)
	assert.Equal(t, wantRBI, out.Text)
	assert.Nil(t, second.Tree, "tree is skipped when everything is cached")
	assert.Equal(t, 1, rec.count(StageRender, StatusCached))

	req.NeedTree = true
	third, err := Run(context.Background(), req)
	require.NoError(t, err)
	assert.NotNil(t, third.Tree)
	out, _ = third.Output(render.RBI)
	assert.True(t, out.Cached)

	req.Options.TabSize = 4
	fourth, err := Run(context.Background(), req)
	require.NoError(t, err)
	out, _ = fourth.Output(render.RBI)
	assert.False(t, out.Cached, "different options miss")
}

func TestRunCollectsAllLoadErrors(t *testing.T) {
	_, files := writeDocs(t, map[string]string{
		"bad1.yaml": "declarations: [\n",
		"bad2.toml": "declarations = 3\nunknown = true\n",
		"ok.yaml":   docA,
	})
	rec := &recorder{}

	_, err := Run(context.Background(), Request{Files: files, Progress: rec})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad1.yaml")
	assert.Contains(t, err.Error(), "bad2.toml")
	assert.ErrorIs(t, err, diag.ErrDocument)
	assert.Equal(t, 2, rec.count(StageLoad, StatusError))
}

func TestRunStopsOnConflict(t *testing.T) {
	_, files := writeDocs(t, map[string]string{
		"a.yaml": "declarations:\n  - {kind: class, name: Bar, superclass: X}\n",
		"b.yaml": "declarations:\n  - {kind: class, name: Bar, superclass: Y}\n",
	})
	rec := &recorder{}

	res, err := Run(context.Background(), Request{Files: files, Progress: rec})
	require.Error(t, err)
	assert.ErrorIs(t, err, diag.ErrConflictingFlags)
	assert.Empty(t, res.Outputs)
	assert.Equal(t, 1, rec.count(StageBuild, StatusError))
	require.NotNil(t, res.Tree)
	require.NoError(t, testkit.CheckTree(res.Tree))
}

func TestRunReportsLint(t *testing.T) {
	doc := `declarations:
  - kind: module
    name: M
    body:
      - {kind: method, name: foo}
      - {kind: method, name: foo}
  - {kind: module, name: Empty}
`
	_, files := writeDocs(t, map[string]string{"dup.yaml": doc})

	res, err := Run(context.Background(), Request{Files: files, Lint: lint.Options{EmptyNamespaces: true}})
	require.NoError(t, err)
	assert.True(t, res.Diagnostics.HasWarnings())
	assert.Equal(t, 2, res.Diagnostics.Len())
	assert.NotEmpty(t, res.Outputs)

	res, err = Run(context.Background(), Request{Files: files, NoRender: true})
	require.NoError(t, err)
	assert.NotNil(t, res.Tree)
	assert.Empty(t, res.Outputs)
	assert.Equal(t, 1, res.Diagnostics.Len())
}

func TestRunNoFiles(t *testing.T) {
	_, err := Run(context.Background(), Request{})
	assert.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	_, files := writeDocs(t, map[string]string{"a.yaml": docA})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Request{Files: files})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	outputs := []Output{
		{Dialect: render.RBI, Text: wantRBI},
		{Dialect: render.RBS, Text: wantRBS},
	}
	rec := &recorder{}

	paths, err := Write(dir, "api", outputs, rec)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "api.rbi"), filepath.Join(dir, "api.rbs")}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, wantRBI, string(data))
	assert.Equal(t, 2, rec.count(StageWrite, StatusDone))

	leftovers, err := filepath.Glob(filepath.Join(dir, ".declgen-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)

	_, err = Write(dir, "", outputs, nil)
	assert.Error(t, err)
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{Item: "a.yaml", Stage: StageLoad, Status: StatusDone})
	evt := <-ch
	assert.Equal(t, "a.yaml", evt.Item)

	ChannelSink{}.OnEvent(Event{})
	var called bool
	SinkFunc(func(Event) { called = true }).OnEvent(Event{})
	assert.True(t, called)
}
