package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"declgen/internal/cache"
	"declgen/internal/decl"
	"declgen/internal/diag"
	"declgen/internal/lint"
	"declgen/internal/observ"
	"declgen/internal/render"
	"declgen/internal/schema"
)

const maxDiagnostics = 512

// Request configures one run over a set of documents.
type Request struct {
	// Files are applied to the tree in this order.
	Files    []string
	Dialects []render.Dialect
	// Options is the base render configuration; Dialect is set per output.
	Options render.Options
	Lint    lint.Options
	// Cache may be nil.
	Cache *cache.DiskCache
	// NeedTree forces the tree to be built even when every output is cached.
	NeedTree bool
	// NoRender stops after lint; Outputs stays empty.
	NoRender bool
	Jobs     int
	Progress ProgressSink
	Logger   zerolog.Logger
}

// Output is the rendered text for one dialect.
type Output struct {
	Dialect render.Dialect
	Text    string
	Cached  bool
}

type Result struct {
	// Tree is nil when every output came from the cache and NeedTree was off.
	Tree        *decl.Tree
	Documents   []*schema.Document
	Diagnostics *diag.Bag
	Outputs     []Output
	Timer       *observ.Timer
}

// Output returns the text for d.
func (r *Result) Output(d render.Dialect) (Output, bool) {
	if r == nil {
		return Output{}, false
	}
	for _, out := range r.Outputs {
		if out.Dialect == d {
			return out, true
		}
	}
	return Output{}, false
}

// Run loads every document in parallel, builds one tree from them in
// argument order, lints it and renders each dialect in parallel.
func Run(ctx context.Context, req Request) (*Result, error) {
	if len(req.Files) == 0 {
		return nil, errors.New("no documents given")
	}
	dialects := req.Dialects
	if len(dialects) == 0 {
		dialects = []render.Dialect{render.RBI}
	}
	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	log := req.Logger

	res := &Result{
		Diagnostics: diag.NewBag(maxDiagnostics),
		Timer:       observ.NewTimer(),
	}
	emitQueued(req.Progress, req.Files)

	idx := res.Timer.Begin("load")
	docs, raw, err := load(ctx, req.Files, jobs, req.Progress)
	res.Timer.End(idx, fmt.Sprintf("%d documents", len(req.Files)))
	if err != nil {
		return res, err
	}
	res.Documents = docs

	outputs := make([]Output, len(dialects))
	keys := make([]cache.Digest, len(dialects))
	hits := 0
	if req.Cache != nil && !req.NoRender {
		idx = res.Timer.Begin("cache")
		for i, d := range dialects {
			keys[i] = cacheKey(req, d, raw)
			var p cache.Payload
			ok, err := req.Cache.Get(keys[i], &p)
			if err != nil {
				log.Warn().Err(err).Str("dialect", string(d)).Msg("cache read failed")
				continue
			}
			if ok {
				outputs[i] = Output{Dialect: d, Text: p.Text, Cached: true}
				hits++
			}
		}
		res.Timer.End(idx, fmt.Sprintf("%d/%d hits", hits, len(dialects)))
	}
	if hits == len(dialects) && !req.NeedTree && !req.NoRender {
		for _, d := range dialects {
			emit(req.Progress, string(d), StageRender, StatusCached, nil, 0)
		}
		res.Outputs = outputs
		log.Debug().Int("outputs", hits).Msg("all outputs cached")
		return res, nil
	}

	idx = res.Timer.Begin("build")
	tree, err := build(docs, req.Progress, log)
	res.Timer.End(idx, fmt.Sprintf("%d nodes", treeLen(tree)))
	res.Tree = tree
	if err != nil {
		return res, err
	}

	idx = res.Timer.Begin("lint")
	emit(req.Progress, "", StageLint, StatusWorking, nil, 0)
	lint.Run(tree, diag.BagReporter{Bag: res.Diagnostics}, req.Lint)
	res.Diagnostics.Sort()
	emit(req.Progress, "", StageLint, StatusDone, nil, 0)
	res.Timer.End(idx, fmt.Sprintf("%d findings", res.Diagnostics.Len()))
	if req.NoRender {
		return res, nil
	}

	idx = res.Timer.Begin("render")
	err = renderAll(ctx, tree, req, dialects, keys, outputs, jobs)
	res.Timer.End(idx, fmt.Sprintf("%d dialects", len(dialects)))
	res.Outputs = outputs
	return res, err
}

func cacheKey(req Request, d render.Dialect, raw [][]byte) cache.Digest {
	opt := req.Options
	opt.Dialect = d
	fingerprint := opt.Fingerprint() + "\x00" + strings.Join(req.Files, "\x00")
	return cache.Key(fingerprint, raw...)
}

func treeLen(t *decl.Tree) int {
	if t == nil {
		return 0
	}
	return t.Len()
}

// load reads and decodes documents in parallel. Every failing document is
// reported, not only the first one.
func load(ctx context.Context, files []string, jobs int, sink ProgressSink) ([]*schema.Document, [][]byte, error) {
	docs := make([]*schema.Document, len(files))
	raw := make([][]byte, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			emit(sink, path, StageLoad, StatusWorking, nil, 0)
			data, err := os.ReadFile(path)
			if err == nil {
				raw[i] = data
				docs[i], err = schema.Decode(path, data)
			}
			if err != nil {
				errs[i] = err
				emit(sink, path, StageLoad, StatusError, err, time.Since(start))
				return nil
			}
			emit(sink, path, StageLoad, StatusDone, nil, time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := errors.Join(errs...); err != nil {
		return nil, nil, err
	}
	return docs, raw, nil
}

// build applies documents one after another; contributors never interleave.
func build(docs []*schema.Document, sink ProgressSink, log zerolog.Logger) (*decl.Tree, error) {
	t := decl.NewTree()
	t.SetLogger(log)
	for _, doc := range docs {
		start := time.Now()
		emit(sink, doc.Source, StageBuild, StatusWorking, nil, 0)
		if err := schema.Apply(t, doc); err != nil {
			emit(sink, doc.Source, StageBuild, StatusError, err, time.Since(start))
			return t, err
		}
		emit(sink, doc.Source, StageBuild, StatusDone, nil, time.Since(start))
		log.Debug().
			Str("document", doc.Source).
			Str("contributor", doc.Contributor).
			Int("nodes", t.Len()).
			Msg("document applied")
	}
	return t, nil
}

// renderAll fills outputs for every dialect not already served by the cache.
// The tree is read-only from here on.
func renderAll(ctx context.Context, t *decl.Tree, req Request, dialects []render.Dialect, keys []cache.Digest, outputs []Output, jobs int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(dialects)))
	for i, d := range dialects {
		if outputs[i].Cached {
			emit(req.Progress, string(d), StageRender, StatusCached, nil, 0)
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			emit(req.Progress, string(d), StageRender, StatusWorking, nil, 0)
			opt := req.Options
			opt.Dialect = d
			text := render.File(t, opt)
			outputs[i] = Output{Dialect: d, Text: text}
			emit(req.Progress, string(d), StageRender, StatusDone, nil, time.Since(start))

			if req.Cache != nil {
				err := req.Cache.Put(keys[i], &cache.Payload{Dialect: string(d), Text: text, Declarations: t.Len()})
				if err != nil {
					req.Logger.Warn().Err(err).Str("dialect", string(d)).Msg("cache write failed")
				}
			}
			return nil
		})
	}
	return g.Wait()
}
