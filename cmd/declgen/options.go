package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"declgen/internal/cache"
	"declgen/internal/config"
	"declgen/internal/logging"
	"declgen/internal/pipeline"
	"declgen/internal/render"
	"declgen/internal/ui"
)

// flagKeys maps command flags onto config keys. Only flags the user set
// override the config file and environment.
var flagKeys = map[string]string{
	"tab-size":         "render.tab_size",
	"break-params":     "render.break_params",
	"sort":             "render.sort_namespaces",
	"max-width":        "render.max_line_width",
	"strictness":       "render.strictness",
	"dialect":          "output.dialects",
	"out":              "output.dir",
	"name":             "output.name",
	"jobs":             "jobs",
	"empty-namespaces": "lint.empty_namespaces",
}

func addRenderFlags(fs *pflag.FlagSet) {
	fs.StringSlice("dialect", nil, "output dialects (rbi,rbs)")
	fs.Bool("sort", false, "sort mixins and nested namespaces by name")
	fs.Int("tab-size", 0, "spaces per indentation level")
	fs.Int("break-params", 0, "wrap signatures with more parameters than this")
	fs.Int("max-width", 0, "also wrap signatures wider than this many columns (0=off)")
	fs.String("strictness", "", "sigil for the RBI \"# typed:\" banner")
}

func addRunFlags(fs *pflag.FlagSet) {
	fs.Int("jobs", 0, "max parallel workers (0=auto)")
	fs.Bool("no-cache", false, "do not read or write the render cache")
	fs.String("ui", "auto", "progress UI mode (auto|on|off)")
}

func flagOverrides(fs *pflag.FlagSet) (map[string]any, error) {
	overrides := make(map[string]any)
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		var (
			value any
			err   error
		)
		switch f.Value.Type() {
		case "int":
			value, err = fs.GetInt(name)
		case "bool":
			value, err = fs.GetBool(name)
		case "stringSlice":
			value, err = fs.GetStringSlice(name)
		default:
			value, err = fs.GetString(name)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		overrides[key] = value
	}
	if f := fs.Lookup("no-cache"); f != nil && f.Changed {
		noCache, err := fs.GetBool("no-cache")
		if err != nil {
			return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
		}
		overrides["cache.enabled"] = !noCache
	}
	return overrides, nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	overrides, err := flagOverrides(cmd.Flags())
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(config.LoadOptions{File: path, Overrides: overrides})
	if err != nil {
		return nil, err
	}
	log := logging.Logger("config")
	log.Debug().Str("path", cfg.Path).Int("overrides", len(overrides)).Msg("config loaded")
	return cfg, nil
}

type runSpec struct {
	title    string
	files    []string
	needTree bool
	noRender bool
}

// runPipeline builds the request from cfg and runs it with or without the
// progress UI.
func runPipeline(cmd *cobra.Command, cfg *config.Config, spec runSpec) (*pipeline.Result, error) {
	dialects, err := cfg.Dialects()
	if err != nil {
		return nil, err
	}
	log := logging.Logger("pipeline")
	req := pipeline.Request{
		Files:    spec.files,
		Dialects: dialects,
		Options:  cfg.RenderOptions(render.RBI),
		Lint:     lintOptions(cfg),
		NeedTree: spec.needTree,
		NoRender: spec.noRender,
		Jobs:     cfg.Jobs,
		Logger:   log,
	}
	if cfg.Cache.Enabled && !spec.noRender {
		req.Cache = openCache(cfg, log)
	}

	mode := uiModeOff
	if f := cmd.Flags().Lookup("ui"); f != nil {
		mode, err = readUIMode(cmd.Name(), f.Value.String())
		if err != nil {
			return nil, err
		}
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if !shouldUseTUI(mode, cmd.OutOrStdout()) {
		return pipeline.Run(ctx, req)
	}
	return runWithUI(ctx, cmd.OutOrStdout(), spec.title, progressRows(spec, dialects, cfg), req)
}

func openCache(cfg *config.Config, log zerolog.Logger) *cache.DiskCache {
	c, err := cache.Open("declgen", cfg.Cache.Dir)
	if err != nil {
		log.Warn().Err(err).Msg("render cache disabled")
		return nil
	}
	return c
}

func progressRows(spec runSpec, dialects []render.Dialect, cfg *config.Config) []ui.Row {
	rows := make([]ui.Row, 0, len(spec.files)+len(dialects))
	for _, f := range spec.files {
		rows = append(rows, ui.Row{Key: f})
	}
	if spec.noRender {
		return rows
	}
	for _, d := range dialects {
		label := filepath.Join(cfg.Output.Dir, cfg.Output.Name+"."+d.Ext())
		rows = append(rows, ui.Row{Key: string(d), Label: label})
	}
	return rows
}

func printTimings(cmd *cobra.Command, res *pipeline.Result) error {
	show, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if !show || res == nil {
		return nil
	}
	return writeTimings(cmd.ErrOrStderr(), res)
}

func writeTimings(w io.Writer, res *pipeline.Result) error {
	_, err := io.WriteString(w, res.Timer.Summary())
	return err
}

func stderrColor(cmd *cobra.Command) bool {
	flag, _ := cmd.Flags().GetString("color")
	return useColor(flag, os.Stderr)
}
