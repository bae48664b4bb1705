// Package config layers declgen settings: built-in defaults, then the first
// declgen.toml / declgen.yaml found walking up from the working directory,
// then DECLGEN_* environment variables, then explicit overrides (CLI flags).
//
// Environment keys use "__" between levels: DECLGEN_RENDER__TAB_SIZE sets
// render.tab_size, DECLGEN_JOBS sets jobs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"declgen/internal/render"
)

const EnvPrefix = "DECLGEN_"

// FileNames are tried in this order in every directory.
var FileNames = []string{"declgen.toml", ".declgen.toml", "declgen.yaml", "declgen.yml"}

type Config struct {
	Render RenderConfig `koanf:"render"`
	Output OutputConfig `koanf:"output"`
	Cache  CacheConfig  `koanf:"cache"`
	Lint   LintConfig   `koanf:"lint"`
	Jobs   int          `koanf:"jobs"`

	// Path is the config file that was loaded, empty when none was found.
	Path string `koanf:"-"`
}

type RenderConfig struct {
	TabSize        int    `koanf:"tab_size"`
	BreakParams    int    `koanf:"break_params"`
	SortNamespaces bool   `koanf:"sort_namespaces"`
	MaxLineWidth   int    `koanf:"max_line_width"`
	Strictness     string `koanf:"strictness"`
}

type OutputConfig struct {
	Dialects []string `koanf:"dialects"`
	Dir      string   `koanf:"dir"`
	Name     string   `koanf:"name"`
}

type CacheConfig struct {
	Enabled bool `koanf:"enabled"`
	// Dir overrides the XDG cache location.
	Dir string `koanf:"dir"`
}

type LintConfig struct {
	EmptyNamespaces bool `koanf:"empty_namespaces"`
}

func defaults() map[string]any {
	return map[string]any{
		"render.tab_size":        2,
		"render.break_params":    4,
		"render.sort_namespaces": false,
		"render.max_line_width":  0,
		"render.strictness":      "strong",
		"output.dialects":        []string{string(render.RBI)},
		"output.dir":             ".",
		"output.name":            "declarations",
		"cache.enabled":          true,
		"cache.dir":              "",
		"lint.empty_namespaces":  false,
		"jobs":                   0,
	}
}

type LoadOptions struct {
	// Dir is where the search for a config file starts. Empty means the
	// working directory.
	Dir string
	// File skips the search and loads this file.
	File string
	// Overrides are applied last, keyed like "render.tab_size".
	Overrides map[string]any
	// Environ replaces os.Environ for tests.
	Environ []string
}

func Load(opt LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. config file
	path := opt.File
	if path == "" {
		start := opt.Dir
		if start == "" {
			wd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get working directory: %w", err)
			}
			start = wd
		}
		path = Find(start)
	}
	if path != "" {
		parser := koanf.Parser(toml.Parser())
		if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
			parser = kyaml.Parser()
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	// 3. environment
	if err := k.Load(envProvider(opt.Environ), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. overrides
	if len(opt.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opt.Overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envProvider(environ []string) koanf.Provider {
	transform := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}
	if environ == nil {
		return env.Provider(EnvPrefix, ".", transform)
	}
	values := make(map[string]any)
	for _, kv := range environ {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		values[transform(key)] = val
	}
	return confmap.Provider(values, ".")
}

// Find returns the first config file in dir or its parents, or "".
func Find(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs must not be negative, got %d", c.Jobs))
	}
	if c.Render.TabSize < 1 {
		errs = append(errs, fmt.Errorf("render.tab_size must be positive, got %d", c.Render.TabSize))
	}
	if c.Render.BreakParams < 0 {
		errs = append(errs, fmt.Errorf("render.break_params must not be negative, got %d", c.Render.BreakParams))
	}
	if _, err := c.Dialects(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Dialects parses output.dialects, dropping duplicates.
func (c *Config) Dialects() ([]render.Dialect, error) {
	if len(c.Output.Dialects) == 0 {
		return nil, fmt.Errorf("output.dialects is empty")
	}
	seen := make(map[render.Dialect]bool)
	var out []render.Dialect
	for _, raw := range c.Output.Dialects {
		d, err := render.ParseDialect(raw)
		if err != nil {
			return nil, err
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out, nil
}

// RenderOptions builds renderer options for dialect d.
func (c *Config) RenderOptions(d render.Dialect) render.Options {
	return render.Options{
		TabSize:        c.Render.TabSize,
		BreakParams:    c.Render.BreakParams,
		SortNamespaces: c.Render.SortNamespaces,
		MaxLineWidth:   c.Render.MaxLineWidth,
		Dialect:        d,
		Strictness:     c.Render.Strictness,
	}
}
