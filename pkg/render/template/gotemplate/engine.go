// Package gotemplate runs named pongo2 templates. Templates come from a
// bundle, optionally overlaid by a directory on disk, and see their data
// through its JSON field names.
package gotemplate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-equitysite/pkg/render/template"
)

// Extension is appended to template names that lack it.
const Extension = ".tpl"

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	files       fs.FS
	overrideDir string
	filters     map[string]pongo2.FilterFunction
	globals     map[string]any
}

// WithFS loads templates from files.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.files = files
	}
}

// WithOverrideDir layers dir over the WithFS bundle. A template found in dir
// wins; anything missing falls through to the bundle, so a directory may
// carry a single partial.
func WithOverrideDir(dir string) Option {
	return func(cfg *config) {
		cfg.overrideDir = strings.TrimSpace(dir)
	}
}

// WithFilters registers pongo2 filters. Filters are process-wide in pongo2;
// a name that is already registered keeps its first implementation.
func WithFilters(filters map[string]pongo2.FilterFunction) Option {
	return func(cfg *config) {
		if cfg.filters == nil {
			cfg.filters = make(map[string]pongo2.FilterFunction, len(filters))
		}
		for name, fn := range filters {
			if name = strings.TrimSpace(name); name != "" && fn != nil {
				cfg.filters[name] = fn
			}
		}
	}
}

// WithGlobals seeds values visible to every template. Per-render data with
// the same key shadows them.
func WithGlobals(globals map[string]any) Option {
	return func(cfg *config) {
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(globals))
		}
		for key, value := range globals {
			cfg.globals[key] = value
		}
	}
}

// Engine is a pongo2 template set. Parsed templates are cached by the set.
type Engine struct {
	set *pongo2.TemplateSet
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	files, err := cfg.source()
	if err != nil {
		return nil, err
	}

	set := pongo2.NewSet("equitysite", pongo2.NewFSLoader(files))
	globals, err := convertToContext(cfg.globals)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: globals: %w", err)
	}
	if set.Globals == nil {
		set.Globals = pongo2.Context{}
	}
	set.Globals.Update(globals)

	for name, fn := range cfg.filters {
		if pongo2.FilterExists(name) {
			continue
		}
		if err := pongo2.RegisterFilter(name, fn); err != nil {
			return nil, fmt.Errorf("gotemplate: register filter %q: %w", name, err)
		}
	}

	return &Engine{set: set}, nil
}

func (cfg *config) source() (fs.FS, error) {
	if cfg.overrideDir == "" {
		if cfg.files == nil {
			return nil, errors.New("gotemplate: a template bundle or directory is required")
		}
		return cfg.files, nil
	}

	info, err := os.Stat(cfg.overrideDir)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: template dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("gotemplate: template dir %s is not a directory", cfg.overrideDir)
	}
	dir := os.DirFS(cfg.overrideDir)
	if cfg.files == nil {
		return dir, nil
	}
	return overlayFS{upper: dir, lower: cfg.files}, nil
}

// RenderTemplate executes the template at name.
func (e *Engine) RenderTemplate(name string, data any) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	path := name
	if !strings.HasSuffix(path, Extension) {
		path += Extension
	}

	tmpl, err := e.set.FromCache(path)
	if err != nil {
		return "", fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}
	ctx, err := convertToContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data for %q: %w", path, err)
	}
	out, err := tmpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", path, err)
	}
	return out, nil
}

// overlayFS serves upper's files and falls back to lower for missing ones.
type overlayFS struct {
	upper fs.FS
	lower fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.upper.Open(name)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return o.lower.Open(name)
}

// convertToContext flattens data into plain maps through its JSON form, so
// templates address fields by their json names.
func convertToContext(data any) (pongo2.Context, error) {
	var raw map[string]any
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case map[string]any:
		raw = v
	case pongo2.Context:
		raw = v
	default:
		decoded, err := viaJSON(v)
		if err != nil {
			return nil, err
		}
		m, ok := decoded.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("data must encode to an object, got %T", decoded)
		}
		raw = m
	}

	converted, err := convertValue(raw)
	if err != nil {
		return nil, err
	}
	return pongo2.Context(converted.(map[string]any)), nil
}

func convertValue(value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool, int:
		return v, nil
	case float64:
		// pongo2 prints floats with six decimals
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return int(v), nil
		}
		return v, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			if key = strings.TrimSpace(key); key == "" {
				continue
			}
			converted, err := convertValue(item)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			converted, err := convertValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	default:
		decoded, err := viaJSON(v)
		if err != nil {
			return nil, err
		}
		return convertValue(decoded)
	}
}

func viaJSON(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
