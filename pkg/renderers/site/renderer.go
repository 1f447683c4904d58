// Package site renders the marketing page, or one of its live fragments, as
// HTML through the pongo2 template bundle.
package site

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-equitysite/pkg/render"
	rendertemplate "github.com/goliatone/go-equitysite/pkg/render/template"
	"github.com/goliatone/go-equitysite/pkg/render/template/gotemplate"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templatesDir     string
	scriptURL        string
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle. It must mirror the
// embedded layout (page.tpl, partials/*.tpl).
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir overlays a directory on disk on the bundle. Files present
// there replace their bundled namesakes; the rest keep coming from the
// bundle.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = path
	}
}

// WithScriptURL overrides where the page loads site.js from.
func WithScriptURL(url string) Option {
	return func(cfg *config) {
		if url != "" {
			cfg.scriptURL = url
		}
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		scriptURL:  DefaultScriptURL,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithOverrideDir(cfg.templatesDir),
			gotemplate.WithFilters(Filters()),
			gotemplate.WithGlobals(map[string]any{
				"assets": map[string]string{"script": cfg.scriptURL},
			}),
		)
		if err != nil {
			return nil, fmt.Errorf("site renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer}, nil
}

func (r *Renderer) Name() string {
	return "site"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, page render.PageModel, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("site renderer: template renderer is nil")
	}
	name, err := templateFor(options.Fragment)
	if err != nil {
		return nil, err
	}

	view := render.BuildView(page, options)
	result, err := r.templates.RenderTemplate(name, view)
	if err != nil {
		return nil, fmt.Errorf("site renderer: render %s: %w", name, err)
	}
	return []byte(result), nil
}

func templateFor(fragment render.Fragment) (string, error) {
	switch fragment {
	case render.FragmentPage:
		return "page.tpl", nil
	case render.FragmentHeader:
		return "partials/header.tpl", nil
	case render.FragmentContact:
		return "partials/contact.tpl", nil
	}
	return "", fmt.Errorf("site renderer: unknown fragment %q", fragment)
}
