// Package equitysite exposes the building blocks of the consultancy site:
// the embedded templates and assets, and a one-off renderer for callers that
// want the page outside a live session (static export, previews).
package equitysite

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-equitysite/pkg/contact"
	"github.com/goliatone/go-equitysite/pkg/content"
	"github.com/goliatone/go-equitysite/pkg/dom"
	"github.com/goliatone/go-equitysite/pkg/nav"
	"github.com/goliatone/go-equitysite/pkg/render"
	"github.com/goliatone/go-equitysite/pkg/renderers/jsonview"
	"github.com/goliatone/go-equitysite/pkg/renderers/site"
)

// Version is reported by the CLI.
const Version = "0.1.0"

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// Site aliases content.Site.
type Site = content.Site

// EmbeddedTemplates exposes the built-in site templates so callers can
// extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return site.TemplatesFS()
}

// AssetsFS exposes site.css and site.js.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(equitysite.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return site.AssetsFS()
}

// Snapshot is a standalone page: a mounted header and a blank contact form
// for the given site, detached from any session.
type Snapshot struct {
	Site   content.Site
	Page   *dom.Page
	Header *nav.Header
	Form   *contact.Form
}

// NewSnapshot validates siteContent and mounts a header on a page of the
// given viewport width. Zero keeps dom.DefaultViewportWidth.
func NewSnapshot(siteContent content.Site, viewportWidth int) (*Snapshot, error) {
	if err := siteContent.Validate(); err != nil {
		return nil, err
	}
	tree, err := siteContent.NavTree()
	if err != nil {
		return nil, err
	}

	options := []dom.PageOption{dom.WithAnchors(siteContent.AnchorIDs()...)}
	if viewportWidth > 0 {
		options = append(options, dom.WithViewportWidth(viewportWidth))
	}
	page := dom.NewPage(options...)
	header := nav.NewHeader(tree)
	if err := header.Mount(page); err != nil {
		return nil, err
	}
	return &Snapshot{
		Site:   siteContent,
		Page:   page,
		Header: header,
		Form:   contact.NewForm(),
	}, nil
}

// Model returns the page model for the snapshot's current state.
func (s *Snapshot) Model() render.PageModel {
	var model render.PageModel
	s.Page.Do(func() {
		model = render.PageModel{
			Site:   s.Site,
			Header: s.Header.State(),
			Mode:   s.Header.Mode(),
			Form:   s.Form.Snapshot(),
		}
	})
	return model
}

// Close releases the header's listeners and the form's pending reset.
func (s *Snapshot) Close() {
	s.Page.Do(func() {
		s.Header.Unmount()
		s.Form.Dispose()
	})
}

// NewRegistry returns a registry holding the HTML site renderer (default),
// built with siteOptions, and the JSON state renderer.
func NewRegistry(siteOptions ...site.Option) (*render.Registry, error) {
	html, err := site.New(siteOptions...)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	if err := registry.Register(jsonview.New(true)); err != nil {
		return nil, err
	}
	return registry, nil
}

// RenderSnapshot renders s with the named renderer from a registry built
// with siteOptions.
func RenderSnapshot(ctx context.Context, s *Snapshot, rendererName string, options RenderOptions, siteOptions ...site.Option) ([]byte, error) {
	registry, err := NewRegistry(siteOptions...)
	if err != nil {
		return nil, err
	}
	renderer, err := registry.Get(rendererName)
	if err != nil {
		return nil, err
	}
	out, err := renderer.Render(ctx, s.Model(), options)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", rendererName, err)
	}
	return out, nil
}
