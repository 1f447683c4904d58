// Package jsonview renders the page state as JSON for API clients and the
// fetch-driven fragments' debugging.
package jsonview

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-equitysite/pkg/contact"
	"github.com/goliatone/go-equitysite/pkg/nav"
	"github.com/goliatone/go-equitysite/pkg/render"
)

// Document is the JSON body. Header and Contact follow the same projection
// the HTML templates use.
type Document struct {
	Mode    nav.Mode          `json:"mode"`
	Header  render.HeaderView `json:"header"`
	Contact ContactState      `json:"contact"`
	Theme   *render.ThemeView `json:"theme,omitempty"`
	Errors  []string          `json:"errors,omitempty"`
}

type ContactState struct {
	State     contact.State     `json:"state"`
	Data      contact.FormData  `json:"data"`
	Errors    map[string]string `json:"errors"`
	Reference string            `json:"reference,omitempty"`
}

type Renderer struct {
	indent bool
}

var _ render.Renderer = (*Renderer)(nil)

// New returns the JSON renderer. indent pretty-prints the output.
func New(indent bool) *Renderer {
	return &Renderer{indent: indent}
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

func (r *Renderer) Render(_ context.Context, page render.PageModel, options render.RenderOptions) ([]byte, error) {
	view := render.BuildView(page, options)

	doc := Document{
		Mode:   view.Header.Mode,
		Header: view.Header,
		Contact: ContactState{
			State:     page.Form.State,
			Data:      page.Form.Data,
			Errors:    view.Contact.Errors.Fields,
			Reference: view.Contact.Reference,
		},
		Errors: view.Contact.Errors.Form,
	}
	if doc.Contact.Errors == nil {
		doc.Contact.Errors = map[string]string{}
	}
	if options.Theme != nil {
		doc.Theme = &view.Theme
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if r.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("jsonview: encode: %w", err)
	}
	return buf.Bytes(), nil
}
