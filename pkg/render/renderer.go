// Package render turns a page model (site copy plus the live header and
// contact form state) into a view that concrete renderers serialise.
package render

import (
	"context"
)

// Renderer converts a PageModel into a byte representation (HTML, JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page PageModel, options RenderOptions) ([]byte, error)
}
