package render

import (
	"time"

	theme "github.com/goliatone/go-theme"
)

// Fragment selects a partial render. The zero value renders the full page.
type Fragment string

const (
	FragmentPage    Fragment = ""
	FragmentHeader  Fragment = "header"
	FragmentContact Fragment = "contact"
)

// Valid reports whether f names a known fragment.
func (f Fragment) Valid() bool {
	switch f {
	case FragmentPage, FragmentHeader, FragmentContact:
		return true
	}
	return false
}

// RenderOptions carry per-request data that is not part of the page state.
type RenderOptions struct {
	Fragment Fragment
	// Theme is the resolved theme; nil renders without token overrides.
	Theme *theme.RendererConfig
	// Hidden fields are emitted inside every form (CSRF token and similar).
	Hidden map[string]string
	// FormErrors are form-level messages, such as a failed hand-off to the
	// submission store, shown above the contact form.
	FormErrors []string
	// Now stamps the footer copyright year. Zero means time.Now.
	Now time.Time
}

func (o RenderOptions) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}
