package site

import (
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// Filters returns the pongo2 filters the site templates use.
//
//	markup  sanitizes operator copy down to inline emphasis, code, line
//	        breaks and links, then marks it safe
func Filters() map[string]pongo2.FilterFunction {
	return map[string]pongo2.FilterFunction{
		"markup": filterMarkup,
	}
}

// SanitizeMarkup keeps the inline tags content copy may carry and escapes
// everything else.
func SanitizeMarkup(raw string) string {
	markupPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("em", "strong", "b", "i", "code", "br")
		p.AllowAttrs("href").OnElements("a")
		p.AllowURLSchemes("http", "https", "mailto")
		p.AllowRelativeURLs(true)
		p.RequireParseableURLs(true)
		p.RequireNoFollowOnFullyQualifiedLinks(true)
		markupPolicy = p
	})
	return markupPolicy.Sanitize(raw)
}

func filterMarkup(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsSafeValue(SanitizeMarkup(in.String())), nil
}
