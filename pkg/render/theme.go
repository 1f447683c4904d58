package render

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// StylesheetAsset is the asset key the site templates link as the main
// stylesheet.
const StylesheetAsset = "site.stylesheet"

// ThemeView is the theme as templates see it.
type ThemeView struct {
	Name       string `json:"name"`
	Variant    string `json:"variant"`
	Style      string `json:"style"`
	Stylesheet string `json:"stylesheet"`
}

// DefaultThemeManifest returns the site's built-in theme with a dark and a
// high-contrast variant.
func DefaultThemeManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "equity",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":      "#0f766e",
			"accent":     "#f59e0b",
			"ink":        "#1f2937",
			"surface":    "#ffffff",
			"muted":      "#6b7280",
			"error":      "#b91c1c",
			"header-bg":  "rgba(255, 255, 255, 0.96)",
			"radius":     "10px",
			"max-width":  "1200px",
			"font-stack": "system-ui, -apple-system, 'Segoe UI', sans-serif",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				StylesheetAsset: "site.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"ink":       "#e5e7eb",
					"surface":   "#111827",
					"muted":     "#9ca3af",
					"header-bg": "rgba(17, 24, 39, 0.96)",
				},
			},
			"high-contrast": {
				Tokens: map[string]string{
					"brand":  "#004d40",
					"accent": "#ffd600",
					"ink":    "#000000",
					"muted":  "#1f2937",
				},
			},
		},
	}
}

// ResolveTheme validates manifest and flattens the requested variant into a
// renderer config. An empty variant selects the base tokens.
func ResolveTheme(manifest *theme.Manifest, variant string) (*theme.RendererConfig, error) {
	if manifest == nil {
		return nil, fmt.Errorf("render: theme manifest is required")
	}
	registry := theme.NewRegistry()
	if err := registry.Register(manifest); err != nil {
		return nil, fmt.Errorf("render: register theme %q: %w", manifest.Name, err)
	}

	tokens := copyStringMap(manifest.Tokens)
	assets := copyStringMap(manifest.Assets.Files)
	partials := copyStringMap(manifest.Templates)
	prefix := manifest.Assets.Prefix

	variant = strings.TrimSpace(variant)
	if variant != "" {
		v, ok := manifest.Variants[variant]
		if !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", manifest.Name, variant)
		}
		tokens = overlay(tokens, v.Tokens)
		assets = overlay(assets, v.Assets.Files)
		partials = overlay(partials, v.Templates)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    manifest.Name,
		Variant:  variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := assets[key]
			if !ok {
				return ""
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}, nil
}

func buildThemeView(cfg *theme.RendererConfig) ThemeView {
	if cfg == nil {
		return ThemeView{Stylesheet: "/assets/site.css"}
	}
	view := ThemeView{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Style:   cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		view.Stylesheet = cfg.AssetURL(StylesheetAsset)
	}
	if view.Stylesheet == "" {
		view.Stylesheet = "/assets/site.css"
	}
	return view
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s: %s; ", key, vars[key])
	}
	return strings.TrimSpace(b.String())
}

func copyStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func overlay(base, extra map[string]string) map[string]string {
	for key, value := range extra {
		base[key] = value
	}
	return base
}
