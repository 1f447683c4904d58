package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-equitysite"
	"github.com/goliatone/go-equitysite/pkg/render"
	"github.com/goliatone/go-equitysite/pkg/renderers/site"
)

var (
	renderFragment string
	renderFormat   string
	renderWidth    int
	renderMenuOpen bool
	renderDropdown string
	renderScrollY  int
	renderOutput   string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the page or a fragment without a server",
	Long: `Render the page from a fresh state, optionally with the mobile menu or
a dropdown open, and write HTML or the JSON state document.

Example:
  equitysite render > index.html
  equitysite render --fragment header --vw 375 --menu-open
  equitysite render --format json --open about
  equitysite render --templates ./site-templates > index.html`,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVar(&renderFragment, "fragment", "", "fragment to render (header, contact); empty renders the page")
	f.StringVar(&renderFormat, "format", "html", "output format (html, json)")
	f.IntVar(&renderWidth, "vw", 0, "viewport width in pixels")
	f.BoolVar(&renderMenuOpen, "menu-open", false, "render with the mobile menu open")
	f.StringVar(&renderDropdown, "open", "", "render with this nav entry's dropdown open")
	f.IntVar(&renderScrollY, "scroll", 0, "render as if scrolled to this offset")
	f.StringVar(&renderOutput, "output", "", "output file (stdout if empty)")
	f.String("theme", "", "theme variant (dark, high-contrast)")
}

func runRender(cmd *cobra.Command, args []string) error {
	fragment := render.Fragment(renderFragment)
	if !fragment.Valid() {
		return fmt.Errorf("unknown fragment %q", renderFragment)
	}
	rendererName, err := rendererFor(renderFormat)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	siteContent, err := loadSite(cfg.ContentFile)
	if err != nil {
		return err
	}
	themeCfg, err := render.ResolveTheme(render.DefaultThemeManifest(), cfg.ThemeVariant)
	if err != nil {
		return err
	}

	snap, err := equitysite.NewSnapshot(siteContent, renderWidth)
	if err != nil {
		return err
	}
	defer snap.Close()

	if renderScrollY > 0 {
		snap.Page.DispatchScroll(renderScrollY)
	}
	snap.Page.Do(func() {
		if renderMenuOpen {
			snap.Header.ToggleMenu()
		}
		if renderDropdown != "" {
			err = snap.Header.SelectDropdown(renderDropdown)
		}
	})
	if err != nil {
		return err
	}

	out, err := equitysite.RenderSnapshot(cmd.Context(), snap, rendererName, render.RenderOptions{
		Fragment: fragment,
		Theme:    themeCfg,
	}, site.WithTemplatesDir(cfg.TemplatesDir))
	if err != nil {
		return err
	}

	if renderOutput != "" {
		if err := os.WriteFile(renderOutput, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Page written to %s\n", renderOutput)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func rendererFor(format string) (string, error) {
	switch format {
	case "html", "":
		return "site", nil
	case "json":
		return "json", nil
	}
	return "", fmt.Errorf("unknown format %q (want html or json)", format)
}
