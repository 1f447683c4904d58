package content_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-equitysite/pkg/content"
	"github.com/goliatone/go-equitysite/pkg/nav"
	"github.com/goliatone/go-equitysite/pkg/testsupport"
)

func TestDefault_Validates(t *testing.T) {
	site := testsupport.Site(t)

	tree, err := site.NavTree()
	if err != nil {
		t.Fatalf("nav tree: %v", err)
	}
	if diff := cmp.Diff([]string{"about", "services", "resources", "publications"}, tree.Branches()); diff != "" {
		t.Fatalf("branches mismatch (-want +got):\n%s", diff)
	}
	if len(site.Services.Cards) != 6 {
		t.Fatalf("expected six service cards, got %d", len(site.Services.Cards))
	}
}

func TestAnchorIDs_CoverSpecAnchors(t *testing.T) {
	ids := map[string]bool{}
	for _, id := range content.Default().AnchorIDs() {
		ids[id] = true
	}
	for _, want := range []string{"home", "about-story", "services-research", "contact", "partners", "about"} {
		if !ids[want] {
			t.Errorf("missing anchor %q", want)
		}
	}
}

func TestValidate_MissingNavAnchor(t *testing.T) {
	site := content.Default()
	site.Nav = append(site.Nav, nav.Entry{ID: "careers", Label: "Careers", Anchor: "#careers"})

	if err := site.Validate(); !errors.Is(err, content.ErrAnchorMissing) {
		t.Fatalf("expected ErrAnchorMissing, got %v", err)
	}
}

func TestValidate_DuplicateAnchor(t *testing.T) {
	site := content.Default()
	site.Sections = append(site.Sections, content.SectionGroup{ID: "home", Title: "Again"})

	if err := site.Validate(); !errors.Is(err, content.ErrDuplicateAnchor) {
		t.Fatalf("expected ErrDuplicateAnchor, got %v", err)
	}
}

func TestValidate_BrokenFooterLink(t *testing.T) {
	site := content.Default()
	site.Footer.QuickLinks = append(site.Footer.QuickLinks, content.Link{Label: "Blog", Href: "#blog"})

	if err := site.Validate(); !errors.Is(err, content.ErrAnchorMissing) {
		t.Fatalf("expected ErrAnchorMissing, got %v", err)
	}
}

func TestParse_YAMLOverlay(t *testing.T) {
	data := []byte(`
brand:
  name: "Equity."
  accent: "Lab"
  tagline: "Closing gaps"
hero:
  id: home
  headline: "Care for everyone"
  copy: "We help."
  buttons:
    - label: "Talk to us"
      href: "#contact"
`)
	site, err := content.Parse(data, "site.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if site.Brand.Accent != "Lab" || site.Hero.Headline != "Care for everyone" {
		t.Fatalf("overlay not applied: %+v", site.Brand)
	}
	if len(site.Hero.Buttons) != 1 {
		t.Fatalf("unexpected hero %+v", site.Hero)
	}
	if site.Footer.Name != content.Default().Footer.Name {
		t.Fatalf("keys absent from the file keep their defaults")
	}
}

func TestParse_JSONAndErrors(t *testing.T) {
	site, err := content.Parse([]byte(`{"ctaLabel":"Book a call"}`), "site.json")
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if site.CTALabel != "Book a call" {
		t.Fatalf("unexpected cta label %q", site.CTALabel)
	}

	if _, err := content.Parse([]byte("   "), "empty.yaml"); err == nil {
		t.Fatalf("expected error for empty file")
	}
	if _, err := content.Parse([]byte("nav:\n  - id: x\n    label: X\n"), "bad.yaml"); !errors.Is(err, nav.ErrInvalidEntry) {
		t.Fatalf("expected invalid nav entry, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := testsupport.WriteFile(t, t.TempDir(), "site.yaml", []byte("ctaLabel: Begin\n"))

	site, err := content.LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if site.CTALabel != "Begin" {
		t.Fatalf("unexpected cta label %q", site.CTALabel)
	}
	if _, err := content.LoadFile(path + ".missing"); err == nil {
		t.Fatalf("expected read error")
	}
}
