// Package content holds the static copy rendered on the site: brand,
// navigation tree, hero, services, the anchored detail sections, contact
// details and footer.
package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-equitysite/pkg/nav"
)

var (
	// ErrAnchorMissing is returned when a link targets an id the page does
	// not render.
	ErrAnchorMissing = errors.New("content: anchor missing")
	// ErrDuplicateAnchor is returned when two sections share an id.
	ErrDuplicateAnchor = errors.New("content: duplicate anchor")
)

// Site is the whole page.
type Site struct {
	Brand    Brand           `json:"brand" yaml:"brand"`
	Nav      []nav.Entry     `json:"nav" yaml:"nav"`
	CTALabel string          `json:"ctaLabel" yaml:"ctaLabel"`
	Hero     Hero            `json:"hero" yaml:"hero"`
	Services ServicesSection `json:"services" yaml:"services"`
	Sections []SectionGroup  `json:"sections" yaml:"sections"`
	Contact  ContactSection  `json:"contact" yaml:"contact"`
	Footer   Footer          `json:"footer" yaml:"footer"`
}

type Brand struct {
	Name    string `json:"name" yaml:"name"`
	Accent  string `json:"accent" yaml:"accent"`
	Tagline string `json:"tagline" yaml:"tagline"`
}

// Link is a labelled href. Hrefs starting with "#" are in-page anchors.
type Link struct {
	Label string `json:"label" yaml:"label"`
	Href  string `json:"href" yaml:"href"`
	// Variant is a style hook such as "primary" or "secondary".
	Variant string `json:"variant,omitempty" yaml:"variant,omitempty"`
}

// Anchor returns the target id for in-page links and "" otherwise.
func (l Link) Anchor() string {
	if !strings.HasPrefix(l.Href, "#") {
		return ""
	}
	return nav.AnchorTarget(l.Href)
}

type Stat struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

type Hero struct {
	ID       string `json:"id" yaml:"id"`
	Headline string `json:"headline" yaml:"headline"`
	Copy     string `json:"copy" yaml:"copy"`
	Buttons  []Link `json:"buttons" yaml:"buttons"`
	Stats    []Stat `json:"stats" yaml:"stats"`
}

type ServiceCard struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
	Link        Link   `json:"link" yaml:"link"`
}

type ServicesSection struct {
	ID       string        `json:"id" yaml:"id"`
	Title    string        `json:"title" yaml:"title"`
	Subtitle string        `json:"subtitle" yaml:"subtitle"`
	Cards    []ServiceCard `json:"cards" yaml:"cards"`
	CTA      Link          `json:"cta" yaml:"cta"`
}

// Section is one anchored block of copy.
type Section struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
}

// SectionGroup is an anchored band of related sections. A group with no
// items renders its intro on its own.
type SectionGroup struct {
	ID    string    `json:"id" yaml:"id"`
	Title string    `json:"title" yaml:"title"`
	Intro string    `json:"intro" yaml:"intro"`
	Items []Section `json:"items" yaml:"items"`
}

type InfoItem struct {
	Icon  string `json:"icon" yaml:"icon"`
	Title string `json:"title" yaml:"title"`
	Text  string `json:"text" yaml:"text"`
}

type ContactSection struct {
	ID           string     `json:"id" yaml:"id"`
	Title        string     `json:"title" yaml:"title"`
	Intro        string     `json:"intro" yaml:"intro"`
	SubmitLabel  string     `json:"submitLabel" yaml:"submitLabel"`
	SuccessTitle string     `json:"successTitle" yaml:"successTitle"`
	SuccessBody  string     `json:"successBody" yaml:"successBody"`
	Info         []InfoItem `json:"info" yaml:"info"`
}

type Footer struct {
	Name            string   `json:"name" yaml:"name"`
	Blurb           string   `json:"blurb" yaml:"blurb"`
	QuickLinks      []Link   `json:"quickLinks" yaml:"quickLinks"`
	ContactLines    []string `json:"contactLines" yaml:"contactLines"`
	CopyrightHolder string   `json:"copyrightHolder" yaml:"copyrightHolder"`
}

// NavTree builds the navigation model.
func (s Site) NavTree() (*nav.Tree, error) {
	return nav.NewTree(s.Nav)
}

// AnchorIDs lists every element id the rendered page carries, in page
// order.
func (s Site) AnchorIDs() []string {
	ids := []string{s.Hero.ID, s.Services.ID}
	for _, group := range s.Sections {
		ids = append(ids, group.ID)
		for _, item := range group.Items {
			ids = append(ids, item.ID)
		}
	}
	ids = append(ids, s.Contact.ID)

	out := ids[:0]
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// Validate checks the navigation tree and that every in-page link resolves
// to an anchor the page renders.
func (s Site) Validate() error {
	tree, err := s.NavTree()
	if err != nil {
		return fmt.Errorf("content: nav: %w", err)
	}

	anchors := make(map[string]struct{})
	for _, id := range s.AnchorIDs() {
		if _, dup := anchors[id]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateAnchor, id)
		}
		anchors[id] = struct{}{}
	}
	if s.Contact.ID != nav.ContactAnchor {
		return fmt.Errorf("%w: contact section must use id %q", ErrAnchorMissing, nav.ContactAnchor)
	}

	resolve := func(where, target string) error {
		if target == "" {
			return nil
		}
		if _, ok := anchors[target]; !ok {
			return fmt.Errorf("%w: %s links to #%s", ErrAnchorMissing, where, target)
		}
		return nil
	}

	for _, leaf := range tree.Leaves() {
		if err := resolve("nav entry "+leaf.ID, leaf.TargetID()); err != nil {
			return err
		}
	}
	for _, btn := range s.Hero.Buttons {
		if err := resolve("hero button "+btn.Label, btn.Anchor()); err != nil {
			return err
		}
	}
	for _, card := range s.Services.Cards {
		if err := resolve("service card "+card.Title, card.Link.Anchor()); err != nil {
			return err
		}
	}
	if err := resolve("services call to action", s.Services.CTA.Anchor()); err != nil {
		return err
	}
	for _, link := range s.Footer.QuickLinks {
		if err := resolve("footer link "+link.Label, link.Anchor()); err != nil {
			return err
		}
	}
	return nil
}
