package render

import (
	"github.com/goliatone/go-equitysite/pkg/contact"
	"github.com/goliatone/go-equitysite/pkg/content"
	"github.com/goliatone/go-equitysite/pkg/nav"
)

// PageModel is everything a renderer needs for one visitor's page.
type PageModel struct {
	Site   content.Site     `json:"-"`
	Header nav.ViewState    `json:"header"`
	Mode   nav.Mode         `json:"mode"`
	Form   contact.Snapshot `json:"form"`
}

// View is the template-facing projection of a PageModel. Every flag a
// template branches on is precomputed here.
type View struct {
	Brand    content.Brand           `json:"brand"`
	CTALabel string                  `json:"ctaLabel"`
	Header   HeaderView              `json:"header"`
	Hero     content.Hero            `json:"hero"`
	Services content.ServicesSection `json:"services"`
	Sections []content.SectionGroup  `json:"sections"`
	Contact  ContactView             `json:"contact"`
	Footer   FooterView              `json:"footer"`
	Hidden   []HiddenField           `json:"hidden"`
	Theme    ThemeView               `json:"theme"`
}

type HeaderView struct {
	MenuOpen    bool          `json:"menuOpen"`
	Scrolled    bool          `json:"scrolled"`
	Mobile      bool          `json:"mobile"`
	Mode        nav.Mode      `json:"mode"`
	ToggleLabel string        `json:"toggleLabel"`
	Items       []NavItemView `json:"items"`
}

type NavItemView struct {
	ID          string        `json:"id"`
	Label       string        `json:"label"`
	Href        string        `json:"href"`
	HasChildren bool          `json:"hasChildren"`
	Open        bool          `json:"open"`
	Children    []NavItemView `json:"children,omitempty"`
}

type ContactView struct {
	Section   content.ContactSection `json:"section"`
	Submitted bool                   `json:"submitted"`
	Fields    map[string]FieldView   `json:"fields"`
	Services  []OptionView           `json:"services"`
	Urgencies []OptionView           `json:"urgencies"`
	Errors    ErrorMapping           `json:"errors"`
	// Reference is the id of the accepted submission while Submitted.
	Reference string `json:"reference,omitempty"`
}

type FieldView struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Error   string `json:"error,omitempty"`
	Invalid bool   `json:"invalid"`
}

type OptionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type FooterView struct {
	content.Footer
	Year int `json:"year"`
}

// BuildView projects page for templates.
func BuildView(page PageModel, opts RenderOptions) View {
	site := page.Site
	return View{
		Brand:    site.Brand,
		CTALabel: site.CTALabel,
		Header:   buildHeader(site.Nav, page.Header, page.Mode),
		Hero:     site.Hero,
		Services: site.Services,
		Sections: site.Sections,
		Contact:  buildContact(site.Contact, page.Form, opts.FormErrors),
		Footer:   FooterView{Footer: site.Footer, Year: opts.now().Year()},
		Hidden:   SortedHiddenFields(opts.Hidden),
		Theme:    buildThemeView(opts.Theme),
	}
}

func buildHeader(entries []nav.Entry, state nav.ViewState, mode nav.Mode) HeaderView {
	if mode == "" {
		mode = nav.ModeDesktop
	}
	view := HeaderView{
		MenuOpen:    state.MenuOpen,
		Scrolled:    state.Scrolled,
		Mobile:      mode == nav.ModeMobile,
		Mode:        mode,
		ToggleLabel: "Open menu",
		Items:       buildNavItems(entries, state.Dropdowns),
	}
	if state.MenuOpen {
		view.ToggleLabel = "Close menu"
	}
	return view
}

func buildNavItems(entries []nav.Entry, open nav.DropdownState) []NavItemView {
	if len(entries) == 0 {
		return nil
	}
	out := make([]NavItemView, 0, len(entries))
	for _, entry := range entries {
		item := NavItemView{
			ID:          entry.ID,
			Label:       entry.Label,
			Href:        entry.Anchor,
			HasChildren: entry.HasChildren(),
			Open:        open.IsOpen(entry.ID),
			Children:    buildNavItems(entry.Children, open),
		}
		if item.Href == "" {
			item.Href = "#"
		}
		out = append(out, item)
	}
	return out
}

func buildContact(section content.ContactSection, snap contact.Snapshot, formErrors []string) ContactView {
	data := snap.Data
	view := ContactView{
		Section:   section,
		Submitted: snap.State == contact.StateSubmitted,
		Fields:    make(map[string]FieldView, len(contact.Fields())),
		Errors:    MapFormErrors(snap.Errors, formErrors...),
	}
	for _, field := range contact.Fields() {
		msg := snap.Errors[field]
		view.Fields[string(field)] = FieldView{
			Name:    string(field),
			Value:   data.Get(field),
			Error:   msg,
			Invalid: msg != "",
		}
	}
	for _, svc := range contact.Services() {
		view.Services = append(view.Services, OptionView{
			Value:    string(svc),
			Label:    svc.Label(),
			Selected: svc == data.Service,
		})
	}
	for _, urg := range contact.Urgencies() {
		view.Urgencies = append(view.Urgencies, OptionView{
			Value:    string(urg),
			Label:    urg.Label(),
			Selected: urg == data.Urgency,
		})
	}
	if view.Submitted && snap.Last != nil {
		view.Reference = snap.Last.ID.String()
	}
	return view
}
