package nav

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-equitysite/pkg/dom"
)

const (
	// MobileBreakpoint is the widest viewport rendered with the mobile layout.
	MobileBreakpoint = 768
	// ScrollThreshold is the offset past which the header is "scrolled".
	ScrollThreshold = 50
	// ContactAnchor is the section targeted by the call-to-action buttons.
	ContactAnchor = "contact"
)

// ErrNotMounted is returned by operations that need a page before Mount.
var ErrNotMounted = errors.New("nav: header not mounted")

// Mode selects the navigation layout.
type Mode string

const (
	ModeDesktop Mode = "desktop"
	ModeMobile  Mode = "mobile"
)

// ModeForWidth maps a viewport width onto a layout.
func ModeForWidth(width int) Mode {
	if width <= MobileBreakpoint {
		return ModeMobile
	}
	return ModeDesktop
}

// ViewState is the header's entire mutable state.
type ViewState struct {
	MenuOpen  bool          `json:"menuOpen"`
	Scrolled  bool          `json:"scrolled"`
	Dropdowns DropdownState `json:"dropdowns"`
}

// Header composes the navigation tree, the dropdown controller and the
// header view state. Methods must run under the owning page's dispatch lock.
type Header struct {
	tree      *Tree
	dropdowns *Controller
	menuOpen  bool
	scrolled  bool

	page  *dom.Page
	scope *dom.Scope
}

// NewHeader builds an unmounted header for tree.
func NewHeader(tree *Tree) *Header {
	return &Header{
		tree:      tree,
		dropdowns: NewController(tree),
	}
}

// Tree returns the navigation model.
func (h *Header) Tree() *Tree {
	return h.tree
}

// Mount attaches the header to page: the scroll affordance listens on the
// window and click-outside handling listens on the document. Mounting an
// already mounted header first releases the previous registrations.
func (h *Header) Mount(page *dom.Page) error {
	if page == nil {
		return fmt.Errorf("nav: mount: page is required")
	}
	h.Unmount()

	scope := dom.NewScope()
	if err := scope.Listen(page.Window, dom.EventScroll, func(ev dom.Event) {
		h.SetScrolled(ev.ScrollY)
	}); err != nil {
		return err
	}
	if err := scope.Listen(page.Document, dom.EventClick, h.handleDocumentClick); err != nil {
		scope.Close()
		return err
	}

	h.page = page
	h.scope = scope
	return nil
}

// Unmount releases every listener acquired by Mount.
func (h *Header) Unmount() {
	if h.scope != nil {
		h.scope.Close()
	}
	h.scope = nil
	h.page = nil
}

// Mounted reports whether the header is attached to a page.
func (h *Header) Mounted() bool {
	return h.page != nil
}

// Mode reads the layout from the page's viewport width at call time. The
// result is not cached and nothing re-evaluates it when the width changes.
func (h *Header) Mode() Mode {
	if h.page == nil {
		return ModeForWidth(dom.DefaultViewportWidth)
	}
	return ModeForWidth(h.page.ViewportWidth())
}

// State returns a snapshot of the view state.
func (h *Header) State() ViewState {
	return ViewState{
		MenuOpen:  h.menuOpen,
		Scrolled:  h.scrolled,
		Dropdowns: h.dropdowns.State(),
	}
}

// ToggleMenu flips the mobile menu. The toggle sits outside every submenu,
// so open dropdowns close either way.
func (h *Header) ToggleMenu() {
	h.setMenuOpen(!h.menuOpen)
	h.dropdowns.Clear()
}

// SetScrolled recomputes the scroll affordance from offset.
func (h *Header) SetScrolled(offset int) {
	h.scrolled = offset > ScrollThreshold
}

// SelectDropdown toggles the submenu for id, closing all others.
func (h *Header) SelectDropdown(id string) error {
	return h.dropdowns.Toggle(id)
}

// ClearDropdowns closes every submenu.
func (h *Header) ClearDropdowns() {
	h.dropdowns.Clear()
}

// HoverEnter opens id's submenu on pointer-enter. Ignored in mobile mode.
func (h *Header) HoverEnter(id string) error {
	if h.Mode() == ModeMobile {
		return nil
	}
	return h.dropdowns.PointerEnter(id)
}

// HoverLeave closes id's submenu on pointer-leave. Ignored in mobile mode.
func (h *Header) HoverLeave(id string) error {
	if h.Mode() == ModeMobile {
		return nil
	}
	return h.dropdowns.PointerLeave(id)
}

// Navigate handles a click on entry id. Leaves scroll their section into
// view, close the mobile menu and clear the dropdowns; branches toggle their
// submenu on mobile and are left to hover handling on desktop. It reports
// whether a matching element was scrolled into view.
func (h *Header) Navigate(id string) (bool, error) {
	entry, ok := h.tree.Find(id)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownEntry, id)
	}
	if entry.HasChildren() {
		if h.Mode() == ModeMobile {
			return false, h.dropdowns.Toggle(id)
		}
		return false, nil
	}
	if h.page == nil {
		return false, ErrNotMounted
	}

	scrolled := h.page.ScrollIntoView(entry.TargetID())
	h.setMenuOpen(false)
	h.dropdowns.Clear()
	return scrolled, nil
}

// CallToAction clears open dropdowns and scrolls to the contact section. In
// mobile mode the menu is closed once the section was found.
func (h *Header) CallToAction() (bool, error) {
	if h.page == nil {
		return false, ErrNotMounted
	}
	h.dropdowns.Clear()
	if !h.page.ScrollIntoView(ContactAnchor) {
		return false, nil
	}
	if h.Mode() == ModeMobile {
		h.setMenuOpen(false)
	}
	return true, nil
}

func (h *Header) handleDocumentClick(ev dom.Event) {
	if h.menuOpen && !ev.In(dom.RegionNav) && !ev.In(dom.RegionMenuToggle) {
		h.setMenuOpen(false)
	}
	if !ev.In(dom.RegionDropdown) && !ev.In(dom.RegionHasDropdown) {
		h.dropdowns.Clear()
	}
}

func (h *Header) setMenuOpen(open bool) {
	h.menuOpen = open
	if !open {
		h.dropdowns.Clear()
	}
}
