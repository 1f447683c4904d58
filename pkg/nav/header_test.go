package nav_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-equitysite/pkg/dom"
	"github.com/goliatone/go-equitysite/pkg/nav"
)

func mountedHeader(t *testing.T, width int) (*nav.Header, *dom.Page) {
	t.Helper()

	page := dom.NewPage(
		dom.WithViewportWidth(width),
		dom.WithAnchors("home", "about-story", "about-team", "services-research", "contact"),
	)
	header := nav.NewHeader(nav.MustNewTree(sampleEntries()))
	if err := header.Mount(page); err != nil {
		t.Fatalf("mount: %v", err)
	}
	t.Cleanup(header.Unmount)
	return header, page
}

func TestHeader_ScrollAffordance(t *testing.T) {
	header, page := mountedHeader(t, 1280)

	page.DispatchScroll(50)
	if header.State().Scrolled {
		t.Fatalf("50 is not past the threshold")
	}
	page.DispatchScroll(51)
	if !header.State().Scrolled {
		t.Fatalf("expected scrolled after 51")
	}
	page.DispatchScroll(0)
	if header.State().Scrolled {
		t.Fatalf("expected scrolled reset at top")
	}
}

func TestHeader_ClickOutsideClearsDropdowns(t *testing.T) {
	for _, open := range []string{"about", "services"} {
		t.Run(open, func(t *testing.T) {
			header, page := mountedHeader(t, 1280)

			if err := header.SelectDropdown(open); err != nil {
				t.Fatalf("select: %v", err)
			}
			page.DispatchClick("main")

			if !header.State().Dropdowns.Empty() {
				t.Fatalf("expected dropdowns cleared, got %v", header.State().Dropdowns)
			}
		})
	}
}

func TestHeader_ClickInsideDropdownKeepsState(t *testing.T) {
	header, page := mountedHeader(t, 1280)

	_ = header.SelectDropdown("about")
	page.DispatchClick(dom.RegionDropdown, dom.RegionNav)

	if !header.State().Dropdowns.IsOpen("about") {
		t.Fatalf("click inside the dropdown must not close it")
	}
}

func TestHeader_ClickOutsideClosesMobileMenu(t *testing.T) {
	header, page := mountedHeader(t, 375)

	header.ToggleMenu()
	page.DispatchClick(dom.RegionMenuToggle)
	if !header.State().MenuOpen {
		t.Fatalf("click on the toggle must not close the menu")
	}

	page.DispatchClick()
	if header.State().MenuOpen {
		t.Fatalf("click outside should close the menu")
	}
}

func TestHeader_ClosingMenuClearsDropdowns(t *testing.T) {
	header, _ := mountedHeader(t, 375)

	header.ToggleMenu()
	_ = header.SelectDropdown("about")
	header.ToggleMenu()

	want := nav.ViewState{Dropdowns: nav.DropdownState{}}
	if diff := cmp.Diff(want, header.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestHeader_OpeningMenuClearsDropdowns(t *testing.T) {
	header, _ := mountedHeader(t, 1280)

	if err := header.SelectDropdown("services"); err != nil {
		t.Fatalf("select: %v", err)
	}
	header.ToggleMenu()

	want := nav.ViewState{MenuOpen: true, Dropdowns: nav.DropdownState{}}
	if diff := cmp.Diff(want, header.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestHeader_NavigateLeaf(t *testing.T) {
	header, page := mountedHeader(t, 375)

	header.ToggleMenu()
	_ = header.SelectDropdown("about")

	scrolled, err := header.Navigate("story")
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if !scrolled {
		t.Fatalf("expected scroll into view")
	}
	if target, _ := page.ScrollTarget(); target != "about-story" {
		t.Fatalf("unexpected scroll target %q", target)
	}
	state := header.State()
	if state.MenuOpen || !state.Dropdowns.Empty() {
		t.Fatalf("expected menu closed and dropdowns cleared, got %+v", state)
	}
}

func TestHeader_NavigateMissingAnchorStillCloses(t *testing.T) {
	page := dom.NewPage(dom.WithViewportWidth(375))
	header := nav.NewHeader(nav.MustNewTree(sampleEntries()))
	if err := header.Mount(page); err != nil {
		t.Fatalf("mount: %v", err)
	}
	defer header.Unmount()

	header.ToggleMenu()
	scrolled, err := header.Navigate("home")
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if scrolled {
		t.Fatalf("no element exists, nothing should scroll")
	}
	if header.State().MenuOpen {
		t.Fatalf("menu should close regardless")
	}
}

func TestHeader_NavigateBranchDependsOnMode(t *testing.T) {
	header, page := mountedHeader(t, 375)

	if _, err := header.Navigate("about"); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if !header.State().Dropdowns.IsOpen("about") {
		t.Fatalf("mobile tap should toggle the submenu")
	}

	header.ClearDropdowns()
	page.SetViewportWidth(1280)
	if _, err := header.Navigate("about"); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if !header.State().Dropdowns.Empty() {
		t.Fatalf("desktop click on a branch label is a no-op")
	}
}

func TestHeader_HoverIgnoredOnMobile(t *testing.T) {
	header, page := mountedHeader(t, 375)

	if err := header.HoverEnter("about"); err != nil {
		t.Fatalf("hover: %v", err)
	}
	if !header.State().Dropdowns.Empty() {
		t.Fatalf("hover must not open menus on mobile")
	}

	page.SetViewportWidth(1024)
	if err := header.HoverEnter("about"); err != nil {
		t.Fatalf("hover: %v", err)
	}
	if !header.State().Dropdowns.IsOpen("about") {
		t.Fatalf("hover should open menus on desktop")
	}
	if err := header.HoverLeave("about"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if !header.State().Dropdowns.Empty() {
		t.Fatalf("leave should close the menu")
	}
}

func TestHeader_ModeReadsWidthAtCallTime(t *testing.T) {
	header, page := mountedHeader(t, 1280)
	if header.Mode() != nav.ModeDesktop {
		t.Fatalf("expected desktop")
	}
	page.SetViewportWidth(600)
	if header.Mode() != nav.ModeMobile {
		t.Fatalf("expected mobile after width change")
	}
}

func TestHeader_CallToAction(t *testing.T) {
	header, page := mountedHeader(t, 375)

	header.ToggleMenu()
	ok, err := header.CallToAction()
	if err != nil || !ok {
		t.Fatalf("call to action: %v %v", ok, err)
	}
	if target, _ := page.ScrollTarget(); target != nav.ContactAnchor {
		t.Fatalf("expected scroll to contact, got %q", target)
	}
	if header.State().MenuOpen {
		t.Fatalf("mobile call to action closes the menu")
	}
}

func TestHeader_DesktopCallToActionClearsDropdowns(t *testing.T) {
	header, _ := mountedHeader(t, 1280)

	if err := header.SelectDropdown("about"); err != nil {
		t.Fatalf("select: %v", err)
	}
	ok, err := header.CallToAction()
	if err != nil || !ok {
		t.Fatalf("call to action: %v %v", ok, err)
	}
	if !header.State().Dropdowns.Empty() {
		t.Fatalf("expected dropdowns cleared, got %v", header.State().Dropdowns)
	}
}

func TestHeader_UnmountReleasesListeners(t *testing.T) {
	page := dom.NewPage()
	header := nav.NewHeader(nav.MustNewTree(sampleEntries()))
	if err := header.Mount(page); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if page.Window.ListenerCount(dom.EventScroll) != 1 || page.Document.ListenerCount(dom.EventClick) != 1 {
		t.Fatalf("expected one listener per target")
	}

	// Remounting must not leak the first set of listeners.
	if err := header.Mount(page); err != nil {
		t.Fatalf("remount: %v", err)
	}
	if page.Window.ListenerCount(dom.EventScroll) != 1 {
		t.Fatalf("remount leaked listeners")
	}

	header.Unmount()
	if page.Window.ListenerCount(dom.EventScroll) != 0 || page.Document.ListenerCount(dom.EventClick) != 0 {
		t.Fatalf("unmount left listeners behind")
	}
	if delivered := page.DispatchScroll(500); delivered != 0 {
		t.Fatalf("expected no deliveries after unmount, got %d", delivered)
	}
	if header.State().Scrolled {
		t.Fatalf("disposed header must not change")
	}
}

func TestHeader_NavigateRequiresMount(t *testing.T) {
	header := nav.NewHeader(nav.MustNewTree(sampleEntries()))
	if _, err := header.Navigate("home"); !errors.Is(err, nav.ErrNotMounted) {
		t.Fatalf("expected ErrNotMounted, got %v", err)
	}
	if _, err := header.Navigate("nope"); !errors.Is(err, nav.ErrUnknownEntry) {
		t.Fatalf("expected ErrUnknownEntry, got %v", err)
	}
}
