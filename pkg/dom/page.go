package dom

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultViewportWidth is assumed until a client reports its width.
const DefaultViewportWidth = 1280

// Page is one visitor's rendered page. All component state hanging off a page
// is mutated under its dispatch lock: event dispatch, request handling (Do)
// and deferred callbacks (AfterFunc) never interleave.
type Page struct {
	Window   *Target
	Document *Target

	mu    sync.Mutex
	clock clockwork.Clock
	width atomic.Int64

	anchorMu   sync.RWMutex
	anchors    map[string]struct{}
	scrolledTo string
	scrolls    int
}

// PageOption configures a page.
type PageOption func(*Page)

// WithClock injects the clock used for deferred callbacks.
func WithClock(clock clockwork.Clock) PageOption {
	return func(p *Page) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithViewportWidth seeds the viewport width.
func WithViewportWidth(width int) PageOption {
	return func(p *Page) {
		if width > 0 {
			p.width.Store(int64(width))
		}
	}
}

// WithAnchors registers element ids that scroll targets may resolve to.
func WithAnchors(ids ...string) PageOption {
	return func(p *Page) {
		for _, id := range ids {
			if id != "" {
				p.anchors[id] = struct{}{}
			}
		}
	}
}

// NewPage constructs a page with fresh window and document targets.
func NewPage(options ...PageOption) *Page {
	p := &Page{
		Window:   NewTarget("window"),
		Document: NewTarget("document"),
		clock:    clockwork.NewRealClock(),
		anchors:  make(map[string]struct{}),
	}
	p.width.Store(DefaultViewportWidth)
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Do runs fn under the dispatch lock. fn must not call Do again.
func (p *Page) Do(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn()
}

// AfterFunc schedules fn on the page clock; fn runs under the dispatch lock.
// The returned timer is the caller's to stop.
func (p *Page) AfterFunc(d time.Duration, fn func()) clockwork.Timer {
	return p.clock.AfterFunc(d, func() {
		p.Do(fn)
	})
}

// Clock returns the page clock.
func (p *Page) Clock() clockwork.Clock {
	return p.clock
}

// ViewportWidth returns the most recently reported width.
func (p *Page) ViewportWidth() int {
	return int(p.width.Load())
}

// SetViewportWidth records a width reported by the client. Nothing listens
// for the change; consumers read the width when they need it.
func (p *Page) SetViewportWidth(width int) {
	if width > 0 {
		p.width.Store(int64(width))
	}
}

// HasAnchor reports whether an element with id exists on the page.
func (p *Page) HasAnchor(id string) bool {
	p.anchorMu.RLock()
	defer p.anchorMu.RUnlock()
	_, ok := p.anchors[id]
	return ok
}

// ScrollIntoView smooth-scrolls to the element with id. It reports false and
// does nothing when no such element exists.
func (p *Page) ScrollIntoView(id string) bool {
	p.anchorMu.Lock()
	defer p.anchorMu.Unlock()

	if _, ok := p.anchors[id]; !ok {
		return false
	}
	p.scrolledTo = id
	p.scrolls++
	return true
}

// ScrollTarget returns the id of the last element scrolled into view and how
// many scrolls happened so far.
func (p *Page) ScrollTarget() (string, int) {
	p.anchorMu.RLock()
	defer p.anchorMu.RUnlock()
	return p.scrolledTo, p.scrolls
}

// DispatchScroll delivers a window scroll event with offset y.
func (p *Page) DispatchScroll(y int) int {
	var delivered int
	p.Do(func() {
		delivered = p.Window.Dispatch(Event{Type: EventScroll, ScrollY: y})
	})
	return delivered
}

// DispatchClick delivers a document click whose target sits inside the
// given regions.
func (p *Page) DispatchClick(within ...string) int {
	var delivered int
	p.Do(func() {
		delivered = p.Document.Dispatch(Event{Type: EventClick, Within: within})
	})
	return delivered
}
