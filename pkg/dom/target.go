// Package dom models the small slice of a browser runtime the site's stateful
// components depend on: shared event targets (window, document), listener
// registrations that can be released, a scope that owns registrations and
// deferred callbacks, and a page that serializes event dispatch and knows
// which anchors exist.
package dom

import (
	"slices"
	"sync"
)

// EventType names a dispatched event.
type EventType string

const (
	EventScroll EventType = "scroll"
	EventClick  EventType = "click"
)

// Regions a click can land in. Header click-outside handling tests membership
// the way a browser handler would walk up with closest().
const (
	RegionNav         = "nav"
	RegionMenuToggle  = "menu-toggle"
	RegionDropdown    = "dropdown"
	RegionHasDropdown = "has-dropdown"
)

// Event is the payload delivered to listeners.
type Event struct {
	Type EventType
	// ScrollY is the vertical scroll offset for scroll events.
	ScrollY int
	// Within lists the regions containing the click target.
	Within []string
}

// In reports whether the event target sits inside region.
func (e Event) In(region string) bool {
	return slices.Contains(e.Within, region)
}

// Listener handles a dispatched event.
type Listener func(Event)

type listenerEntry struct {
	id uint64
	fn Listener
}

// Target is a shared event target such as the window or the document.
type Target struct {
	name string

	mu        sync.Mutex
	seq       uint64
	listeners map[EventType][]listenerEntry
}

// NewTarget constructs an empty target.
func NewTarget(name string) *Target {
	return &Target{
		name:      name,
		listeners: make(map[EventType][]listenerEntry),
	}
}

// Name returns the target label used in logs.
func (t *Target) Name() string {
	return t.name
}

// AddListener registers fn for events of typ. The returned registration must
// be released when the owner goes away.
func (t *Target) AddListener(typ EventType, fn Listener) *Registration {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	id := t.seq
	t.listeners[typ] = append(t.listeners[typ], listenerEntry{id: id, fn: fn})
	return &Registration{target: t, typ: typ, id: id}
}

// Dispatch delivers ev to every listener registered for its type, in
// registration order, and returns how many listeners ran. Listeners are
// snapshotted first so a listener may release itself.
func (t *Target) Dispatch(ev Event) int {
	t.mu.Lock()
	entries := slices.Clone(t.listeners[ev.Type])
	t.mu.Unlock()

	for _, entry := range entries {
		entry.fn(ev)
	}
	return len(entries)
}

// ListenerCount returns the number of live listeners for typ.
func (t *Target) ListenerCount(typ EventType) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners[typ])
}

func (t *Target) remove(typ EventType, id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := t.listeners[typ]
	for i, entry := range entries {
		if entry.id == id {
			t.listeners[typ] = slices.Delete(entries, i, i+1)
			break
		}
	}
	if len(t.listeners[typ]) == 0 {
		delete(t.listeners, typ)
	}
}

// Registration is the handle for one listener. Release is idempotent.
type Registration struct {
	target *Target
	typ    EventType
	id     uint64
	once   sync.Once
}

// Release unregisters the listener.
func (r *Registration) Release() {
	if r == nil || r.target == nil {
		return
	}
	r.once.Do(func() {
		r.target.remove(r.typ, r.id)
	})
}
