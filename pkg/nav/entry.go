package nav

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidEntry reports an entry that has both (or neither) an anchor
	// and children.
	ErrInvalidEntry = errors.New("nav: entry must have either an anchor or children")
	// ErrDuplicateID reports an id used more than once in a tree.
	ErrDuplicateID = errors.New("nav: duplicate entry id")
	// ErrUnknownEntry is returned when an operation targets an id that is not
	// part of the tree.
	ErrUnknownEntry = errors.New("nav: unknown entry")
	// ErrNoSubmenu is returned when a dropdown operation targets a leaf.
	ErrNoSubmenu = errors.New("nav: entry has no submenu")
)

// Entry is a single navigation node. Leaves carry an in-page anchor such as
// "#about-story"; branches carry an ordered list of children.
type Entry struct {
	ID       string  `json:"id" yaml:"id"`
	Label    string  `json:"label" yaml:"label"`
	Anchor   string  `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	Children []Entry `json:"children,omitempty" yaml:"children,omitempty"`
}

// HasChildren reports whether the entry opens a submenu.
func (e Entry) HasChildren() bool {
	return len(e.Children) > 0
}

// TargetID returns the element id the entry scrolls to (its anchor with the
// leading marker stripped).
func (e Entry) TargetID() string {
	return AnchorTarget(e.Anchor)
}

// AnchorTarget strips the leading "#" from an in-page anchor.
func AnchorTarget(anchor string) string {
	return strings.TrimPrefix(strings.TrimSpace(anchor), "#")
}

// Tree is the immutable navigation model. Construct it with NewTree so the
// structural invariants are checked once; lookups afterwards are map based.
type Tree struct {
	entries []Entry
	index   map[string]Entry
	parents map[string]string
}

// NewTree validates entries and builds the lookup index. Entries are copied so
// later mutation of the input slice does not leak into the tree.
func NewTree(entries []Entry) (*Tree, error) {
	tree := &Tree{
		entries: cloneEntries(entries),
		index:   make(map[string]Entry),
		parents: make(map[string]string),
	}
	if err := tree.indexEntries(tree.entries, ""); err != nil {
		return nil, err
	}
	return tree, nil
}

// MustNewTree panics when entries are invalid. Useful for static literals.
func MustNewTree(entries []Entry) *Tree {
	tree, err := NewTree(entries)
	if err != nil {
		panic(err)
	}
	return tree
}

func (t *Tree) indexEntries(entries []Entry, parent string) error {
	for _, entry := range entries {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			return fmt.Errorf("%w: empty id (label %q)", ErrInvalidEntry, entry.Label)
		}
		hasAnchor := strings.TrimSpace(entry.Anchor) != ""
		if hasAnchor == entry.HasChildren() {
			return fmt.Errorf("%w: %q", ErrInvalidEntry, id)
		}
		if _, exists := t.index[id]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		t.index[id] = entry
		if parent != "" {
			t.parents[id] = parent
		}
		if err := t.indexEntries(entry.Children, id); err != nil {
			return err
		}
	}
	return nil
}

// Entries returns a copy of the top-level entries in display order.
func (t *Tree) Entries() []Entry {
	if t == nil {
		return nil
	}
	return cloneEntries(t.entries)
}

// Find returns the entry registered under id.
func (t *Tree) Find(id string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	entry, ok := t.index[id]
	return entry, ok
}

// Parent returns the id of the branch containing id, if any.
func (t *Tree) Parent(id string) (string, bool) {
	if t == nil {
		return "", false
	}
	parent, ok := t.parents[id]
	return parent, ok
}

// Leaves returns every anchor-carrying entry in depth-first display order.
func (t *Tree) Leaves() []Entry {
	if t == nil {
		return nil
	}
	var out []Entry
	var walk func([]Entry)
	walk = func(entries []Entry) {
		for _, entry := range entries {
			if entry.HasChildren() {
				walk(entry.Children)
				continue
			}
			out = append(out, entry)
		}
	}
	walk(t.entries)
	return out
}

// Branches returns the ids of entries that open a submenu.
func (t *Tree) Branches() []string {
	if t == nil {
		return nil
	}
	var out []string
	var walk func([]Entry)
	walk = func(entries []Entry) {
		for _, entry := range entries {
			if entry.HasChildren() {
				out = append(out, entry.ID)
				walk(entry.Children)
			}
		}
	}
	walk(t.entries)
	return out
}

func cloneEntries(in []Entry) []Entry {
	if len(in) == 0 {
		return nil
	}
	out := make([]Entry, len(in))
	for i, entry := range in {
		out[i] = entry
		out[i].Children = cloneEntries(entry.Children)
	}
	return out
}
