package nav

import (
	"fmt"
	"sort"
)

// DropdownState maps branch entry ids to their open flag. Only open entries
// are stored, so an empty map means every submenu is closed.
type DropdownState map[string]bool

// IsOpen reports whether the submenu for id is open.
func (s DropdownState) IsOpen(id string) bool {
	return s[id]
}

// Empty reports whether no submenu is open.
func (s DropdownState) Empty() bool {
	for _, open := range s {
		if open {
			return false
		}
	}
	return true
}

// OpenIDs returns the open entry ids in sorted order.
func (s DropdownState) OpenIDs() []string {
	out := make([]string, 0, len(s))
	for id, open := range s {
		if open {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (s DropdownState) Clone() DropdownState {
	out := make(DropdownState, len(s))
	for id, open := range s {
		if open {
			out[id] = true
		}
	}
	return out
}

// Controller tracks which navigation submenus are open. It only accepts ids
// of branch entries; leaves and unknown ids leave the state untouched.
type Controller struct {
	tree  *Tree
	state DropdownState
}

// NewController binds a controller to tree with every submenu closed.
func NewController(tree *Tree) *Controller {
	return &Controller{
		tree:  tree,
		state: DropdownState{},
	}
}

// State returns a snapshot of the current mapping.
func (c *Controller) State() DropdownState {
	return c.state.Clone()
}

// PointerEnter opens the submenu for id without touching its siblings.
func (c *Controller) PointerEnter(id string) error {
	if err := c.requireBranch(id); err != nil {
		return err
	}
	c.state[id] = true
	return nil
}

// PointerLeave closes the submenu for id.
func (c *Controller) PointerLeave(id string) error {
	if err := c.requireBranch(id); err != nil {
		return err
	}
	delete(c.state, id)
	return nil
}

// Toggle builds a fresh mapping where every submenu is closed except id,
// whose flag becomes the negation of its previous value.
func (c *Controller) Toggle(id string) error {
	if err := c.requireBranch(id); err != nil {
		return err
	}
	next := DropdownState{}
	if !c.state[id] {
		next[id] = true
	}
	c.state = next
	return nil
}

// Clear closes every submenu.
func (c *Controller) Clear() {
	c.state = DropdownState{}
}

func (c *Controller) requireBranch(id string) error {
	entry, ok := c.tree.Find(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEntry, id)
	}
	if !entry.HasChildren() {
		return fmt.Errorf("%w: %q", ErrNoSubmenu, id)
	}
	return nil
}
