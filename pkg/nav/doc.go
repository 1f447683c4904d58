// Package nav holds the navigation tree rendered in the site header and the
// state machines that drive it: the dropdown controller (which submenu is
// open) and the header view state (mobile menu, scroll affordance). Every
// transition is a named method so the behaviour can be exercised without a
// browser; the HTTP layer merely translates requests into these calls.
package nav
