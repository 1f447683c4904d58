// Package contact holds the consultation request form: its data shape, the
// field validator, the Editing/Submitted lifecycle with its delayed reset,
// and the sinks that receive accepted submissions.
package contact
