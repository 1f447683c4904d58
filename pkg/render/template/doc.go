// Package template defines the template engine seam renderers depend on.
package template
