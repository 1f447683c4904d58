// Package openapi carries the OpenAPI contract of the site's JSON API. The
// document is embedded, loaded and validated with kin-openapi, and used to
// check request bodies structurally before they reach the contact form.
package openapi
