package template

// TemplateRenderer executes a named template against a data value.
type TemplateRenderer interface {
	RenderTemplate(name string, data any) (string, error)
}
