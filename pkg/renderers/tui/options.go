package tui

import "io"

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional prefixes the intake applies when printing messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the intake.
type Option func(*Intake)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(i *Intake) {
		if driver != nil {
			i.driver = driver
		}
	}
}

// WithOutput sets where the default survey driver prints messages.
func WithOutput(w io.Writer) Option {
	return func(i *Intake) {
		if w != nil {
			i.out = w
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(i *Intake) {
		if format != "" {
			i.outputFormat = format
		}
	}
}

// WithConfirm toggles the final "send?" prompt.
func WithConfirm(enabled bool) Option {
	return func(i *Intake) {
		i.confirm = enabled
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(i *Intake) {
		i.theme = theme
	}
}
