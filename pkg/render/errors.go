package render

import (
	"strings"

	"github.com/goliatone/go-equitysite/pkg/contact"
)

// ErrorMapping splits validation feedback into per-field messages keyed by
// input name and form-level messages.
type ErrorMapping struct {
	Fields map[string]string `json:"fields,omitempty"`
	Form   []string          `json:"form,omitempty"`
}

// Empty reports whether there is nothing to show.
func (m ErrorMapping) Empty() bool {
	return len(m.Fields) == 0 && len(m.Form) == 0
}

// MapFormErrors converts validator output plus any form-level messages.
func MapFormErrors(errs contact.FormErrors, formLevel ...string) ErrorMapping {
	mapping := ErrorMapping{Form: normalizeMessages(formLevel)}
	if len(errs) == 0 {
		return mapping
	}
	mapping.Fields = make(map[string]string, len(errs))
	for field, msg := range errs {
		if trimmed := strings.TrimSpace(msg); trimmed != "" {
			mapping.Fields[string(field)] = trimmed
		}
	}
	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	return mapping
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
