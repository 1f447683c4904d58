package contact

import (
	"regexp"
	"strings"
)

const (
	MsgNameRequired         = "Name is required"
	MsgEmailRequired        = "Email is required"
	MsgEmailInvalid         = "Email is invalid"
	MsgOrganizationRequired = "Organization is required"
	MsgMessageRequired      = "Message is required"
)

// emailPattern is a structural check only; it is deliberately unanchored.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// FormErrors maps failing fields to their message. A missing key means the
// field passed.
type FormErrors map[Field]string

// Empty reports whether the form passed validation.
func (e FormErrors) Empty() bool {
	return len(e) == 0
}

// Fields returns the failing fields in display order.
func (e FormErrors) Fields() []Field {
	out := make([]Field, 0, len(e))
	for _, f := range Fields() {
		if _, ok := e[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Clone returns an independent copy.
func (e FormErrors) Clone() FormErrors {
	out := make(FormErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Validate checks every rule and returns the failing fields.
func Validate(data FormData) FormErrors {
	errs := FormErrors{}
	for _, f := range Fields() {
		if msg := ValidateField(f, data.Get(f)); msg != "" {
			errs[f] = msg
		}
	}
	return errs
}

// ValidateField returns the message for a single field value, or "" when it
// passes. Service and urgency carry no rules here.
func ValidateField(field Field, value string) string {
	trimmed := strings.TrimSpace(value)
	switch field {
	case FieldName:
		if trimmed == "" {
			return MsgNameRequired
		}
	case FieldEmail:
		if trimmed == "" {
			return MsgEmailRequired
		}
		if !emailPattern.MatchString(value) {
			return MsgEmailInvalid
		}
	case FieldOrganization:
		if trimmed == "" {
			return MsgOrganizationRequired
		}
	case FieldMessage:
		if trimmed == "" {
			return MsgMessageRequired
		}
	}
	return ""
}
