package contact

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned when a change names a field the form does
	// not have.
	ErrUnknownField = errors.New("contact: unknown field")
	// ErrInvalidChoice is returned when an enum field receives a value
	// outside its choices.
	ErrInvalidChoice = errors.New("contact: invalid choice")
)

// Field names a form input. The values double as the HTML input names.
type Field string

const (
	FieldName         Field = "name"
	FieldEmail        Field = "email"
	FieldOrganization Field = "organization"
	FieldService      Field = "service"
	FieldUrgency      Field = "urgency"
	FieldMessage      Field = "message"
)

// Fields lists every field in display order.
func Fields() []Field {
	return []Field{FieldName, FieldEmail, FieldOrganization, FieldService, FieldUrgency, FieldMessage}
}

// ParseField resolves an input name.
func ParseField(name string) (Field, error) {
	for _, f := range Fields() {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Service is the consultation topic.
type Service string

const (
	ServiceGeneral    Service = "general"
	ServiceAssessment Service = "assessment"
	ServicePolicy     Service = "policy"
	ServiceTraining   Service = "training"
	ServiceEvaluation Service = "evaluation"
	ServiceResearch   Service = "research"
)

var serviceLabels = map[Service]string{
	ServiceGeneral:    "General Inquiry",
	ServiceAssessment: "Health Equity Assessment",
	ServicePolicy:     "Policy Development",
	ServiceTraining:   "Training & Capacity Building",
	ServiceEvaluation: "Program Evaluation",
	ServiceResearch:   "Research & Analytics",
}

// Services lists the service choices in display order.
func Services() []Service {
	return []Service{ServiceGeneral, ServiceAssessment, ServicePolicy, ServiceTraining, ServiceEvaluation, ServiceResearch}
}

// Label returns the human readable option text.
func (s Service) Label() string {
	if label, ok := serviceLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether s is one of the known services.
func (s Service) Valid() bool {
	_, ok := serviceLabels[s]
	return ok
}

// Urgency is the requested response time.
type Urgency string

const (
	UrgencyStandard Urgency = "standard"
	UrgencyUrgent   Urgency = "urgent"
)

// Urgencies lists the urgency choices in display order.
func Urgencies() []Urgency {
	return []Urgency{UrgencyStandard, UrgencyUrgent}
}

func (u Urgency) Label() string {
	switch u {
	case UrgencyStandard:
		return "Standard (1-2 weeks)"
	case UrgencyUrgent:
		return "Urgent (1-3 days)"
	default:
		return string(u)
	}
}

func (u Urgency) Valid() bool {
	return u == UrgencyStandard || u == UrgencyUrgent
}

// FormData is one consultation request.
type FormData struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Organization string  `json:"organization"`
	Service      Service `json:"service"`
	Urgency      Urgency `json:"urgency"`
	Message      string  `json:"message"`
}

// DefaultFormData returns the blank form.
func DefaultFormData() FormData {
	return FormData{
		Service: ServiceGeneral,
		Urgency: UrgencyStandard,
	}
}

// Get returns the raw value of field.
func (d FormData) Get(field Field) string {
	switch field {
	case FieldName:
		return d.Name
	case FieldEmail:
		return d.Email
	case FieldOrganization:
		return d.Organization
	case FieldService:
		return string(d.Service)
	case FieldUrgency:
		return string(d.Urgency)
	case FieldMessage:
		return d.Message
	}
	return ""
}

// Set assigns value to field. Enum fields only accept their choices.
func (d *FormData) Set(field Field, value string) error {
	switch field {
	case FieldName:
		d.Name = value
	case FieldEmail:
		d.Email = value
	case FieldOrganization:
		d.Organization = value
	case FieldService:
		svc := Service(value)
		if !svc.Valid() {
			return fmt.Errorf("%w: service %q", ErrInvalidChoice, value)
		}
		d.Service = svc
	case FieldUrgency:
		urg := Urgency(value)
		if !urg.Valid() {
			return fmt.Errorf("%w: urgency %q", ErrInvalidChoice, value)
		}
		d.Urgency = urg
	case FieldMessage:
		d.Message = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}
