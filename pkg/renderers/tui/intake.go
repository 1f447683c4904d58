// Package tui collects contact requests from a terminal. Every text field is
// checked with the same rules the site applies, re-prompting until the value
// passes, and the finished request is either serialized or submitted through
// a contact.Form.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/goliatone/go-equitysite/pkg/contact"
	"github.com/goliatone/go-equitysite/pkg/render"
)

var fieldLabels = map[contact.Field]string{
	contact.FieldName:         "Full Name",
	contact.FieldEmail:        "Email Address",
	contact.FieldOrganization: "Organization",
	contact.FieldService:      "Service Needed",
	contact.FieldUrgency:      "Timeline",
	contact.FieldMessage:      "Project Details",
}

// Intake drives the prompts. It also satisfies render.Renderer, where
// "rendering" a page means collecting a request pre-filled from the page's
// form data.
type Intake struct {
	driver       PromptDriver
	out          io.Writer
	outputFormat OutputFormat
	confirm      bool
	theme        Theme
}

var _ render.Renderer = (*Intake)(nil)

// New constructs an intake with defaults (survey driver, JSON output, final
// confirmation on).
func New(options ...Option) *Intake {
	i := &Intake{
		out:          os.Stdout,
		outputFormat: OutputFormatJSON,
		confirm:      true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(i)
	}
	if i.driver == nil {
		i.driver = newSurveyDriver(i.out)
	}
	return i
}

// Name reports the renderer identifier.
func (i *Intake) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (i *Intake) ContentType() string {
	switch i.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every field using the page's form data as defaults and
// serializes the result.
func (i *Intake) Render(ctx context.Context, page render.PageModel, _ render.RenderOptions) ([]byte, error) {
	data, err := i.Collect(ctx, page.Form.Data)
	if err != nil {
		return nil, err
	}
	return i.Serialize(data)
}

// Collect prompts for each field in display order.
func (i *Intake) Collect(ctx context.Context, defaults contact.FormData) (contact.FormData, error) {
	if ctx == nil {
		return contact.FormData{}, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return contact.FormData{}, err
	}

	data := defaults
	if !data.Service.Valid() {
		data.Service = contact.ServiceGeneral
	}
	if !data.Urgency.Valid() {
		data.Urgency = contact.UrgencyStandard
	}

	for _, field := range contact.Fields() {
		var (
			value string
			err   error
		)
		switch field {
		case contact.FieldService:
			value, err = i.promptService(ctx, data.Service)
		case contact.FieldUrgency:
			value, err = i.promptUrgency(ctx, data.Urgency)
		default:
			value, err = i.promptText(ctx, field, data.Get(field))
		}
		if err != nil {
			return contact.FormData{}, err
		}
		if err := data.Set(field, value); err != nil {
			return contact.FormData{}, fmt.Errorf("tui: %s: %w", field, err)
		}
	}

	if i.confirm {
		ok, err := i.driver.Confirm(ctx, ConfirmConfig{
			Message: "Send this consultation request?",
			Default: true,
		})
		if err != nil {
			return contact.FormData{}, err
		}
		if !ok {
			return contact.FormData{}, ErrDeclined
		}
	}
	return data, nil
}

// Submit collects a request pre-filled from form, applies it and submits.
// It returns the form snapshot after submission.
func (i *Intake) Submit(ctx context.Context, form *contact.Form) (contact.Snapshot, error) {
	data, err := i.Collect(ctx, form.Snapshot().Data)
	if err != nil {
		return contact.Snapshot{}, err
	}

	values := make(map[contact.Field]string, len(contact.Fields()))
	for _, field := range contact.Fields() {
		values[field] = data.Get(field)
	}
	if err := form.Apply(values); err != nil {
		return contact.Snapshot{}, fmt.Errorf("tui: apply: %w", err)
	}

	errs, err := form.Submit(ctx)
	if err != nil {
		return contact.Snapshot{}, err
	}
	for _, field := range errs.Fields() {
		i.info(ctx, i.theme.ErrorPrefix+errs[field])
	}
	snap := form.Snapshot()
	if snap.State == contact.StateSubmitted && snap.Last != nil {
		i.info(ctx, fmt.Sprintf("%sThank you! Reference %s", i.theme.InfoPrefix, snap.Last.ID))
	}
	return snap, nil
}

// Serialize encodes data in the configured output format.
func (i *Intake) Serialize(data contact.FormData) ([]byte, error) {
	switch i.outputFormat {
	case OutputFormatFormURLEncoded:
		values := url.Values{}
		for _, field := range contact.Fields() {
			values.Set(string(field), data.Get(field))
		}
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, field := range contact.Fields() {
			fmt.Fprintf(&b, "%s: %s\n", fieldLabels[field], displayValue(field, data))
		}
		return []byte(b.String()), nil
	default:
		return json.Marshal(data)
	}
}

func (i *Intake) promptText(ctx context.Context, field contact.Field, current string) (string, error) {
	label := fieldLabels[field]
	for {
		var (
			response string
			err      error
		)
		if field == contact.FieldMessage {
			response, err = i.driver.TextArea(ctx, TextAreaConfig{
				Message: label,
				Default: current,
				Help:    "Tell us about your project, goals, and any specific requirements.",
			})
		} else {
			response, err = i.driver.Input(ctx, InputConfig{
				Message: label,
				Default: current,
			})
		}
		if err != nil {
			return "", err
		}
		if msg := contact.ValidateField(field, response); msg != "" {
			i.info(ctx, i.theme.ErrorPrefix+msg)
			continue
		}
		return response, nil
	}
}

func (i *Intake) promptService(ctx context.Context, current contact.Service) (string, error) {
	services := contact.Services()
	options := make([]string, len(services))
	defaultIdx := -1
	for idx, svc := range services {
		options[idx] = svc.Label()
		if svc == current {
			defaultIdx = idx
		}
	}
	idx, err := i.selectIndex(ctx, contact.FieldService, options, defaultIdx)
	if err != nil {
		return "", err
	}
	return string(services[idx]), nil
}

func (i *Intake) promptUrgency(ctx context.Context, current contact.Urgency) (string, error) {
	urgencies := contact.Urgencies()
	options := make([]string, len(urgencies))
	defaultIdx := -1
	for idx, urg := range urgencies {
		options[idx] = urg.Label()
		if urg == current {
			defaultIdx = idx
		}
	}
	idx, err := i.selectIndex(ctx, contact.FieldUrgency, options, defaultIdx)
	if err != nil {
		return "", err
	}
	return string(urgencies[idx]), nil
}

func (i *Intake) selectIndex(ctx context.Context, field contact.Field, options []string, defaultIdx int) (int, error) {
	for {
		idx, err := i.driver.Select(ctx, SelectConfig{
			Message:      fieldLabels[field],
			Options:      options,
			DefaultIndex: defaultIdx,
		})
		if err != nil {
			return 0, err
		}
		if idx < 0 || idx >= len(options) {
			i.info(ctx, fmt.Sprintf("%sInvalid %s selection", i.theme.ErrorPrefix, field))
			continue
		}
		return idx, nil
	}
}

func (i *Intake) info(ctx context.Context, msg string) {
	_ = i.driver.Info(ctx, msg)
}

func displayValue(field contact.Field, data contact.FormData) string {
	switch field {
	case contact.FieldService:
		return data.Service.Label()
	case contact.FieldUrgency:
		return data.Urgency.Label()
	}
	return data.Get(field)
}
