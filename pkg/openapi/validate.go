package openapi

import (
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// ValidateBody checks body against the JSON request schema of operation id.
// It only checks shape (types, enums, unknown properties); field rules such
// as "Email is invalid" stay with the contact form.
func (c *Contract) ValidateBody(id string, body []byte) error {
	op, ok := c.ops[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOperation, id)
	}
	schema := requestSchema(op)
	if schema == nil {
		return fmt.Errorf("%w: %q", ErrNoRequestBody, id)
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := schema.VisitJSON(value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// RequiredHeaders lists the header parameters operation id requires.
func (c *Contract) RequiredHeaders(id string) []string {
	op, ok := c.ops[id]
	if !ok {
		return nil
	}
	var out []string
	for _, ref := range op.Parameters {
		if ref == nil || ref.Value == nil {
			continue
		}
		if ref.Value.In == openapi3.ParameterInHeader && ref.Value.Required {
			out = append(out, ref.Value.Name)
		}
	}
	return out
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil {
		return nil
	}
	return media.Schema.Value
}
