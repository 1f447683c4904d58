package openapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var rawDocument []byte

// Operation IDs used by the server.
const (
	OpHealth        = "health"
	OpGetNav        = "getNav"
	OpGetState      = "getState"
	OpSubmitContact = "submitContact"
	OpEndSession    = "endSession"
)

var (
	// ErrUnknownOperation is returned for operation ids the document lacks.
	ErrUnknownOperation = errors.New("openapi: unknown operation")
	// ErrNoRequestBody is returned when validating a body for an operation
	// that does not accept one.
	ErrNoRequestBody = errors.New("openapi: operation has no json request body")
	// ErrInvalidRequest wraps structural request failures.
	ErrInvalidRequest = errors.New("openapi: invalid request")
)

// Operation is the subset of operation metadata callers need.
type Operation struct {
	ID        string
	Method    string
	Path      string
	Summary   string
	Responses []string
}

// HasResponse reports whether code is a documented response.
func (op Operation) HasResponse(code string) bool {
	for _, c := range op.Responses {
		if c == code {
			return true
		}
	}
	return false
}

// Contract is a loaded and validated document.
type Contract struct {
	doc *openapi3.T
	ops map[string]*openapi3.Operation
	idx map[string]Operation
}

var (
	defaultOnce     sync.Once
	defaultContract *Contract
	defaultErr      error
)

// Default loads the embedded document once.
func Default() (*Contract, error) {
	defaultOnce.Do(func() {
		defaultContract, defaultErr = Load(context.Background(), rawDocument)
	})
	return defaultContract, defaultErr
}

// Raw returns a copy of the embedded YAML document.
func Raw() []byte {
	return append([]byte(nil), rawDocument...)
}

// Load parses and validates raw (YAML or JSON).
func Load(ctx context.Context, raw []byte) (*Contract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("openapi: document does not contain any paths")
	}

	c := &Contract{
		doc: doc,
		ops: make(map[string]*openapi3.Operation),
		idx: make(map[string]Operation),
	}
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			c.collect(method, path, op)
		}
	}
	if len(c.ops) == 0 {
		return nil, errors.New("openapi: no operations extracted")
	}
	return c, nil
}

func (c *Contract) collect(method, path string, op *openapi3.Operation) {
	if op == nil {
		return
	}
	id := op.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}

	var codes []string
	if op.Responses != nil {
		for code := range op.Responses.Map() {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)

	c.ops[id] = op
	c.idx[id] = Operation{
		ID:        id,
		Method:    strings.ToUpper(method),
		Path:      path,
		Summary:   op.Summary,
		Responses: codes,
	}
}

// Operations returns every operation keyed by id.
func (c *Contract) Operations() map[string]Operation {
	out := make(map[string]Operation, len(c.idx))
	for id, op := range c.idx {
		op.Responses = append([]string(nil), op.Responses...)
		out[id] = op
	}
	return out
}

// Operation looks up one operation.
func (c *Contract) Operation(id string) (Operation, bool) {
	op, ok := c.idx[id]
	return op, ok
}

// Version returns the document's info.version.
func (c *Contract) Version() string {
	if c.doc.Info == nil {
		return ""
	}
	return c.doc.Info.Version
}

// JSON renders the document as JSON, as served at /openapi.json.
func (c *Contract) JSON() ([]byte, error) {
	out, err := json.Marshal(c.doc)
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal: %w", err)
	}
	return out, nil
}
