package apidoc

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// DraftSchema names the component schema describing a saved draft.
const DraftSchema = "Draft"

var (
	// ErrSchemaNotFound is returned when a component schema is missing.
	ErrSchemaNotFound = errors.New("apidoc: schema not found")
	// ErrSchemaViolation wraps payloads that do not satisfy a schema.
	ErrSchemaViolation = errors.New("apidoc: payload does not match schema")
)

//go:embed openapi.yaml
var rawDocument []byte

var (
	defaultOnce sync.Once
	defaultDoc  *Document
	defaultErr  error
)

// Raw returns a copy of the embedded YAML document.
func Raw() []byte {
	out := make([]byte, len(rawDocument))
	copy(out, rawDocument)
	return out
}

// Document is a loaded and validated OpenAPI description.
type Document struct {
	spec *openapi3.T
}

// Load parses and validates data as an OpenAPI 3 document.
func Load(ctx context.Context, data []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("apidoc: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("apidoc: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("apidoc: validate: %w", err)
	}
	return &Document{spec: spec}, nil
}

// Default returns the embedded document, loading it on first use.
func Default() (*Document, error) {
	defaultOnce.Do(func() {
		defaultDoc, defaultErr = Load(context.Background(), rawDocument)
	})
	return defaultDoc, defaultErr
}

// Paths lists the documented path templates, sorted.
func (d *Document) Paths() []string {
	if d == nil || d.spec == nil || d.spec.Paths == nil {
		return nil
	}
	paths := make([]string, 0, len(d.spec.Paths.Map()))
	for path := range d.spec.Paths.Map() {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// ValidateJSON checks a JSON payload against the named component schema.
func (d *Document) ValidateJSON(schema string, payload []byte) error {
	if d == nil || d.spec == nil || d.spec.Components == nil {
		return fmt.Errorf("%w: %s", ErrSchemaNotFound, schema)
	}
	ref := d.spec.Components.Schemas[schema]
	if ref == nil || ref.Value == nil {
		return fmt.Errorf("%w: %s", ErrSchemaNotFound, schema)
	}

	var value any
	if err := json.Unmarshal(payload, &value); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	if err := ref.Value.VisitJSON(value); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	return nil
}

// ValidateDraft checks payload against the Draft schema of the embedded
// document.
func ValidateDraft(payload []byte) error {
	doc, err := Default()
	if err != nil {
		return err
	}
	return doc.ValidateJSON(DraftSchema, payload)
}
