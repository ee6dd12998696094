// Package openapischema adapts an OpenAPI 3 schema object into a
// form.Resolver using kin-openapi. Values are validated as JSON, so numbers
// are compared as float64 and times as their JSON string form.
package openapischema

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/form"
)

// Resolver validates values against a schema.
type Resolver struct {
	schema *openapi3.Schema
}

var _ form.Resolver = (*Resolver)(nil)

// New wraps an already loaded schema.
func New(schema *openapi3.Schema) (*Resolver, error) {
	if schema == nil {
		return nil, errors.New("openapischema: schema is nil")
	}
	return &Resolver{schema: schema}, nil
}

// FromJSON parses a schema object encoded as JSON.
func FromJSON(raw []byte) (*Resolver, error) {
	schema := &openapi3.Schema{}
	if err := json.Unmarshal(raw, schema); err != nil {
		return nil, fmt.Errorf("openapischema: decode schema: %w", err)
	}
	return New(schema)
}

// FromYAML parses a schema object encoded as YAML (JSON documents are valid
// YAML as well).
func FromYAML(raw []byte) (*Resolver, error) {
	doc, err := form.LoadDefaults(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("openapischema: decode schema: %w", err)
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("openapischema: encode schema: %w", err)
	}
	return FromJSON(encoded)
}

// FromDocument loads a full OpenAPI document and picks the named component
// schema.
func FromDocument(ctx context.Context, raw []byte, name string) (*Resolver, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapischema: load document: %w", err)
	}
	if doc.Components == nil {
		return nil, fmt.Errorf("openapischema: document has no components")
	}
	ref, ok := doc.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapischema: schema %q not found", name)
	}
	return New(ref.Value)
}

// Resolve validates a JSON copy of values and reports every schema error
// under its dotted path. Errors without a location land under
// form.RootErrorKey.
func (r *Resolver) Resolve(ctx context.Context, values form.Values) (form.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if values == nil {
		values = form.Values{}
	}
	doc, err := toJSON(values)
	if err != nil {
		return nil, fmt.Errorf("openapischema: normalise values: %w", err)
	}

	verr := r.schema.VisitJSON(doc, openapi3.MultiErrors())
	if verr == nil {
		return form.Accept(values), nil
	}

	errs := form.FieldErrors{}
	collect(verr, errs)
	if len(errs) == 0 {
		return nil, fmt.Errorf("openapischema: validate: %w", verr)
	}
	return form.Reject(errs), nil
}

func collect(err error, dest form.FieldErrors) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, inner := range multi {
			collect(inner, dest)
		}
		return
	}

	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		return
	}
	key := strings.Join(schemaErr.JSONPointer(), ".")
	if key == "" {
		key = form.RootErrorKey
	}
	if _, exists := dest[key]; exists {
		return
	}
	message := strings.TrimSpace(schemaErr.Reason)
	if message == "" {
		message = schemaErr.Error()
	}
	dest[key] = message
}

func toJSON(values form.Values) (any, error) {
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
