package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaValidator checks raw JSON documents against a JSON Schema.
type SchemaValidator struct {
	schema *gojsonschema.Schema
}

// NewSchemaValidator compiles schemaData once for repeated use.
func NewSchemaValidator(schemaData []byte) (*SchemaValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaData))
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return &SchemaValidator{schema: schema}, nil
}

// Check validates a JSON document and reports every schema violation as a
// LevelSchema error. A document that is not JSON at all yields an error.
func (v *SchemaValidator) Check(document []byte) (*Report, error) {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validating document: %w", err)
	}

	r := NewReport()
	for _, desc := range result.Errors() {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     desc.Description(),
			Path:        desc.Field(),
			ActualValue: desc.Value(),
		})
	}
	return r, nil
}
