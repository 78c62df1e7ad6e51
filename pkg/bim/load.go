package bim

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/NikBel3476/evacuation-gui-iced/pkg/validation"
)

// ErrInvalidDocument is returned when a BIM file does not match the schema.
var ErrInvalidDocument = errors.New("invalid BIM document")

//go:embed schema.json
var schemaJSON []byte

var schemaValidator = sync.OnceValues(func() (*validation.SchemaValidator, error) {
	return validation.NewSchemaValidator(schemaJSON)
})

// Load reads and parses a BIM JSON file.
func Load(path string) (*Building, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading BIM file: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse checks data against the BIM schema and decodes it.
func Parse(data []byte) (*Building, error) {
	v, err := schemaValidator()
	if err != nil {
		return nil, err
	}
	report, err := v.Check(data)
	if err != nil {
		return nil, fmt.Errorf("parsing BIM JSON: %w", err)
	}
	if err := report.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	var b Building
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing BIM JSON: %w", err)
	}
	return &b, nil
}
