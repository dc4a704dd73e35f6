package config

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

var (
	compiledSchema *gojsonschema.Schema
	schemaOnce     sync.Once
	schemaErr      error
)

// ValidationError lists every schema violation found in a document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration does not match schema: %s", strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrConfigurationMalformed
}

// Validate checks that every required section and field is present.
// It does not check cross-field consistency.
func Validate(doc *Document) error {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	})
	if schemaErr != nil {
		return fmt.Errorf("failed to compile configuration schema: %w", schemaErr)
	}

	result, err := compiledSchema.Validate(gojsonschema.NewGoLoader(doc.Data()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigurationMalformed, err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
	}
	return &ValidationError{Problems: problems}
}

// LoadValidated loads the document and validates it against the schema.
// Used at startup, where both failures are fatal.
func (s *Store) LoadValidated() (*Document, error) {
	doc, err := s.Load()
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
