// Package schemas validates structured LLM output against JSON Schemas.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed requirement_result.schema.json
var requirementResultSchema []byte

// ValidationError lists every schema violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single violation at a field path.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, " %d. %s: %s;", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// SchemaLoadError is returned when a schema or document cannot be loaded at all.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var (
	requirementOnce   sync.Once
	requirementSchema *gojsonschema.Schema
	requirementErr    error
)

// ValidateRequirementResult checks a classifier JSON object for the
// isCV/isTranscript/GPA fields and their types.
func ValidateRequirementResult(jsonContent string) error {
	requirementOnce.Do(func() {
		requirementSchema, requirementErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(requirementResultSchema))
	})
	if requirementErr != nil {
		return &SchemaLoadError{Path: "requirement_result.schema.json", Message: "invalid embedded schema", Cause: requirementErr}
	}

	result, err := requirementSchema.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return &SchemaLoadError{Path: "requirement_result.schema.json", Message: "document could not be loaded", Cause: err}
	}
	return toValidationError(result)
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}
