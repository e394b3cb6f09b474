// Package schemas provides JSON Schema validation for the planner's JSON
// artifacts: skill profiles, requirement catalogs, transcripts and
// recommendation results.
package schemas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Schema files under the repository's schemas directory
const (
	SkillProfile       = "schemas/skill_profile.schema.json"
	RequirementCatalog = "schemas/requirement_catalog.schema.json"
	Transcript         = "schemas/transcript.schema.json"
	Recommendation     = "schemas/recommendation.schema.json"
)

// maxParentLevels is how far above the working directory schemas are searched
const maxParentLevels = 2

// ResolveSchemaPath finds a schema file relative to the working directory or
// one of its parents, so commands and tests running from nested directories
// still find it. Returns "" if none exists.
func ResolveSchemaPath(relativePath string) string {
	candidate := relativePath
	for range maxParentLevels + 1 {
		if absPath, err := filepath.Abs(candidate); err == nil {
			if _, err := os.Stat(absPath); err == nil {
				return absPath
			}
		}
		candidate = filepath.Join("..", candidate)
	}
	return ""
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	lines := make([]string, 0, len(ve.Errors)+1)
	lines = append(lines, fmt.Sprintf("%d schema violation(s):", len(ve.Errors)))
	for _, e := range ve.Errors {
		lines = append(lines, fmt.Sprintf("  - %s: %s", e.Field, e.Message))
	}
	return strings.Join(lines, "\n")
}

// Fields returns the paths of the violating fields in order
func (ve *ValidationError) Fields() []string {
	fields := make([]string, len(ve.Errors))
	for i, e := range ve.Errors {
		fields[i] = e.Field
	}
	return fields
}

// SchemaLoadError represents errors loading or parsing the schema itself
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

// compiled caches parsed schemas by absolute path
var compiled sync.Map

// schemaFor returns the compiled schema at schemaPath, loading it on first use
func schemaFor(schemaPath string) (*gojsonschema.Schema, error) {
	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schema path: %w", err)
	}
	if cached, ok := compiled.Load(absPath); ok {
		return cached.(*gojsonschema.Schema), nil
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("schema file not found: %s", absPath)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewReferenceLoader("file://" + absPath))
	if err != nil {
		return nil, &SchemaLoadError{Path: absPath, Message: "invalid schema", Cause: err}
	}
	compiled.Store(absPath, schema)
	return schema, nil
}

// ValidateJSON validates a JSON file against a JSON Schema file
func ValidateJSON(schemaPath, jsonPath string) error {
	schema, err := schemaFor(schemaPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(jsonPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("JSON file not found: %s", jsonPath)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", jsonPath, err)
	}
	return check(schemaPath, schema, gojsonschema.NewBytesLoader(data))
}

// ValidateBytes validates an in-memory JSON document against a schema file
func ValidateBytes(schemaPath string, data []byte) error {
	schema, err := schemaFor(schemaPath)
	if err != nil {
		return err
	}
	return check(schemaPath, schema, gojsonschema.NewBytesLoader(data))
}

// ValidateJSONString validates JSON content against schema content. The
// schema is compiled on every call.
func ValidateJSONString(schemaContent, jsonContent string) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaContent))
	if err != nil {
		return &SchemaLoadError{Path: "(string schema)", Message: "invalid schema", Cause: err}
	}
	return check("(string schema)", schema, gojsonschema.NewStringLoader(jsonContent))
}

// check validates a document. A document that cannot be decoded is reported
// as a SchemaLoadError, field violations as a ValidationError.
func check(schemaName string, schema *gojsonschema.Schema, document gojsonschema.JSONLoader) error {
	result, err := schema.Validate(document)
	if err != nil {
		return &SchemaLoadError{Path: schemaName, Message: "document could not be loaded", Cause: err}
	}
	if result.Valid() {
		return nil
	}

	violations := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		violations = append(violations, FieldError{Field: field, Message: desc.Description()})
	}
	return &ValidationError{Errors: violations}
}
