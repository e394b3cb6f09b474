package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSON_ValidJSON(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "valid_json.json")

	err := ValidateJSON(schemaPath, jsonPath)
	assert.NoError(t, err)
}

func TestValidateJSON_InvalidJSON_MissingField(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "invalid_json.json")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}

func TestValidateJSON_InvalidJSON_WrongType(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "type_mismatch.json")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	require.NotEmpty(t, validationErr.Errors)
	assert.Equal(t, "credits", validationErr.Errors[0].Field)
}

func TestValidateJSON_NonExistentFiles(t *testing.T) {
	err := ValidateJSON("testdata/nonexistent_schema.json", filepath.Join("testdata", "valid_json.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema file not found")

	err = ValidateJSON(filepath.Join("testdata", "valid_schema.json"), "testdata/nonexistent_json.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON file not found")
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	malformedJSON := filepath.Join(t.TempDir(), "malformed.json")
	require.NoError(t, os.WriteFile(malformedJSON, []byte("{ invalid json }"), 0644))

	err := ValidateJSON(filepath.Join("testdata", "valid_schema.json"), malformedJSON)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateBytes(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")

	assert.NoError(t, ValidateBytes(schemaPath, []byte(`{"code": "STAT 340", "credits": 4}`)))

	err := ValidateBytes(schemaPath, []byte(`{"code": "STAT 340", "credits": -1}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	err = ValidateBytes("testdata/missing.json", []byte(`{}`))
	assert.ErrorContains(t, err, "schema file not found")
}

func TestValidateJSON_RepositorySchemas(t *testing.T) {
	tests := []struct {
		name      string
		schema    string
		jsonFile  string
		wantError bool
	}{
		{name: "valid skill profile", schema: SkillProfile, jsonFile: "testdata/valid/skill_profile.json"},
		{name: "bad importance", schema: SkillProfile, jsonFile: "testdata/invalid/skill_profile_bad_importance.json", wantError: true},
		{name: "valid recommendation", schema: Recommendation, jsonFile: "testdata/valid/recommendation.json"},
		{name: "bad season", schema: Recommendation, jsonFile: "testdata/invalid/recommendation_bad_season.json", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schemaPath := ResolveSchemaPath(tt.schema)
			require.NotEmpty(t, schemaPath, "schema should resolve from the package directory")

			err := ValidateJSON(schemaPath, filepath.Join("..", "..", tt.jsonFile))
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			validationErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("error should be ValidationError, got %T: %v", err, err)
			}
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestResolveSchemaPath_Missing(t *testing.T) {
	assert.Empty(t, ResolveSchemaPath("schemas/does_not_exist.schema.json"))
}

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`

	err := ValidateJSONString(schemaContent, `{"name": "test"}`)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`

	err := ValidateJSONString(schemaContent, `{"age": 30}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "code", Message: "is required"},
			{Field: "credits", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "2 schema violation(s)")
	assert.Contains(t, errorMsg, "- code: is required")
	assert.Contains(t, errorMsg, "- credits: must be a number")
	assert.Equal(t, []string{"code", "credits"}, err.Fields())
}

func TestSchemaFor_CachesCompiledSchema(t *testing.T) {
	schemaPath := filepath.Join(t.TempDir(), "code.schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{"type": "object", "required": ["code"]}`), 0644))

	first, err := schemaFor(schemaPath)
	require.NoError(t, err)

	// the cached schema survives the file being replaced
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{"type": "array"}`), 0644))
	second, err := schemaFor(schemaPath)
	require.NoError(t, err)
	assert.Same(t, first, second)

	assert.NoError(t, ValidateBytes(schemaPath, []byte(`{"code": "CS 400"}`)))
}

func TestSchemaFor_InvalidSchema(t *testing.T) {
	schemaPath := filepath.Join(t.TempDir(), "broken.schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{"type": 12}`), 0644))

	err := ValidateBytes(schemaPath, []byte(`{}`))
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Error(), "invalid schema")
}

func TestValidateJSONString_NestedFieldValidation(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["term"],
		"properties": {
			"term": {
				"type": "object",
				"required": ["season"],
				"properties": {
					"season": {"type": "string"}
				}
			}
		}
	}`

	err := ValidateJSONString(schemaContent, `{"term": {}}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	require.NotEmpty(t, validationErr.Errors)
	assert.Equal(t, "term", validationErr.Errors[0].Field)
}
