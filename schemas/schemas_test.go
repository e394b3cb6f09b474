package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/course-planner/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schemaFiles = []string{
	"skill_profile.schema.json",
	"requirement_catalog.schema.json",
	"transcript.schema.json",
	"recommendation.schema.json",
}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(".", schemaFile))
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]any
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON: %s", schemaFile)

			assert.Equal(t, "http://json-schema.org/draft-07/schema#", schemaObj["$schema"])
			assert.Equal(t, "object", schemaObj["type"])
		})
	}
}

func TestSchemas_ValidateFixtures(t *testing.T) {
	tests := []struct {
		schema  string
		valid   string
		invalid string
	}{
		{schema: "skill_profile.schema.json", valid: "skill_profile.json", invalid: "skill_profile_bad_importance.json"},
		{schema: "requirement_catalog.schema.json", valid: "requirement_catalog.json", invalid: "requirement_catalog_zero_credits.json"},
		{schema: "transcript.schema.json", valid: "transcript.json", invalid: "transcript_bad_code.json"},
		{schema: "recommendation.schema.json", valid: "recommendation.json", invalid: "recommendation_bad_season.json"},
	}

	for _, tt := range tests {
		t.Run(tt.schema, func(t *testing.T) {
			err := schemas.ValidateJSON(tt.schema, filepath.Join("..", "testdata", "valid", tt.valid))
			assert.NoError(t, err)

			err = schemas.ValidateJSON(tt.schema, filepath.Join("..", "testdata", "invalid", tt.invalid))
			var validationErr *schemas.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestBuiltinMajors_MatchCatalogSchema(t *testing.T) {
	err := schemas.ValidateJSON("requirement_catalog.schema.json", filepath.Join("..", "internal", "requirements", "majors.json"))
	assert.NoError(t, err)
}
