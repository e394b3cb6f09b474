package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/course-planner/internal/types"
)

func TestNormalize_Aliases(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want types.Course
	}{
		{
			name: "canonical fields",
			raw: map[string]any{
				"code": "CS 564", "title": "Database Management Systems", "description": "Query languages",
				"credits": 4.0, "prerequisites": []any{"CS 400"}, "subject": "CS", "number": "564", "level": "advanced",
			},
			want: types.Course{
				ID: "CS 564", Title: "Database Management Systems", Description: "Query languages",
				Credits: 4, Prerequisites: []string{"CS 400"}, Subject: "CS", Number: "564", Level: "advanced",
			},
		},
		{
			name: "alternate names",
			raw: map[string]any{
				"courseCode": "STAT 340", "name": "Data Science Modeling I", "desc": "Modeling",
				"credit": 3.0, "prereqs": []any{"MATH 221", "CS 220"}, "department": "STAT", "courseNumber": "340",
			},
			want: types.Course{
				ID: "STAT 340", Title: "Data Science Modeling I", Description: "Modeling",
				Credits: 3, Prerequisites: []string{"MATH 221", "CS 220"}, Subject: "STAT", Number: "340", Level: "intermediate",
			},
		},
		{
			name: "code built from subject and numeric number",
			raw:  map[string]any{"subject": "ECE", "number": 532.0, "title": "Matrix Methods"},
			want: types.Course{
				ID: "ECE 532", Title: "Matrix Methods", Credits: DefaultCredits,
				Prerequisites: []string{}, Subject: "ECE", Number: "532", Level: "advanced",
			},
		},
		{
			name: "subject and number derived from code",
			raw:  map[string]any{"code": "COMP SCI 760", "credits": "1-3"},
			want: types.Course{
				ID: "COMP SCI 760", Credits: 3, Prerequisites: []string{},
				Subject: "COMP SCI", Number: "760", Level: "graduate",
			},
		},
		{
			name: "comma separated prerequisites and zero credits",
			raw:  map[string]any{"code": "CS 577", "credits": 0.0, "prerequisites": "CS 400, MATH 240"},
			want: types.Course{
				ID: "CS 577", Credits: DefaultCredits, Prerequisites: []string{"CS 400", "MATH 240"},
				Subject: "CS", Number: "577", Level: "advanced",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_NoIdentifier(t *testing.T) {
	_, ok := Normalize(map[string]any{"title": "Orphan"})
	assert.False(t, ok)

	_, ok = Normalize(map[string]any{"subject": "CS"})
	assert.False(t, ok)
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, "introductory", LevelFor("200"))
	assert.Equal(t, "intermediate", LevelFor("340H"))
	assert.Equal(t, "advanced", LevelFor("699"))
	assert.Equal(t, "graduate", LevelFor("900"))
	assert.Equal(t, "", LevelFor("TBD"))
}

func TestSplitCode(t *testing.T) {
	subject, number := SplitCode("COMP SCI 540")
	assert.Equal(t, "COMP SCI", subject)
	assert.Equal(t, "540", number)

	subject, number = SplitCode("MATH-221")
	assert.Equal(t, "MATH", subject)
	assert.Equal(t, "221", number)

	subject, number = SplitCode("SEMINAR")
	assert.Empty(t, subject)
	assert.Empty(t, number)
}

func TestParseFeed_Array(t *testing.T) {
	data := `[
		{"code": "CS 400", "title": "Programming III", "prerequisites": ["CS 300"]},
		{"title": "no code"},
		{"code": "CS 400", "title": "duplicate"},
		{"code": "CS 540", "title": "Intro to AI"}
	]`

	courses, err := ParseFeed([]byte(data))
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "CS 400", courses[0].ID)
	assert.Equal(t, "Programming III", courses[0].Title)
	assert.Equal(t, "CS 540", courses[1].ID)
}

func TestParseFeed_ObjectOfArraysKeepsDocumentOrder(t *testing.T) {
	data := `{
		"version": 3,
		"STAT": [{"code": "STAT 340"}],
		"CS": [{"code": "CS 564"}, {"code": "CS 400"}],
		"meta": {"generated": "2026-01-01"}
	}`

	courses, err := ParseFeed([]byte(data))
	require.NoError(t, err)

	ids := make([]string, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"STAT 340", "CS 564", "CS 400"}, ids)
}

func TestParseFeed_Invalid(t *testing.T) {
	_, err := ParseFeed([]byte("   "))
	assert.Error(t, err)

	_, err = ParseFeed([]byte(`"just a string"`))
	assert.Error(t, err)

	_, err = ParseFeed([]byte(`[{"code": `))
	assert.Error(t, err)
}

func TestSampleCourses(t *testing.T) {
	courses := SampleCourses()
	require.Len(t, courses, 5)
	assert.Equal(t, "CS 400", courses[0].ID)
	assert.Equal(t, []string{"CS 400", "MATH 340"}, courses[1].Prerequisites)

	courses[1].Prerequisites[0] = "MUTATED"
	assert.Equal(t, "CS 400", SampleCourses()[1].Prerequisites[0])
}
