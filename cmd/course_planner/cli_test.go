package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/course-planner/internal/types"
)

// envWithout returns the current environment minus the named variables
func envWithout(names ...string) []string {
	var env []string
	for _, kv := range os.Environ() {
		drop := false
		for _, name := range names {
			if strings.HasPrefix(kv, name+"=") {
				drop = true
				break
			}
		}
		if !drop {
			env = append(env, kv)
		}
	}
	return env
}

func TestCommands_FlagsValidation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errorString string
	}{
		{name: "recommend without --career", args: []string{"recommend"}, errorString: "required flag(s) \"career\" not set"},
		{name: "schedule without inputs", args: []string{"schedule", "--career", "Data Scientist"}, errorString: "required flag(s)"},
		{name: "extract-skills without --career", args: []string{"extract-skills"}, errorString: "required flag(s) \"career\" not set"},
		{name: "parse-transcript without --in", args: []string{"parse-transcript"}, errorString: "required flag(s) \"in\" not set"},
		{name: "majors with two arguments", args: []string{"majors", "a", "b"}, errorString: "accepts at most 1 arg"},
	}

	binaryPath := getBinaryPath(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := exec.Command(binaryPath, tt.args...).CombinedOutput()
			assert.Error(t, err)
			assert.Contains(t, string(output), tt.errorString)
		})
	}
}

func TestRecommendCommand_MissingAPIKey(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "recommend", "--career", "Data Scientist", "--skills", filepath.Join("..", "..", "testdata", "valid", "skill_profile.json"))
	cmd.Env = envWithout("GEMINI_API_KEY")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "GEMINI_API_KEY")
}

func TestMajorsCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "majors").Output()
	require.NoError(t, err)
	assert.Contains(t, string(output), "Computer Science")
	assert.Contains(t, string(output), "Data Science")

	output, err = exec.Command(binaryPath, "majors", "Computer Science").Output()
	require.NoError(t, err)
	var set types.RequirementSet
	require.NoError(t, json.Unmarshal(output, &set))
	assert.Equal(t, 120, set.TotalCredits)
	assert.Contains(t, set.Required, "CS 400")
}

func TestParseTranscriptCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)

	dir := t.TempDir()
	in := filepath.Join(dir, "transcript.txt")
	out := filepath.Join(dir, "courses.json")
	content := "CS 300   Programming II   3.00   A\nMATH 221   Calculus I   5.00   B\nHIST 101   World History   3.00   F\n"
	require.NoError(t, os.WriteFile(in, []byte(content), 0644))

	output, err := exec.Command(binaryPath, "parse-transcript", "--in", in, "--out", out).CombinedOutput()
	require.NoError(t, err, string(output))
	assert.Contains(t, string(output), "Found 2 courses")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var result struct {
		CoursesFound int `json:"coursesFound"`
		Courses      []struct {
			Code string `json:"code"`
		} `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, 2, result.CoursesFound)
	assert.Equal(t, "CS 300", result.Courses[0].Code)
	assert.Equal(t, "MATH 221", result.Courses[1].Code)
}

func TestScheduleCommand_Offline(t *testing.T) {
	binaryPath := getBinaryPath(t)

	dir := t.TempDir()
	matched := []types.MatchedCourse{
		{
			Course: types.Course{ID: "CS 400", Title: "Programming III", Credits: 3, Prerequisites: []string{"CS 300"}, Subject: "CS", Number: "400", Level: types.LevelIntermediate},
			Match:  types.MatchResult{Relevance: 80, MatchedSkills: []string{"Python"}},
		},
		{
			Course: types.Course{ID: "CS 540", Title: "Intro to AI", Credits: 3, Prerequisites: []string{"CS 400"}, Subject: "CS", Number: "540", Level: types.LevelAdvanced},
			Match:  types.MatchResult{Relevance: 90, MatchedSkills: []string{"Machine Learning"}},
		},
	}
	data, err := json.Marshal(matched)
	require.NoError(t, err)
	matchedPath := filepath.Join(dir, "matched.json")
	require.NoError(t, os.WriteFile(matchedPath, data, 0644))

	out := filepath.Join(dir, "plan.json")
	output, err := exec.Command(binaryPath, "schedule",
		"--career", "Data Scientist",
		"--skills", filepath.Join("..", "..", "testdata", "valid", "skill_profile.json"),
		"--matched", matchedPath,
		"--completed", "CS 300",
		"--out", out,
	).CombinedOutput()
	require.NoError(t, err, string(output))

	planData, err := os.ReadFile(out)
	require.NoError(t, err)
	var rec types.Recommendation
	require.NoError(t, json.Unmarshal(planData, &rec))

	require.Len(t, rec.Recommendations, 2)
	assert.Equal(t, 2, rec.Timeline.CourseCount())
	// CS 540 needs CS 400, which is placed first in the same term
	require.NotEmpty(t, rec.Timeline)
	assert.Equal(t, "CS 400", rec.Timeline[0].Courses[0].ID)
}
