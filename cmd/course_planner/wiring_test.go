package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/course-planner/internal/config"
	"github.com/jonathan/course-planner/internal/schemas"
	"github.com/jonathan/course-planner/internal/types"
)

func TestRateLimitConfig(t *testing.T) {
	rl := rateLimitConfig(config.RateLimitConfig{
		Enabled:       true,
		DefaultLimit:  50,
		DefaultWindow: 2 * time.Minute,
		Whitelist:     []string{"10.0.0.1", ""},
		Blacklist:     []string{"192.168.1.1"},
	})

	assert.True(t, rl.Enabled)
	assert.Equal(t, 50, rl.DefaultLimit)
	assert.Equal(t, 2*time.Minute, rl.DefaultWindow)
	assert.Equal(t, map[string]bool{"10.0.0.1": true}, rl.Whitelist)
	assert.Equal(t, map[string]bool{"192.168.1.1": true}, rl.Blacklist)
	assert.NotEmpty(t, rl.EndpointConfigs)
}

func TestRateLimitConfig_ZeroValuesKeepDefaults(t *testing.T) {
	rl := rateLimitConfig(config.RateLimitConfig{})

	assert.False(t, rl.Enabled)
	assert.Greater(t, rl.DefaultLimit, 0)
	assert.Greater(t, rl.DefaultWindow, time.Duration(0))
	assert.Empty(t, rl.Whitelist)
}

func TestEngineOptions(t *testing.T) {
	cfg := config.Default()
	cfg.CreditCap = 12
	cfg.MaxTerms = 4
	cfg.StrictTermOrdering = true
	cfg.BatchSize = 3
	cfg.BatchPauseMS = 250
	cfg.TopN = 7

	opts := engineOptions(cfg)

	assert.Equal(t, 12, opts.Scheduler.CreditCap)
	assert.Equal(t, 4, opts.Scheduler.MaxTerms)
	assert.True(t, opts.Scheduler.StrictTermOrdering)
	assert.Equal(t, 3, opts.Batch.BatchSize)
	assert.Equal(t, 250*time.Millisecond, opts.Batch.Pause)
	assert.Equal(t, 7, opts.TopN)
	assert.Equal(t, config.DefaultMaxCandidates, opts.MaxCandidates)
	assert.NotNil(t, opts.Now)
}

func TestBreakerSettings(t *testing.T) {
	cfg := config.Default()
	cfg.BreakerFailures = 2
	assert.Equal(t, uint32(2), breakerSettings(cfg).ConsecutiveFailures)

	cfg.BreakerFailures = 0
	assert.NotZero(t, breakerSettings(cfg).ConsecutiveFailures)
}

func TestPlanFlags_CompletedCourses(t *testing.T) {
	transcriptPath := filepath.Join(t.TempDir(), "transcript.txt")
	require.NoError(t, os.WriteFile(transcriptPath, []byte("MATH 221   Calculus I   5.00   A\n"), 0644))

	f := planFlags{
		completed:  []string{"cs 200", " ", "CS 300"},
		transcript: transcriptPath,
	}

	completed, err := f.completedCourses()
	require.NoError(t, err)
	assert.Equal(t, []types.CompletedCourse{
		{ID: "CS 200"},
		{ID: "CS 300"},
		{ID: "MATH 221", Credits: 5},
	}, completed)
}

func TestPlanFlags_CompletedCourses_MissingTranscript(t *testing.T) {
	f := planFlags{transcript: filepath.Join(t.TempDir(), "missing.txt")}

	_, err := f.completedCourses()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read transcript")
}

func TestPlanFlags_Request(t *testing.T) {
	f := planFlags{completed: []string{"CS 200"}, creditsCompleted: 30}
	cfg := config.Default()
	cfg.Major = "Data Science"
	profile := &types.SkillProfile{}

	req, err := f.request(cfg, "Data Scientist", profile)
	require.NoError(t, err)
	assert.Equal(t, "Data Scientist", req.CareerField)
	assert.Equal(t, "Data Science", req.Major)
	assert.Equal(t, 30, req.TotalCreditsCompleted)
	assert.Same(t, profile, req.SkillProfile)
	assert.Len(t, req.CompletedCourses, 1)
}

func TestPlanFlags_LoadConfig_FlagsOverride(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var f planFlags
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--credit-cap", "9", "--major", "Business"}))

	cfg, err := f.loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.CreditCap)
	assert.Equal(t, "Business", cfg.Major)
	assert.Equal(t, config.DefaultMaxTerms, cfg.MaxTerms)
}

func TestWriteReadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	profile := types.SkillProfile{
		TechnicalSkills:  []types.TechnicalSkill{{Skill: "Python", Frequency: 3, Importance: types.ImportanceHigh}},
		SoftSkills:       []types.WeightedSkill{{Skill: "Communication", Frequency: 2}},
		KnowledgeDomains: []types.KnowledgeDomain{{Domain: "Statistics", Frequency: 2}},
	}

	require.NoError(t, writeJSON(path, schemas.SkillProfile, profile))

	var got types.SkillProfile
	require.NoError(t, readJSON(path, schemas.SkillProfile, "skill profile", &got))
	assert.Equal(t, profile, got)
}

func TestWriteJSON_RejectsInvalidOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	profile := types.SkillProfile{
		TechnicalSkills:  []types.TechnicalSkill{{Skill: "Python", Frequency: 3, Importance: "critical"}},
		SoftSkills:       []types.WeightedSkill{},
		KnowledgeDomains: []types.KnowledgeDomain{},
	}

	err := writeJSON(path, schemas.SkillProfile, profile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not validate against schema")
	assert.NoFileExists(t, path)
}

func TestReadJSON_Errors(t *testing.T) {
	dir := t.TempDir()
	var v []types.MatchedCourse

	err := readJSON(filepath.Join(dir, "missing.json"), "", "matched courses", &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read matched courses")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0644))
	err = readJSON(bad, "", "matched courses", &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse matched courses")
}

func TestCheckSchema(t *testing.T) {
	assert.NoError(t, checkSchema(nil, "output"))

	err := checkSchema(&schemas.ValidationError{Errors: []schemas.FieldError{{Field: "code", Message: "is required"}}}, "output")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output does not validate against schema")

	assert.NoError(t, checkSchema(&schemas.SchemaLoadError{Path: "missing.json", Message: "not found"}, "output"))
	assert.NoError(t, checkSchema(errors.New("unexpected"), "output"))
}

func TestResolveSchema_EmptyDisablesValidation(t *testing.T) {
	assert.Empty(t, resolveSchema(""))
}
