package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/course-planner/internal/types"
)

func csRequirements() *types.RequirementSet {
	return &types.RequirementSet{
		Major:        "Computer Science",
		TotalCredits: 120,
		Required:     []string{"CS 400", "CS 540"},
		Electives:    []types.ElectiveCategory{{Name: "CS Electives", Subjects: []string{"CS"}, CreditsNeeded: 15}},
		Breadth:      []types.BreadthCategory{{Name: "Humanities", Subjects: []string{"HISTORY"}, Credits: 6}},
	}
}

func profile() *types.SkillProfile {
	return &types.SkillProfile{
		TechnicalSkills: []types.TechnicalSkill{
			{Skill: "Python", Importance: "high"},
			{Skill: "SQL", Importance: "high"},
			{Skill: "Machine Learning", Importance: "high"},
			{Skill: "Git", Importance: "low"},
		},
	}
}

func TestRequirementScore_HighestTierOnly(t *testing.T) {
	req := csRequirements()
	tests := []struct {
		name   string
		course types.Course
		want   float64
	}{
		{"required and elective subject", types.Course{ID: "CS 400", Subject: "CS"}, 30},
		{"elective subject", types.Course{ID: "CS 577", Subject: "CS"}, 20},
		{"breadth subject", types.Course{ID: "HISTORY 101", Subject: "HISTORY"}, 15},
		{"unrelated", types.Course{ID: "ART 100", Subject: "ART"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequirementScore(&tt.course, req))
		})
	}
	assert.Zero(t, RequirementScore(&types.Course{ID: "CS 400"}, nil))
}

func TestPrereqScore(t *testing.T) {
	completed := types.NewCourseSet("CS 300")

	assert.Equal(t, 10.0, PrereqScore(&types.Course{ID: "CS 200"}, completed))
	assert.Equal(t, 10.0, PrereqScore(&types.Course{Prerequisites: []string{"CS 300"}}, completed))
	assert.Equal(t, 0.0, PrereqScore(&types.Course{Prerequisites: []string{"CS 400", "MATH 221"}}, completed))
	assert.Equal(t, 5.0, PrereqScore(&types.Course{Prerequisites: []string{"CS 300", "MATH 221"}}, completed))
}

func TestPriorityScore(t *testing.T) {
	high := profile().HighImportanceSkills()

	assert.Equal(t, 5.0, PriorityScore(nil, high))
	assert.Equal(t, 5.0, PriorityScore([]string{}, high))
	assert.Equal(t, 0.0, PriorityScore([]string{"Git"}, high))
	assert.InDelta(t, 10.0/3, PriorityScore([]string{"Advanced Python"}, high), 1e-9)
	assert.InDelta(t, 20.0/3, PriorityScore([]string{"python", "Git", "SQL"}, high), 1e-9)
	assert.Equal(t, 10.0, PriorityScore([]string{"Python", "SQL", "Machine Learning", "Python scripting"}, high))
	assert.Equal(t, 0.0, PriorityScore([]string{"Git"}, nil))
}

func TestScore_SumsSubScores(t *testing.T) {
	matched := []types.MatchedCourse{
		{
			Course: types.Course{ID: "CS 540", Subject: "CS", Credits: 3, Prerequisites: []string{"CS 300"}},
			Match:  types.MatchResult{Relevance: 85, MatchedSkills: []string{"Python", "Machine Learning"}, Reasoning: "Core AI course"},
		},
		{
			Course: types.Course{ID: "HISTORY 101", Subject: "HISTORY", Credits: 3},
			Match:  types.MatchResult{Relevance: 13},
		},
		{
			Course: types.Course{ID: "ART 100", Subject: "ART", Credits: 3},
			Match:  types.FailedMatch(assert.AnError),
		},
	}

	scored := NewScorer().Score(matched, csRequirements(), types.NewCourseSet("CS 300"), profile())
	require.Len(t, scored, 3)

	for _, sc := range scored {
		s := sc.Scores
		assert.Equal(t, s.SkillMatch+s.Requirement+s.Prereq+s.Priority, s.Total, sc.ID)
		assert.GreaterOrEqual(t, s.SkillMatch, 0.0)
		assert.GreaterOrEqual(t, s.Priority, 0.0)
		assert.Contains(t, []float64{0, 15, 20, 30}, s.Requirement)
	}

	cs540 := scored[0]
	assert.Equal(t, 42.5, cs540.Scores.SkillMatch)
	assert.Equal(t, 30.0, cs540.Scores.Requirement)
	assert.Equal(t, 10.0, cs540.Scores.Prereq)
	assert.InDelta(t, 20.0/3, cs540.Scores.Priority, 1e-9)
	assert.Equal(t, "Core AI course", cs540.Reasoning)

	history := scored[1]
	assert.Equal(t, 6.5, history.Scores.SkillMatch)
	assert.Equal(t, 15.0, history.Scores.Requirement)
	assert.Equal(t, 5.0, history.Scores.Priority)
	assert.Equal(t, DefaultReasoning, history.Reasoning)
	assert.NotNil(t, history.MatchedSkills)

	failed := scored[2]
	assert.True(t, failed.Match.Failed)
	assert.Zero(t, failed.Scores.SkillMatch)
	assert.Equal(t, 15.0, failed.Scores.Total)
}

func TestRank_DescendingAndStable(t *testing.T) {
	scored := []types.ScoredCourse{
		{Course: types.Course{ID: "A"}, Scores: types.Scores{Total: 40}},
		{Course: types.Course{ID: "B"}, Scores: types.Scores{Total: 70}},
		{Course: types.Course{ID: "C"}, Scores: types.Scores{Total: 40}},
		{Course: types.Course{ID: "D"}, Scores: types.Scores{Total: 90}},
		{Course: types.Course{ID: "E"}, Scores: types.Scores{Total: 40}},
	}

	ranked := Rank(scored)
	ids := make([]string, len(ranked))
	for i, sc := range ranked {
		ids[i] = sc.ID
	}
	assert.Equal(t, []string{"D", "B", "A", "C", "E"}, ids)
}

func TestScoreAndRank_FailedMatchSinksBelowMatchedPeers(t *testing.T) {
	matched := []types.MatchedCourse{
		{Course: types.Course{ID: "CS 577", Subject: "CS"}, Match: types.FailedMatch(assert.AnError)},
		{Course: types.Course{ID: "CS 564", Subject: "CS"}, Match: types.MatchResult{Relevance: 60, MatchedSkills: []string{"SQL"}}},
	}

	ranked := NewScorer().ScoreAndRank(matched, csRequirements(), types.CourseSet{}, profile())
	require.Len(t, ranked, 2)
	assert.Equal(t, "CS 564", ranked[0].ID)
	assert.Equal(t, "CS 577", ranked[1].ID)
}
