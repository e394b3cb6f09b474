// Package progress summarizes degree completion and how well a ranked
// recommendation list covers the target skills.
package progress

import (
	"strings"

	"github.com/jonathan/course-planner/internal/types"
)

// DefaultTopN is the number of top ranked courses considered for skill coverage
const DefaultTopN = 20

// Aggregator computes progress summaries
type Aggregator struct {
	TopN int
}

// NewAggregator creates an aggregator using DefaultTopN
func NewAggregator() *Aggregator {
	return &Aggregator{TopN: DefaultTopN}
}

// DegreeProgress reports credits and required courses completed against req.
// The percentage is not clamped; completing more than the target reports over 100.
func (a *Aggregator) DegreeProgress(completed types.CourseSet, req *types.RequirementSet, creditsCompleted int) types.DegreeProgress {
	total := req.TotalCredits
	met := 0
	for _, id := range req.Required {
		if completed.Has(id) {
			met++
		}
	}

	var percent float64
	if total > 0 {
		percent = float64(creditsCompleted) / float64(total) * 100
	}

	return types.DegreeProgress{
		CreditsCompleted:     creditsCompleted,
		CreditsRemaining:     total - creditsCompleted,
		CreditsTotal:         total,
		PercentComplete:      percent,
		RequiredCoursesMet:   met,
		RequiredCoursesTotal: len(req.Required),
	}
}

// SkillCoverage reports which of the profile's technical skills are matched
// by the top ranked courses. Matching is case-insensitive on the full name.
// The percentage is capped at 100 and is 0 for a profile without technical skills.
func (a *Aggregator) SkillCoverage(ranked []types.ScoredCourse, profile *types.SkillProfile) types.SkillCoverage {
	topN := a.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	covered := make(map[string]struct{})
	for _, sc := range ranked[:min(topN, len(ranked))] {
		for _, skill := range sc.MatchedSkills {
			covered[strings.ToLower(skill)] = struct{}{}
		}
	}

	coverage := types.SkillCoverage{
		CoveredSkills:   len(covered),
		UncoveredSkills: []string{},
	}
	if profile == nil {
		return coverage
	}

	coverage.TotalSkills = len(profile.TechnicalSkills)
	for _, s := range profile.TechnicalSkills {
		if _, ok := covered[strings.ToLower(s.Skill)]; !ok {
			coverage.UncoveredSkills = append(coverage.UncoveredSkills, s.Skill)
		}
	}
	if coverage.TotalSkills > 0 {
		coverage.CoveragePercent = min(100, float64(len(covered))/float64(coverage.TotalSkills)*100)
	}
	return coverage
}
