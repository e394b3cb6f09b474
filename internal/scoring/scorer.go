// Package scoring rates matched courses on four weighted dimensions and ranks them.
//
// A course's total is the sum of:
//   - skill match: half the oracle relevance (0-50)
//   - requirement: 30 required, 20 elective subject, 15 breadth subject, else 0
//   - prerequisite: 10 times the fraction of prerequisites already completed
//   - priority: 10 per three matched high-importance skills, capped at 10
package scoring

import (
	"sort"
	"strings"

	"github.com/jonathan/course-planner/internal/types"
)

// Score weights
const (
	SkillMatchWeight = 0.5

	RequiredScore = 30.0
	ElectiveScore = 20.0
	BreadthScore  = 15.0

	MaxPrereqScore = 10.0

	MaxPriorityScore = 10.0
	// NeutralPriorityScore is given when the oracle reported no matched skills
	NeutralPriorityScore = 5.0
	// highMatchesForFullPriority is the number of high-importance matches worth the full priority score
	highMatchesForFullPriority = 3.0
)

// DefaultReasoning is the rationale shown when the oracle gave none
const DefaultReasoning = "Relevant to your career goals"

// Scorer scores courses for one major and skill profile. It holds no state
// between calls and is safe for concurrent use.
type Scorer struct{}

// NewScorer creates a scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score computes the weighted scores of every matched course, preserving input order
func (s *Scorer) Score(matched []types.MatchedCourse, req *types.RequirementSet, completed types.CourseSet, profile *types.SkillProfile) []types.ScoredCourse {
	highSkills := profile.HighImportanceSkills()

	scored := make([]types.ScoredCourse, 0, len(matched))
	for _, mc := range matched {
		scores := types.Scores{
			SkillMatch:  SkillMatchScore(mc.Match.Relevance),
			Requirement: RequirementScore(&mc.Course, req),
			Prereq:      PrereqScore(&mc.Course, completed),
			Priority:    PriorityScore(mc.Match.MatchedSkills, highSkills),
		}
		scores.Total = scores.SkillMatch + scores.Requirement + scores.Prereq + scores.Priority

		reasoning := mc.Match.Reasoning
		if reasoning == "" {
			reasoning = DefaultReasoning
		}
		matchedSkills := mc.Match.MatchedSkills
		if matchedSkills == nil {
			matchedSkills = []string{}
		}

		scored = append(scored, types.ScoredCourse{
			Course:        mc.Course,
			Match:         mc.Match,
			Scores:        scores,
			Reasoning:     reasoning,
			MatchedSkills: matchedSkills,
			UniqueValue:   mc.Match.UniqueValue,
		})
	}
	return scored
}

// ScoreAndRank scores matched courses and returns them best first
func (s *Scorer) ScoreAndRank(matched []types.MatchedCourse, req *types.RequirementSet, completed types.CourseSet, profile *types.SkillProfile) []types.ScoredCourse {
	return Rank(s.Score(matched, req, completed, profile))
}

// Rank sorts scored courses by total, highest first. Equal totals keep their input order.
func Rank(scored []types.ScoredCourse) []types.ScoredCourse {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Scores.Total > scored[j].Scores.Total
	})
	return scored
}

// SkillMatchScore converts an oracle relevance (0-100) into the skill match sub-score
func SkillMatchScore(relevance float64) float64 {
	if relevance < 0 {
		return 0
	}
	return relevance * SkillMatchWeight
}

// RequirementScore returns the highest requirement tier the course satisfies.
// Tiers are not additive.
func RequirementScore(course *types.Course, req *types.RequirementSet) float64 {
	if req == nil {
		return 0
	}
	switch {
	case req.IsRequired(course.ID):
		return RequiredScore
	case req.IsElectiveSubject(course.Subject):
		return ElectiveScore
	case req.IsBreadthSubject(course.Subject):
		return BreadthScore
	default:
		return 0
	}
}

// PrereqScore is the completed fraction of the course's prerequisites scaled
// to 10. A course without prerequisites is immediately available and scores 10.
func PrereqScore(course *types.Course, completed types.CourseSet) float64 {
	if !course.HasPrerequisites() {
		return MaxPrereqScore
	}
	met := 0
	for _, p := range course.Prerequisites {
		if completed.Has(p) {
			met++
		}
	}
	return MaxPrereqScore * float64(met) / float64(len(course.Prerequisites))
}

// PriorityScore rewards matched skills that contain a high-importance skill
// name (lower-cased, as returned by SkillProfile.HighImportanceSkills). No
// matched skills at all scores the neutral midpoint.
func PriorityScore(matchedSkills []string, highSkills []string) float64 {
	if len(matchedSkills) == 0 {
		return NeutralPriorityScore
	}

	highMatched := 0
	for _, ms := range matchedSkills {
		lower := strings.ToLower(ms)
		for _, hs := range highSkills {
			if hs != "" && strings.Contains(lower, hs) {
				highMatched++
				break
			}
		}
	}
	return MaxPriorityScore * min(1, float64(highMatched)/highMatchesForFullPriority)
}
