// Package types provides type definitions for structured data used throughout the course-planner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// Scores holds the four weighted sub-scores of a course and their sum
type Scores struct {
	Total       float64 `json:"total"`
	SkillMatch  float64 `json:"skillMatch"`
	Requirement float64 `json:"requirement"`
	Prereq      float64 `json:"prereq"`
	Priority    float64 `json:"priority"`
}

// ScoredCourse is a course with its match result and weighted scores for one run
type ScoredCourse struct {
	Course
	Match         MatchResult `json:"match_result"`
	Scores        Scores      `json:"scores"`
	Reasoning     string      `json:"reasoning"`
	MatchedSkills []string    `json:"matchedSkills"`
	UniqueValue   string      `json:"uniqueValue"`
}

// Season is an academic term season
type Season string

// Supported seasons; terms alternate between them
const (
	Fall   Season = "Fall"
	Spring Season = "Spring"
)

// TermStart identifies a season and year
type TermStart struct {
	Season Season `json:"season"`
	Year   int    `json:"year"`
}

// Next returns the term that follows t. Fall of one year is followed by
// Spring of the next; Spring is followed by Fall of the same year.
func (t TermStart) Next() TermStart {
	if t.Season == Fall {
		return TermStart{Season: Spring, Year: t.Year + 1}
	}
	return TermStart{Season: Fall, Year: t.Year}
}

// String renders the term as "Fall 2026"
func (t TermStart) String() string {
	return fmt.Sprintf("%s %d", t.Season, t.Year)
}

// Term is one scheduled period in a timeline
type Term struct {
	Season       Season         `json:"season"`
	Year         int            `json:"year"`
	Courses      []ScoredCourse `json:"courses"`
	TotalCredits int            `json:"totalCredits"`
}

// Timeline is the ordered sequence of scheduled terms
type Timeline []Term

// CourseCount returns the number of courses placed across all terms
func (t Timeline) CourseCount() int {
	count := 0
	for _, term := range t {
		count += len(term.Courses)
	}
	return count
}

// DegreeProgress summarizes credit and required-course completion
type DegreeProgress struct {
	CreditsCompleted     int     `json:"creditsCompleted"`
	CreditsRemaining     int     `json:"creditsRemaining"`
	CreditsTotal         int     `json:"creditsTotal"`
	PercentComplete      float64 `json:"percentComplete"`
	RequiredCoursesMet   int     `json:"requiredCoursesMet"`
	RequiredCoursesTotal int     `json:"requiredCoursesTotal"`
}

// SkillCoverage summarizes how well the top recommendations cover the target skills
type SkillCoverage struct {
	TotalSkills     int      `json:"totalSkills"`
	CoveredSkills   int      `json:"coveredSkills"`
	CoveragePercent float64  `json:"coveragePercent"`
	UncoveredSkills []string `json:"uncoveredSkills"`
}

// Recommendation is the result bundle of one recommendation run
type Recommendation struct {
	Recommendations []ScoredCourse `json:"recommendations"`
	Timeline        Timeline       `json:"timeline"`
	DegreeProgress  DegreeProgress `json:"degreeProgress"`
	SkillCoverage   SkillCoverage  `json:"skillCoverage"`
}
