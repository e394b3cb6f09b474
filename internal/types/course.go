// Package types provides type definitions for structured data used throughout the course-planner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "encoding/json"

// Course level tiers derived from the course number
const (
	LevelIntroductory = "introductory"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelGraduate     = "graduate"
)

// Course represents a single catalog course in its normalized shape
type Course struct {
	ID            string   `json:"code"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Credits       int      `json:"credits"`
	Prerequisites []string `json:"prerequisites"`
	Subject       string   `json:"subject"`
	Number        string   `json:"number"`
	Level         string   `json:"level"`
}

// HasPrerequisites reports whether the course lists any prerequisite identifiers
func (c *Course) HasPrerequisites() bool {
	return len(c.Prerequisites) > 0
}

// LevelForNumber classifies a numeric course level into its tier.
// Numbers that cannot be classified fall into the introductory tier.
func LevelForNumber(number int) string {
	switch {
	case number < 300:
		return LevelIntroductory
	case number < 500:
		return LevelIntermediate
	case number < 700:
		return LevelAdvanced
	default:
		return LevelGraduate
	}
}

// CompletedCourse identifies a course the student has already finished.
// Credits overrides the catalog credit count when non-zero.
type CompletedCourse struct {
	ID      string `json:"code"`
	Credits int    `json:"credits,omitempty"`
}

// UnmarshalJSON accepts either a course object or a bare course code string
func (c *CompletedCourse) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err == nil {
		*c = CompletedCourse{ID: code}
		return nil
	}

	type plain CompletedCourse
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = CompletedCourse(p)
	return nil
}

// CourseSet is a set of course identifiers
type CourseSet map[string]struct{}

// NewCourseSet builds a set from course identifiers
func NewCourseSet(ids ...string) CourseSet {
	set := make(CourseSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// CompletedSet builds the completed-course identifier set
func CompletedSet(completed []CompletedCourse) CourseSet {
	set := make(CourseSet, len(completed))
	for _, c := range completed {
		if c.ID != "" {
			set[c.ID] = struct{}{}
		}
	}
	return set
}

// Has reports whether id is in the set
func (s CourseSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set
func (s CourseSet) Add(id string) {
	s[id] = struct{}{}
}
