// Package types provides type definitions for structured data used throughout the course-planner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// MatchResult is the skill matcher's judgment of a single course
type MatchResult struct {
	Relevance      float64  `json:"relevance_score"`
	MatchedSkills  []string `json:"matched_skills"`
	MatchedDomains []string `json:"matched_domains"`
	Reasoning      string   `json:"reasoning,omitempty"`
	UniqueValue    string   `json:"unique_value,omitempty"`
	// Failed marks a result produced in place of a failed or timed-out oracle call
	Failed bool   `json:"error,omitempty"`
	Error  string `json:"error_message,omitempty"`
}

// FailedMatch returns the baseline result recorded when the oracle call for a course fails
func FailedMatch(err error) MatchResult {
	result := MatchResult{Failed: true}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// MatchedCourse pairs a course with its match result for one recommendation run
type MatchedCourse struct {
	Course
	Match MatchResult `json:"match_result"`
}
