// Package types provides type definitions for structured data used throughout the course-planner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "slices"

// RequirementSet describes the degree requirements of a single major
type RequirementSet struct {
	Major        string             `json:"major" yaml:"major"`
	TotalCredits int                `json:"total_credits" yaml:"total_credits"`
	Required     []string           `json:"required" yaml:"required"`
	Electives    []ElectiveCategory `json:"electives" yaml:"electives"`
	Breadth      []BreadthCategory  `json:"breadth" yaml:"breadth"`
}

// ElectiveCategory is a group of elective courses selected by subject
type ElectiveCategory struct {
	Name          string   `json:"name" yaml:"name"`
	Subjects      []string `json:"subjects" yaml:"subjects"`
	CreditsNeeded int      `json:"credits_needed" yaml:"credits_needed"`
	Level         string   `json:"level,omitempty" yaml:"level,omitempty"`
}

// BreadthCategory is a breadth requirement selected by subject
type BreadthCategory struct {
	Name     string   `json:"name" yaml:"name"`
	Subjects []string `json:"subjects" yaml:"subjects"`
	Credits  int      `json:"credits" yaml:"credits"`
}

// IsRequired reports whether the course identifier is on the required list
func (r *RequirementSet) IsRequired(id string) bool {
	return slices.Contains(r.Required, id)
}

// IsElectiveSubject reports whether any elective category accepts the subject
func (r *RequirementSet) IsElectiveSubject(subject string) bool {
	for _, cat := range r.Electives {
		if slices.Contains(cat.Subjects, subject) {
			return true
		}
	}
	return false
}

// IsBreadthSubject reports whether any breadth category accepts the subject
func (r *RequirementSet) IsBreadthSubject(subject string) bool {
	for _, cat := range r.Breadth {
		if slices.Contains(cat.Subjects, subject) {
			return true
		}
	}
	return false
}
