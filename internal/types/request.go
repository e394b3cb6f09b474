// Package types provides type definitions for structured data used throughout the course-planner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// DefaultMajor is used when a request does not declare a major
const DefaultMajor = "Computer Science"

// RecommendationRequest is the input of a recommendation run
type RecommendationRequest struct {
	CareerField           string            `json:"careerField" validate:"required"`
	SkillProfile          *SkillProfile     `json:"extractedSkills" validate:"required"`
	CompletedCourses      []CompletedCourse `json:"completedCourses"`
	Major                 string            `json:"major,omitempty"`
	TotalCreditsCompleted int               `json:"totalCreditsCompleted,omitempty" validate:"gte=0"`
}

// Validate validates the RecommendationRequest using the validator.
func (r *RecommendationRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// MajorOrDefault returns the declared major, or DefaultMajor when none is set
func (r *RecommendationRequest) MajorOrDefault() string {
	if r.Major == "" {
		return DefaultMajor
	}
	return r.Major
}
