package db

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Artifact steps stored for a recommendation run
const (
	StepRequest         = "request"
	StepMatches         = "matches"
	StepRecommendations = "recommendations"
	StepTimeline        = "timeline"
	StepDegreeProgress  = "degree_progress"
	StepSkillCoverage   = "skill_coverage"
)

// Artifact categories group steps by pipeline stage
const (
	CategoryInput      = "input"
	CategoryMatching   = "matching"
	CategoryScoring    = "scoring"
	CategoryScheduling = "scheduling"
	CategoryProgress   = "progress"
)

// Run is a recommendation run record
type Run struct {
	ID           uuid.UUID  `json:"id"`
	CareerField  string     `json:"career_field"`
	Major        string     `json:"major"`
	Status       string     `json:"status"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// Artifact is a stored JSON artifact of a run
type Artifact struct {
	ID        uuid.UUID `json:"id"`
	RunID     uuid.UUID `json:"run_id"`
	Step      string    `json:"step"`
	Category  string    `json:"category"`
	Content   []byte    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ArtifactSummary is a lightweight view of an artifact for listing
type ArtifactSummary struct {
	ID        uuid.UUID `json:"id"`
	Step      string    `json:"step"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryForStep returns the category a step is stored under
func CategoryForStep(step string) string {
	switch step {
	case StepRequest:
		return CategoryInput
	case StepMatches:
		return CategoryMatching
	case StepRecommendations:
		return CategoryScoring
	case StepTimeline:
		return CategoryScheduling
	default:
		return CategoryProgress
	}
}
