package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jonathan/course-planner/internal/logging"
	"github.com/jonathan/course-planner/internal/skills"
	"github.com/jonathan/course-planner/internal/types"
)

// rawJobSamples is how many collected postings are echoed back
const rawJobSamples = 3

// CareerRequest is the body of /api/career/analyze
type CareerRequest struct {
	CareerField string `json:"careerField"`
}

// CareerResponse is the skill profile extracted for a career field
type CareerResponse struct {
	CareerField string              `json:"careerField"`
	JobCount    int                 `json:"jobCount"`
	Skills      *types.SkillProfile `json:"skills"`
	RawJobs     []string            `json:"rawJobs"`
	Sample      bool                `json:"samplePostings"`
}

// handleCareerAnalyze collects postings for a career field and extracts the
// skill profile they share
func (s *Server) handleCareerAnalyze(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed to analyze career"

	var req CareerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, failed, &ErrValidation{Field: "body", Message: "Invalid request body: " + err.Error()})
		return
	}
	req.CareerField = strings.TrimSpace(req.CareerField)
	if req.CareerField == "" {
		s.errorResponse(w, failed, &ErrValidation{Field: "careerField", Message: "careerField is required"})
		return
	}
	if s.deps.LLM == nil {
		s.errorResponse(w, failed, &ErrUnavailable{Feature: "skill extraction"})
		return
	}

	logging.Info().Str("career", req.CareerField).Msg("analyzing career")

	collected, err := s.deps.Postings.Collect(r.Context(), req.CareerField)
	if err != nil {
		s.errorResponse(w, failed, err)
		return
	}

	profile, err := skills.ExtractProfile(r.Context(), s.deps.LLM, collected.Postings, req.CareerField)
	if err != nil {
		s.errorResponse(w, failed, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, CareerResponse{
		CareerField: req.CareerField,
		JobCount:    len(collected.Postings),
		Skills:      profile,
		RawJobs:     collected.Postings[:min(rawJobSamples, len(collected.Postings))],
		Sample:      collected.Sample,
	})
}
