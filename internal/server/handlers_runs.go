package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/course-planner/internal/db"
	"github.com/jonathan/course-planner/internal/types"
)

// Run listing bounds
const (
	defaultRunLimit = 20
	maxRunLimit     = 100
)

// RunResponse is a stored run with its result bundle, when it has one
type RunResponse struct {
	Run            *db.Run               `json:"run"`
	Recommendation *types.Recommendation `json:"recommendation,omitempty"`
}

// handleListRuns returns the most recent runs
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.errorResponse(w, "Failed to list runs", &ErrValidation{Field: "limit", Message: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxRunLimit)
	}

	runs, err := s.deps.Runs.ListRuns(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, "Failed to list runs", err)
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"count": len(runs), "runs": runs})
}

// handleGetRun returns a run and its stored recommendation
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.runID(w, r)
	if !ok {
		return
	}

	run, err := s.deps.Runs.GetRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, "Failed to fetch run", err)
		return
	}
	if run == nil {
		s.jsonResponse(w, http.StatusNotFound, map[string]string{"error": "Run not found"})
		return
	}

	rec, err := s.deps.Runs.GetRecommendationByRunID(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, "Failed to fetch run", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, RunResponse{Run: run, Recommendation: rec})
}

// handleRunArtifacts lists the artifacts stored for a run
func (s *Server) handleRunArtifacts(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.runID(w, r)
	if !ok {
		return
	}

	artifacts, err := s.deps.Runs.ListArtifacts(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, "Failed to list artifacts", err)
		return
	}
	if artifacts == nil {
		artifacts = []db.ArtifactSummary{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"run_id": runID, "artifacts": artifacts})
}

func (s *Server) runID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, "Invalid run ID", &ErrValidation{Field: "id", Message: "Invalid run ID format"})
		return uuid.Nil, false
	}
	return id, true
}
