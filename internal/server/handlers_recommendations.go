package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/course-planner/internal/logging"
	"github.com/jonathan/course-planner/internal/pipeline"
	"github.com/jonathan/course-planner/internal/types"
)

const generateFailed = "Failed to generate recommendations"

// handleGenerate runs the recommendation pipeline and returns the result bundle
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRecommendationRequest(r)
	if err != nil {
		s.errorResponse(w, generateFailed, err)
		return
	}

	logging.Info().Str("career", req.CareerField).Str("major", req.MajorOrDefault()).Msg("generating recommendations")

	rec, err := s.deps.Engine.Run(r.Context(), req, nil)
	if err != nil {
		s.errorResponse(w, generateFailed, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleGenerateStream runs the pipeline and streams its progress via SSE,
// ending with a result event and a complete event
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRecommendationRequest(r)
	if err != nil {
		s.errorResponse(w, generateFailed, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	stop := sse.KeepAlive(r.Context(), sseKeepAlive)
	defer stop()

	var runID string
	rec, err := s.deps.Engine.Run(r.Context(), req, func(event pipeline.ProgressEvent) {
		runID = event.RunID
		if werr := sse.WriteEvent(EventProgress, event); werr != nil {
			logging.Debug().Err(werr).Msg("failed to write progress event")
		}
	})
	if err != nil {
		sse.WriteError(err.Error())
		sse.WriteComplete(runID, "failed")
		return
	}

	if err := sse.WriteEvent(EventResult, rec); err != nil {
		logging.Warn().Err(err).Str("run_id", runID).Msg("failed to write result event")
		sse.WriteError("failed to encode recommendation: " + err.Error())
		sse.WriteComplete(runID, "failed")
		return
	}
	sse.WriteComplete(runID, "completed")
}

func decodeRecommendationRequest(r *http.Request) (*types.RecommendationRequest, error) {
	var req types.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "Invalid request body: " + err.Error()}
	}
	return &req, nil
}
