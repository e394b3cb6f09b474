package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/course-planner/internal/logging"
	"github.com/jonathan/course-planner/internal/pipeline"
	"github.com/jonathan/course-planner/internal/skills"
	"github.com/jonathan/course-planner/internal/transcript"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// ErrUnavailable indicates a feature whose backing service is not configured
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return e.Feature + " is not configured on this server"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation  *ErrValidation
		invalid     *pipeline.InvalidInputError
		parse       *transcript.ParseError
		unavailable *ErrUnavailable
		extraction  *skills.ExtractionError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &invalid), errors.As(err, &parse):
		return http.StatusBadRequest
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &extraction):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse writes {"error": detail} for bad requests and
// {"error": summary, "message": detail} for everything else
func (s *Server) errorResponse(w http.ResponseWriter, summary string, err error) {
	status := HTTPStatus(err)
	if status == http.StatusBadRequest {
		s.jsonResponse(w, status, map[string]string{"error": err.Error()})
		return
	}
	if status >= http.StatusInternalServerError {
		logging.Error().Err(err).Int("status", status).Msg(summary)
	}
	s.jsonResponse(w, status, map[string]string{"error": summary, "message": err.Error()})
}
