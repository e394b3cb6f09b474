package server

import (
	"net/http"

	"github.com/jonathan/course-planner/internal/catalog"
)

// handleListCourses returns the catalog, filtered by the subject, level and
// search query parameters
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	courses, err := s.deps.Catalog.Search(r.Context(), catalog.Criteria{
		Subject: q.Get("subject"),
		Level:   q.Get("level"),
		Text:    q.Get("search"),
	})
	if err != nil {
		s.errorResponse(w, "Failed to fetch courses", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"count":   len(courses),
		"courses": courses,
	})
}

// handleSubjects returns the distinct catalog subjects
func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.deps.Catalog.Subjects(r.Context())
	if err != nil {
		s.errorResponse(w, "Failed to fetch subjects", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"subjects": subjects})
}

// handleMajors returns the majors with known degree requirements
func (s *Server) handleMajors(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"majors": s.deps.Requirements.Majors()})
}

// handleRequirements returns a major's requirement set; unknown majors get
// the default requirements
func (s *Server) handleRequirements(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.deps.Requirements.Get(r.PathValue("major")))
}
