package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/course-planner/internal/transcript"
)

// MaxTranscriptBytes bounds transcript uploads
const MaxTranscriptBytes = 5 << 20

// TranscriptResponse is returned by both transcript endpoints
type TranscriptResponse struct {
	Success      bool                `json:"success"`
	CoursesFound int                 `json:"coursesFound"`
	Courses      []transcript.Course `json:"courses"`
}

// ManualCoursesRequest is the body of /api/transcript/parse-manual
type ManualCoursesRequest struct {
	CourseText string `json:"courseText"`
}

// handleTranscriptUpload parses a text transcript sent as the multipart
// field "transcript" or as a plain request body
func (s *Server) handleTranscriptUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxTranscriptBytes)

	text, err := readTranscript(r)
	if err != nil {
		s.errorResponse(w, "Failed to parse transcript", err)
		return
	}

	courses, err := transcript.ParseText(text)
	if err != nil {
		s.errorResponse(w, "Failed to parse transcript", err)
		return
	}
	s.transcriptResponse(w, courses)
}

// handleTranscriptManual parses a pasted list of course codes
func (s *Server) handleTranscriptManual(w http.ResponseWriter, r *http.Request) {
	var req ManualCoursesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, "Failed to parse course list", &ErrValidation{Field: "body", Message: "Invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.CourseText) == "" {
		s.errorResponse(w, "Failed to parse course list", &ErrValidation{Field: "courseText", Message: "courseText is required"})
		return
	}

	courses, err := transcript.ParseManual(req.CourseText)
	if err != nil {
		s.errorResponse(w, "Failed to parse course list", err)
		return
	}
	s.transcriptResponse(w, courses)
}

func (s *Server) transcriptResponse(w http.ResponseWriter, courses []transcript.Course) {
	if courses == nil {
		courses = []transcript.Course{}
	}
	s.jsonResponse(w, http.StatusOK, TranscriptResponse{
		Success:      true,
		CoursesFound: len(courses),
		Courses:      courses,
	})
}

func readTranscript(r *http.Request) (string, error) {
	var data []byte
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("transcript")
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				return "", &ErrValidation{Field: "transcript", Message: "No file uploaded"}
			}
			return "", uploadError(err)
		}
		defer file.Close()
		if data, err = io.ReadAll(file); err != nil {
			return "", uploadError(err)
		}
	} else {
		var err error
		if data, err = io.ReadAll(r.Body); err != nil {
			return "", uploadError(err)
		}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return "", &ErrValidation{Field: "transcript", Message: "No file uploaded"}
	}
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return "", &ErrValidation{Field: "transcript", Message: "PDF transcripts are not supported, upload the transcript as text"}
	}
	if ct := http.DetectContentType(data); !strings.HasPrefix(ct, "text/") {
		return "", &ErrValidation{Field: "transcript", Message: "transcript must be a text file, got " + ct}
	}
	return string(data), nil
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &ErrValidation{Field: "transcript", Message: "transcript exceeds the 5MB limit"}
	}
	return &ErrValidation{Field: "transcript", Message: "failed to read upload: " + err.Error()}
}
