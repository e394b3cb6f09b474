// Package server provides the HTTP REST API for the course planner.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/course-planner/internal/catalog"
	"github.com/jonathan/course-planner/internal/db"
	"github.com/jonathan/course-planner/internal/llm"
	"github.com/jonathan/course-planner/internal/logging"
	"github.com/jonathan/course-planner/internal/metrics"
	"github.com/jonathan/course-planner/internal/pipeline"
	"github.com/jonathan/course-planner/internal/postings"
	"github.com/jonathan/course-planner/internal/requirements"
	"github.com/jonathan/course-planner/internal/server/ratelimit"
	"github.com/jonathan/course-planner/internal/types"
)

// HealthMessage is reported by GET /health
const HealthMessage = "UW Course Recommender API is running"

// Recommender runs the recommendation pipeline
type Recommender interface {
	Run(ctx context.Context, req *types.RecommendationRequest, onProgress pipeline.ProgressCallback) (*types.Recommendation, error)
}

// CourseCatalog serves catalog searches
type CourseCatalog interface {
	Search(ctx context.Context, criteria catalog.Criteria) ([]types.Course, error)
	Subjects(ctx context.Context) ([]string, error)
}

// PostingCollector gathers job postings for a career field
type PostingCollector interface {
	Collect(ctx context.Context, careerField string) (*postings.Result, error)
}

// RunStore reads persisted recommendation runs
type RunStore interface {
	GetRun(ctx context.Context, runID uuid.UUID) (*db.Run, error)
	ListRuns(ctx context.Context, limit int) ([]db.Run, error)
	ListArtifacts(ctx context.Context, runID uuid.UUID) ([]db.ArtifactSummary, error)
	GetRecommendationByRunID(ctx context.Context, runID uuid.UUID) (*types.Recommendation, error)
}

// Deps are the components the server routes to. LLM and Runs are optional:
// without LLM career analysis answers 503, without Runs the run endpoints
// are not registered.
type Deps struct {
	Engine       Recommender
	Catalog      CourseCatalog
	Requirements *requirements.Catalog
	Postings     PostingCollector
	LLM          llm.Client
	Runs         RunStore
}

// Config holds server configuration
type Config struct {
	Port      int
	RateLimit *ratelimit.Config
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	deps        Deps
	rateLimiter *ratelimit.Limiter
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Engine == nil || deps.Catalog == nil || deps.Requirements == nil {
		return nil, fmt.Errorf("server requires an engine, a course catalog and a requirement catalog")
	}
	if deps.Postings == nil {
		deps.Postings = postings.NewCollector(postings.DefaultOptions())
	}

	s := &Server{
		deps:        deps,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/recommendations/generate", s.handleGenerate)
	mux.HandleFunc("POST /api/recommendations/stream", s.handleGenerateStream)

	mux.HandleFunc("GET /api/courses", s.handleListCourses)
	mux.HandleFunc("GET /api/courses/subjects", s.handleSubjects)
	mux.HandleFunc("GET /api/courses/majors", s.handleMajors)
	mux.HandleFunc("GET /api/courses/majors/{major}/requirements", s.handleRequirements)

	mux.HandleFunc("POST /api/transcript/upload", s.handleTranscriptUpload)
	mux.HandleFunc("POST /api/transcript/parse-manual", s.handleTranscriptManual)

	mux.HandleFunc("POST /api/career/analyze", s.handleCareerAnalyze)

	if deps.Runs != nil {
		mux.HandleFunc("GET /api/runs", s.handleListRuns)
		mux.HandleFunc("GET /api/runs/{id}", s.handleGetRun)
		mux.HandleFunc("GET /api/runs/{id}/artifacts", s.handleRunArtifacts)
	}

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // oracle-backed runs take minutes
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped request handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	}
	logging.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	logging.Info().Msg("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their per-endpoint budget
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging and metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps streaming responses working through the recorder
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withLogging logs each request and records its metrics
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		endpoint := r.Pattern
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordAPIRequest(r.Method, endpoint, rec.status, elapsed)
		logging.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", elapsed).
			Str("remote", r.RemoteAddr).
			Msg("request completed")
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok", "message": HealthMessage})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		logging.Warn().Err(err).Msg("failed to encode JSON response")
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// clientID identifies the caller by the IP of RemoteAddr
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 with the limiter state
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	logging.Warn().
		Str("client", clientID(r)).
		Str("path", r.URL.Path).
		Int("limit", info.Limit).
		Msg("rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
