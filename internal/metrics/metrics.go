// Package metrics defines the Prometheus instrumentation of the planner:
// oracle calls, catalog loads, recommendation runs and the HTTP API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Catalog load sources
const (
	SourceMemory   = "memory"
	SourceFile     = "file"
	SourceRemote   = "remote"
	SourceFallback = "fallback"
)

var (
	OracleCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "course_planner_oracle_calls_total",
			Help: "Skill matcher calls by outcome",
		},
		[]string{"outcome"},
	)

	OracleCallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "course_planner_oracle_call_duration_seconds",
			Help:    "Duration of a single skill matcher call",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	OracleBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "course_planner_oracle_breaker_state",
			Help: "Circuit breaker state around the oracle (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CatalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "course_planner_catalog_loads_total",
			Help: "Course catalog loads by source",
		},
		[]string{"source"},
	)

	CatalogCourses = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "course_planner_catalog_courses",
			Help: "Number of courses in the loaded catalog",
		},
	)

	RecommendationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "course_planner_recommendation_runs_total",
			Help: "Recommendation runs by outcome",
		},
		[]string{"outcome"},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "course_planner_recommendation_duration_seconds",
			Help:    "End-to-end duration of a recommendation run",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	TimelineTerms = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "course_planner_timeline_terms",
			Help:    "Number of terms in generated timelines",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 6, 7, 8},
		},
	)

	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "course_planner_api_requests_total",
			Help: "HTTP API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "course_planner_api_request_duration_seconds",
			Help:    "HTTP API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// RecordOracleCall records one skill matcher call
func RecordOracleCall(duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	OracleCalls.WithLabelValues(outcome).Inc()
	OracleCallDuration.Observe(duration.Seconds())
}

// RecordCatalogLoad records where a catalog load was served from and its size
func RecordCatalogLoad(source string, courses int) {
	CatalogLoads.WithLabelValues(source).Inc()
	CatalogCourses.Set(float64(courses))
}

// RecordRecommendation records a finished recommendation run
func RecordRecommendation(duration time.Duration, terms int, err error) {
	if err != nil {
		RecommendationRuns.WithLabelValues("error").Inc()
		return
	}
	RecommendationRuns.WithLabelValues("success").Inc()
	RecommendationDuration.Observe(duration.Seconds())
	TimelineTerms.Observe(float64(terms))
}

// RecordAPIRequest records one HTTP request
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequests.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// SetBreakerState publishes a circuit breaker state
func SetBreakerState(name string, state int) {
	OracleBreakerState.WithLabelValues(name).Set(float64(state))
}
