// Package pipeline orchestrates a recommendation run: load the catalog, match
// candidate courses against the skill profile, score and rank them, build the
// term timeline and summarize progress.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/course-planner/internal/catalog"
	"github.com/jonathan/course-planner/internal/db"
	"github.com/jonathan/course-planner/internal/logging"
	"github.com/jonathan/course-planner/internal/matching"
	"github.com/jonathan/course-planner/internal/metrics"
	"github.com/jonathan/course-planner/internal/progress"
	"github.com/jonathan/course-planner/internal/requirements"
	"github.com/jonathan/course-planner/internal/scheduling"
	"github.com/jonathan/course-planner/internal/scoring"
	"github.com/jonathan/course-planner/internal/types"
)

// Engine defaults
const (
	DefaultMaxCandidates = 100
	DefaultTopN          = 20
)

// Progress steps
const (
	StepCatalog   = "catalog"
	StepMatching  = "matching"
	StepScoring   = "scoring"
	StepSchedule  = "scheduling"
	StepProgress  = "progress"
	StepCompleted = "completed"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when run progress occurs
type ProgressCallback func(event ProgressEvent)

// CourseSource supplies the course catalog
type CourseSource interface {
	Courses(ctx context.Context) ([]types.Course, error)
}

// Store persists runs and their artifacts
type Store interface {
	CreateRun(ctx context.Context, careerField, major string) (uuid.UUID, error)
	SaveArtifact(ctx context.Context, runID uuid.UUID, step string, content any) error
	CompleteRun(ctx context.Context, runID uuid.UUID, status, errMessage string) error
}

// Options configures an Engine
type Options struct {
	// MaxCandidates bounds how many uncompleted courses are sent to the matcher
	MaxCandidates int
	// TopN is the number of ranked courses returned as recommendations
	TopN      int
	Batch     matching.BatchOptions
	Scheduler scheduling.Options
	// Now supplies the date the timeline starts from
	Now func() time.Time
}

// DefaultOptions returns the standard engine configuration
func DefaultOptions() Options {
	return Options{
		MaxCandidates: DefaultMaxCandidates,
		TopN:          DefaultTopN,
		Batch:         matching.DefaultBatchOptions(),
		Scheduler:     scheduling.DefaultOptions(),
		Now:           time.Now,
	}
}

// Engine runs recommendations. Its collaborators are read-only after
// construction, so one Engine serves concurrent requests.
type Engine struct {
	courses      CourseSource
	requirements *requirements.Catalog
	matcher      matching.Matcher
	store        Store

	scorer     *scoring.Scorer
	scheduler  *scheduling.Scheduler
	aggregator *progress.Aggregator
	opts       Options
}

// NewEngine creates an engine. Zero-valued options fall back to the defaults.
func NewEngine(courses CourseSource, reqs *requirements.Catalog, matcher matching.Matcher, opts Options) *Engine {
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = DefaultMaxCandidates
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	aggregator := progress.NewAggregator()
	aggregator.TopN = opts.TopN

	return &Engine{
		courses:      courses,
		requirements: reqs,
		matcher:      matcher,
		scorer:       scoring.NewScorer(),
		scheduler:    scheduling.NewScheduler(opts.Scheduler),
		aggregator:   aggregator,
		opts:         opts,
	}
}

// WithStore enables run persistence
func (e *Engine) WithStore(store Store) *Engine {
	e.store = store
	return e
}

// Requirements returns the engine's requirement catalog
func (e *Engine) Requirements() *requirements.Catalog {
	return e.requirements
}

// Run produces recommendations for req. Invalid requests fail with
// InvalidInputError before any matching; every other failure, including a
// panic in a stage, is returned as a single *Error.
func (e *Engine) Run(ctx context.Context, req *types.RecommendationRequest, onProgress ProgressCallback) (rec *types.Recommendation, err error) {
	start := time.Now()
	runID := uuid.Nil

	defer func() {
		if r := recover(); r != nil {
			rec, err = nil, &Error{Message: "unexpected failure", Cause: fmt.Errorf("panic: %v", r)}
		}
		var invalid *InvalidInputError
		if err != nil && !errors.As(err, &invalid) {
			logging.Error().Err(err).Str("career", careerField(req)).Msg("recommendation run failed")
		}
		terms := 0
		if rec != nil {
			terms = len(rec.Timeline)
		}
		metrics.RecordRecommendation(time.Since(start), terms, err)
		e.finishRun(runID, err)
	}()

	if err := validate(req); err != nil {
		return nil, err
	}

	runID = e.createRun(ctx, req)
	emit := func(step, message string, content any) {
		if onProgress != nil {
			onProgress(ProgressEvent{Step: step, Message: message, RunID: runIDString(runID), Content: content})
		}
	}

	courses, err := e.courses.Courses(ctx)
	if err != nil {
		return nil, &Error{Message: "failed to load course catalog", Cause: err}
	}
	completed := types.CompletedSet(req.CompletedCourses)
	candidates := catalog.Without(courses, completed)
	if len(candidates) > e.opts.MaxCandidates {
		candidates = candidates[:e.opts.MaxCandidates]
	}
	emit(StepCatalog, fmt.Sprintf("Matching %d of %d courses", len(candidates), len(courses)), nil)

	batch := e.opts.Batch
	batch.OnProgress = func(done, total int) {
		emit(StepMatching, fmt.Sprintf("Matched %d/%d courses", done, total), nil)
	}
	matched, err := matching.BatchMatch(ctx, e.matcher, candidates, req.SkillProfile, batch)
	if err != nil {
		return nil, &Error{Message: "course matching interrupted", Cause: err}
	}
	e.saveArtifact(ctx, runID, db.StepMatches, matched)

	rec = e.plan(req, matched, catalog.NewIndex(courses), emit)
	e.saveArtifact(ctx, runID, db.StepRecommendations, rec.Recommendations)
	e.saveArtifact(ctx, runID, db.StepTimeline, rec.Timeline)
	e.saveArtifact(ctx, runID, db.StepDegreeProgress, rec.DegreeProgress)
	e.saveArtifact(ctx, runID, db.StepSkillCoverage, rec.SkillCoverage)

	emit(StepCompleted, fmt.Sprintf("Planned %d courses over %d terms", rec.Timeline.CourseCount(), len(rec.Timeline)), nil)
	return rec, nil
}

// Plan scores, schedules and summarizes courses that were already matched,
// without calling the matcher. index supplies catalog credits for completed
// courses; it may be nil.
func (e *Engine) Plan(req *types.RecommendationRequest, matched []types.MatchedCourse, index catalog.Index) (rec *types.Recommendation, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec, err = nil, &Error{Message: "unexpected failure", Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := validate(req); err != nil {
		return nil, err
	}
	if index == nil {
		index = catalog.Index{}
	}
	return e.plan(req, matched, index, func(string, string, any) {}), nil
}

func (e *Engine) plan(req *types.RecommendationRequest, matched []types.MatchedCourse, index catalog.Index, emit func(step, message string, content any)) *types.Recommendation {
	major := req.MajorOrDefault()
	reqSet, found := e.requirements.Lookup(major)
	if !found {
		logging.Debug().Str("major", major).Msg("major not in requirement catalog, using defaults")
		reqSet = requirements.DefaultRequirements(major)
	}

	completed := types.CompletedSet(req.CompletedCourses)
	ranked := e.scorer.ScoreAndRank(matched, reqSet, completed, req.SkillProfile)
	emit(StepScoring, fmt.Sprintf("Ranked %d courses", len(ranked)), nil)

	creditsCompleted := CreditsCompleted(req, index)
	timeline := e.scheduler.Build(ranked, completed, creditsCompleted, reqSet.TotalCredits, scheduling.StartingTerm(e.opts.Now()))
	emit(StepSchedule, fmt.Sprintf("Scheduled %d terms", len(timeline)), nil)

	rec := &types.Recommendation{
		Recommendations: ranked[:min(e.opts.TopN, len(ranked))],
		Timeline:        timeline,
		DegreeProgress:  e.aggregator.DegreeProgress(completed, reqSet, creditsCompleted),
		SkillCoverage:   e.aggregator.SkillCoverage(ranked, req.SkillProfile),
	}
	emit(StepProgress, fmt.Sprintf("%.1f%% of skills covered", rec.SkillCoverage.CoveragePercent), nil)
	return rec
}

// CreditsCompleted returns the request's credit total, or, when it is zero,
// the sum of the completed courses' credits: the per-course override when set,
// otherwise the catalog credits.
func CreditsCompleted(req *types.RecommendationRequest, index catalog.Index) int {
	if req.TotalCreditsCompleted > 0 {
		return req.TotalCreditsCompleted
	}
	total := 0
	seen := make(types.CourseSet, len(req.CompletedCourses))
	for _, c := range req.CompletedCourses {
		if c.ID == "" || seen.Has(c.ID) {
			continue
		}
		seen.Add(c.ID)
		if c.Credits > 0 {
			total += c.Credits
		} else {
			total += index.Credits(c.ID)
		}
	}
	return total
}

func validate(req *types.RecommendationRequest) error {
	if req == nil {
		return &InvalidInputError{Message: "request is required"}
	}
	if err := req.Validate(); err != nil {
		return &InvalidInputError{Message: "career field and skill profile are required", Cause: err}
	}
	return nil
}

func (e *Engine) createRun(ctx context.Context, req *types.RecommendationRequest) uuid.UUID {
	if e.store == nil {
		return uuid.Nil
	}
	id, err := e.store.CreateRun(ctx, req.CareerField, req.MajorOrDefault())
	if err != nil {
		logging.Warn().Err(err).Msg("failed to create run record, continuing without persistence")
		return uuid.Nil
	}
	e.saveArtifact(ctx, id, db.StepRequest, req)
	return id
}

func (e *Engine) saveArtifact(ctx context.Context, runID uuid.UUID, step string, content any) {
	if e.store == nil || runID == uuid.Nil {
		return
	}
	if err := e.store.SaveArtifact(ctx, runID, step, content); err != nil {
		logging.Warn().Err(err).Str("run_id", runID.String()).Str("step", step).Msg("failed to save artifact")
	}
}

func (e *Engine) finishRun(runID uuid.UUID, runErr error) {
	if e.store == nil || runID == uuid.Nil {
		return
	}
	status, message := db.StatusCompleted, ""
	if runErr != nil {
		status, message = db.StatusFailed, runErr.Error()
	}
	// the request context may already be canceled
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.store.CompleteRun(ctx, runID, status, message); err != nil {
		logging.Warn().Err(err).Str("run_id", runID.String()).Msg("failed to complete run record")
	}
}

func runIDString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

func careerField(req *types.RecommendationRequest) string {
	if req == nil {
		return ""
	}
	return req.CareerField
}
