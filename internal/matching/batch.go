package matching

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/course-planner/internal/logging"
	"github.com/jonathan/course-planner/internal/metrics"
	"github.com/jonathan/course-planner/internal/types"
)

// Batch defaults
const (
	DefaultBatchSize   = 5
	DefaultBatchPause  = time.Second
	DefaultCallTimeout = 30 * time.Second
)

// BatchOptions controls how BatchMatch fans out oracle calls
type BatchOptions struct {
	// BatchSize is the number of concurrent calls per group
	BatchSize int
	// Pause is the wait between groups
	Pause time.Duration
	// CallTimeout bounds each call; zero disables the bound
	CallTimeout time.Duration
	// OnProgress, if set, is called after each group with the number of courses matched so far
	OnProgress func(done, total int)
}

// DefaultBatchOptions returns groups of five with a one second pause
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		BatchSize:   DefaultBatchSize,
		Pause:       DefaultBatchPause,
		CallTimeout: DefaultCallTimeout,
	}
}

// BatchMatch matches every course against profile, BatchSize calls at a time.
// The result has one entry per course in input order. A failed, timed-out
// or panicking call yields a zero-relevance result carrying the error marker
// instead of failing the batch. Only cancellation of ctx is returned as an error.
func BatchMatch(ctx context.Context, m Matcher, courses []types.Course, profile *types.SkillProfile, opts BatchOptions) ([]types.MatchedCourse, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}

	results := make([]types.MatchedCourse, len(courses))
	for start := 0; start < len(courses); start += opts.BatchSize {
		if start > 0 && opts.Pause > 0 {
			if err := sleep(ctx, opts.Pause); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(start+opts.BatchSize, len(courses))

		g, gCtx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = types.MatchedCourse{
					Course: courses[i],
					Match:  matchOne(gCtx, m, courses[i], profile, opts.CallTimeout),
				}
				return nil
			})
		}
		// matchOne never fails; a failed call becomes a zero-relevance result
		_ = g.Wait()

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if opts.OnProgress != nil {
			opts.OnProgress(end, len(courses))
		}
	}

	return results, nil
}

func matchOne(ctx context.Context, m Matcher, course types.Course, profile *types.SkillProfile, timeout time.Duration) (result types.MatchResult) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Course: course.ID, Message: "matcher panicked", Cause: fmt.Errorf("%v", r)}
		}
		metrics.RecordOracleCall(time.Since(start), err)
		if err != nil {
			logging.Warn().Err(err).Str("course", course.ID).Msg("course match failed")
			result = types.FailedMatch(err)
		}
	}()

	result, err = m.Match(ctx, course, profile)
	return result
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
