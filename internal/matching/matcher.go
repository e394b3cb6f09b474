// Package matching judges how well catalog courses prepare a student for a
// target skill profile. The judgment comes from an external oracle (an LLM);
// calls are batched, bounded and isolated so one failure only degrades the
// course it belongs to.
package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/jonathan/course-planner/internal/llm"
	"github.com/jonathan/course-planner/internal/logging"
	"github.com/jonathan/course-planner/internal/metrics"
	"github.com/jonathan/course-planner/internal/prompts"
	"github.com/jonathan/course-planner/internal/types"
)

// Matcher judges a single course against a skill profile
type Matcher interface {
	Match(ctx context.Context, course types.Course, profile *types.SkillProfile) (types.MatchResult, error)
}

// MatcherFunc adapts a function to the Matcher interface
type MatcherFunc func(ctx context.Context, course types.Course, profile *types.SkillProfile) (types.MatchResult, error)

// Match calls f
func (f MatcherFunc) Match(ctx context.Context, course types.Course, profile *types.SkillProfile) (types.MatchResult, error) {
	return f(ctx, course, profile)
}

// BreakerSettings configures the circuit breaker around oracle calls
type BreakerSettings struct {
	Name                string
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// DefaultBreakerSettings trips after five consecutive failures and probes again after a minute
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:                "oracle",
		MaxRequests:         3,
		Interval:            time.Minute,
		Timeout:             time.Minute,
		ConsecutiveFailures: 5,
	}
}

// LLMMatcher asks an LLM to rate each course
type LLMMatcher struct {
	client  llm.Client
	tier    llm.ModelTier
	breaker *gobreaker.CircuitBreaker[string]
}

// NewLLMMatcher creates a matcher backed by client, using the lite model tier
func NewLLMMatcher(client llm.Client, settings BreakerSettings) *LLMMatcher {
	if settings.Name == "" {
		settings = DefaultBreakerSettings()
	}
	threshold := settings.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("oracle circuit breaker state changed")
			metrics.SetBreakerState(name, breakerStateValue(to))
		},
	})
	metrics.SetBreakerState(settings.Name, 0)

	return &LLMMatcher{client: client, tier: llm.TierLite, breaker: cb}
}

// Match renders the match prompt for course and parses the oracle's reply
func (m *LLMMatcher) Match(ctx context.Context, course types.Course, profile *types.SkillProfile) (types.MatchResult, error) {
	prompt, err := prompts.Render(prompts.KeyMatchCourse, map[string]string{
		"Title":            course.Title,
		"Description":      orNotSpecified(course.Description),
		"TechnicalSkills":  orNotSpecified(strings.Join(profile.TechnicalSkillNames(), ", ")),
		"KnowledgeDomains": orNotSpecified(strings.Join(profile.DomainNames(), ", ")),
	})
	if err != nil {
		return types.MatchResult{}, fmt.Errorf("failed to render match prompt: %w", err)
	}

	reply, err := m.breaker.Execute(func() (string, error) {
		return m.client.GenerateJSON(ctx, prompt, m.tier)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return types.MatchResult{}, &Error{Course: course.ID, Message: "oracle unavailable", Cause: err}
		}
		return types.MatchResult{}, &Error{Course: course.ID, Message: "oracle call failed", Cause: err}
	}

	result, err := ParseMatch(reply)
	if err != nil {
		return types.MatchResult{}, &Error{Course: course.ID, Message: "unreadable oracle reply", Cause: err}
	}
	return result, nil
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}

func breakerStateValue(state gobreaker.State) int {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
