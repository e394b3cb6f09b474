// Package scheduling packs ranked courses into a term-by-term plan.
//
// The plan is built in a single greedy pass: each term repeatedly takes the
// first remaining course, in rank order, whose prerequisites are satisfied
// and whose credits still fit under the cap. There is no backtracking, so a
// lower ranked course that is eligible now can be placed ahead of a higher
// ranked course that is not. Courses that never become eligible are left out.
package scheduling

import (
	"slices"
	"time"

	"github.com/jonathan/course-planner/internal/types"
)

// Scheduler defaults
const (
	DefaultCreditCap = 15
	DefaultMaxTerms  = 8
)

// Options configures a Scheduler
type Options struct {
	// CreditCap is the most credits a single term may hold
	CreditCap int
	// MaxTerms bounds the timeline length
	MaxTerms int
	// StrictTermOrdering requires prerequisites to be placed in an earlier
	// term. When false, a course placed earlier in the same term also counts.
	StrictTermOrdering bool
}

// DefaultOptions returns a 15 credit cap and an 8 term limit
func DefaultOptions() Options {
	return Options{CreditCap: DefaultCreditCap, MaxTerms: DefaultMaxTerms}
}

// Scheduler builds timelines. It holds only its options and is safe for concurrent use.
type Scheduler struct {
	opts Options
}

// NewScheduler creates a scheduler, replacing non-positive limits with the defaults
func NewScheduler(opts Options) *Scheduler {
	if opts.CreditCap <= 0 {
		opts.CreditCap = DefaultCreditCap
	}
	if opts.MaxTerms <= 0 {
		opts.MaxTerms = DefaultMaxTerms
	}
	return &Scheduler{opts: opts}
}

// Options returns the scheduler's effective options
func (s *Scheduler) Options() Options {
	return s.opts
}

// TermBudget is the number of terms needed to finish the remaining credits
// at full load, bounded by MaxTerms. It is zero once the target is reached.
func (s *Scheduler) TermBudget(creditsCompleted, totalCredits int) int {
	remaining := totalCredits - creditsCompleted
	if remaining <= 0 {
		return 0
	}
	terms := (remaining + s.opts.CreditCap - 1) / s.opts.CreditCap
	return min(terms, s.opts.MaxTerms)
}

// Build schedules ranked courses starting at start. ranked is not modified.
// Scheduling ends when the term budget is spent, every course is placed, or
// a term places nothing (no remaining course can ever become eligible).
func (s *Scheduler) Build(ranked []types.ScoredCourse, completed types.CourseSet, creditsCompleted, totalCredits int, start types.TermStart) types.Timeline {
	budget := s.TermBudget(creditsCompleted, totalCredits)
	remaining := slices.Clone(ranked)
	scheduled := make(types.CourseSet, len(ranked))

	timeline := make(types.Timeline, 0, budget)
	term := start
	for len(timeline) < budget && len(remaining) > 0 {
		placed := s.fillTerm(term, &remaining, completed, scheduled)
		if len(placed.Courses) == 0 {
			break
		}
		timeline = append(timeline, placed)
		term = term.Next()
	}
	return timeline
}

func (s *Scheduler) fillTerm(start types.TermStart, remaining *[]types.ScoredCourse, completed, scheduled types.CourseSet) types.Term {
	term := types.Term{Season: start.Season, Year: start.Year, Courses: []types.ScoredCourse{}}

	// prerequisites placed in this term, withheld from scheduled until it closes
	var pending []string
	satisfied := func(id string) bool {
		return completed.Has(id) || scheduled.Has(id)
	}

	for term.TotalCredits < s.opts.CreditCap {
		i := slices.IndexFunc(*remaining, func(c types.ScoredCourse) bool {
			if term.TotalCredits+c.Credits > s.opts.CreditCap {
				return false
			}
			for _, p := range c.Prerequisites {
				if !satisfied(p) {
					return false
				}
			}
			return true
		})
		if i < 0 {
			break
		}

		course := (*remaining)[i]
		*remaining = slices.Delete(*remaining, i, i+1)
		term.Courses = append(term.Courses, course)
		term.TotalCredits += course.Credits
		if s.opts.StrictTermOrdering {
			pending = append(pending, course.ID)
		} else {
			scheduled.Add(course.ID)
		}
	}

	for _, id := range pending {
		scheduled.Add(id)
	}
	return term
}

// StartingTerm returns the first term to plan from the current date: a date
// in January through June starts in the coming Fall, July through December
// in the following Spring.
func StartingTerm(now time.Time) types.TermStart {
	if now.Month() <= time.June {
		return types.TermStart{Season: types.Fall, Year: now.Year()}
	}
	return types.TermStart{Season: types.Spring, Year: now.Year() + 1}
}
