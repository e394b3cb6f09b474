package scheduling

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/course-planner/internal/types"
)

func course(id string, credits int, prereqs ...string) types.ScoredCourse {
	return types.ScoredCourse{Course: types.Course{ID: id, Credits: credits, Prerequisites: prereqs}}
}

func ids(term types.Term) []string {
	out := make([]string, len(term.Courses))
	for i, c := range term.Courses {
		out[i] = c.ID
	}
	return out
}

var fall2026 = types.TermStart{Season: types.Fall, Year: 2026}

// assertTimelineInvariants checks uniqueness, the credit cap and prerequisite order
func assertTimelineInvariants(t *testing.T, timeline types.Timeline, completed types.CourseSet, creditCap int) {
	t.Helper()
	placed := types.CourseSet{}
	for k, term := range timeline {
		sum := 0
		for _, c := range term.Courses {
			assert.False(t, placed.Has(c.ID), "%s placed twice", c.ID)
			for _, p := range c.Prerequisites {
				assert.True(t, completed.Has(p) || placed.Has(p), "term %d: %s placed before prerequisite %s", k, c.ID, p)
			}
			placed.Add(c.ID)
			sum += c.Credits
		}
		assert.Equal(t, sum, term.TotalCredits)
		assert.LessOrEqual(t, term.TotalCredits, creditCap)
	}
}

func TestBuild_SameTermUnlock(t *testing.T) {
	ranked := []types.ScoredCourse{
		course("CS 577", 3, "CS 400"),
		course("CS 400", 3),
	}

	timeline := NewScheduler(DefaultOptions()).Build(ranked, types.CourseSet{}, 0, 120, fall2026)
	require.Len(t, timeline, 1)
	assert.Equal(t, []string{"CS 400", "CS 577"}, ids(timeline[0]))
	assert.Equal(t, 6, timeline[0].TotalCredits)
	assert.Equal(t, types.Fall, timeline[0].Season)
	assert.Equal(t, 2026, timeline[0].Year)
}

func TestBuild_StrictTermOrdering(t *testing.T) {
	ranked := []types.ScoredCourse{
		course("CS 577", 3, "CS 400"),
		course("CS 400", 3),
	}

	opts := DefaultOptions()
	opts.StrictTermOrdering = true
	timeline := NewScheduler(opts).Build(ranked, types.CourseSet{}, 0, 120, fall2026)

	require.Len(t, timeline, 2)
	assert.Equal(t, []string{"CS 400"}, ids(timeline[0]))
	assert.Equal(t, []string{"CS 577"}, ids(timeline[1]))
	assert.Equal(t, types.Spring, timeline[1].Season)
	assert.Equal(t, 2027, timeline[1].Year)
}

func TestBuild_GreedyFirstEligible(t *testing.T) {
	ranked := []types.ScoredCourse{
		course("CS 640", 4, "CS 537"),
		course("CS 537", 4, "CS 354"),
		course("HISTORY 101", 3),
		course("CS 354", 3),
	}

	timeline := NewScheduler(DefaultOptions()).Build(ranked, types.CourseSet{}, 0, 120, fall2026)
	require.Len(t, timeline, 1)
	// HISTORY 101 is eligible first; CS 354 then unlocks CS 537 which unlocks CS 640
	assert.Equal(t, []string{"HISTORY 101", "CS 354", "CS 537", "CS 640"}, ids(timeline[0]))
	assert.Equal(t, 14, timeline[0].TotalCredits)
}

func TestBuild_CreditCap(t *testing.T) {
	var ranked []types.ScoredCourse
	for i := range 7 {
		ranked = append(ranked, course(fmt.Sprintf("CS %d", 300+i), 4))
	}
	ranked = append(ranked, course("CS 999", 3))

	timeline := NewScheduler(DefaultOptions()).Build(ranked, types.CourseSet{}, 0, 120, fall2026)
	assertTimelineInvariants(t, timeline, types.CourseSet{}, DefaultCreditCap)

	require.GreaterOrEqual(t, len(timeline), 2)
	// three 4-credit courses leave room for the 3-credit one
	assert.Equal(t, []string{"CS 300", "CS 301", "CS 302", "CS 999"}, ids(timeline[0]))
	assert.Equal(t, 15, timeline[0].TotalCredits)
	assert.Equal(t, 7+1, timeline.CourseCount())
}

func TestBuild_MaxTerms(t *testing.T) {
	var ranked []types.ScoredCourse
	for i := range 60 {
		ranked = append(ranked, course(fmt.Sprintf("CS %d", 100+i), 3))
	}

	timeline := NewScheduler(DefaultOptions()).Build(ranked, types.CourseSet{}, 0, 200, fall2026)
	assert.Len(t, timeline, DefaultMaxTerms)
	assertTimelineInvariants(t, timeline, types.CourseSet{}, DefaultCreditCap)
	assert.Equal(t, 40, timeline.CourseCount())

	last := timeline[len(timeline)-1]
	assert.Equal(t, types.Spring, last.Season)
	assert.Equal(t, 2030, last.Year)
}

func TestBuild_TermBudgetFromRemainingCredits(t *testing.T) {
	var ranked []types.ScoredCourse
	for i := range 20 {
		ranked = append(ranked, course(fmt.Sprintf("CS %d", 100+i), 3))
	}

	s := NewScheduler(DefaultOptions())
	assert.Equal(t, 2, s.TermBudget(90, 120))
	assert.Equal(t, 3, s.TermBudget(89, 120))
	assert.Equal(t, 0, s.TermBudget(120, 120))
	assert.Equal(t, 8, s.TermBudget(0, 500))

	timeline := s.Build(ranked, types.CourseSet{}, 90, 120, fall2026)
	assert.Len(t, timeline, 2)

	assert.Empty(t, s.Build(ranked, types.CourseSet{}, 130, 120, fall2026))
}

func TestBuild_DeadEndAndUnschedulable(t *testing.T) {
	ranked := []types.ScoredCourse{
		course("CS 760", 3, "CS 999"),
		course("CS 400", 3),
		course("CS 900", 20),
	}

	timeline := NewScheduler(DefaultOptions()).Build(ranked, types.CourseSet{}, 0, 120, fall2026)
	require.Len(t, timeline, 1)
	assert.Equal(t, []string{"CS 400"}, ids(timeline[0]))
}

func TestBuild_CompletedPrerequisites(t *testing.T) {
	completed := types.NewCourseSet("CS 300")
	ranked := []types.ScoredCourse{course("CS 400", 3, "CS 300")}

	timeline := NewScheduler(DefaultOptions()).Build(ranked, completed, 30, 120, fall2026)
	require.Len(t, timeline, 1)
	assert.Equal(t, []string{"CS 400"}, ids(timeline[0]))
}

func TestBuild_DoesNotModifyInput(t *testing.T) {
	ranked := []types.ScoredCourse{course("B", 3, "A"), course("A", 3)}

	_ = NewScheduler(DefaultOptions()).Build(ranked, types.CourseSet{}, 0, 120, fall2026)
	assert.Equal(t, "B", ranked[0].ID)
	assert.Equal(t, "A", ranked[1].ID)
}

func TestBuild_ChainAcrossManyCourses(t *testing.T) {
	// a long chain of 5-credit courses, ranked in reverse dependency order
	var ranked []types.ScoredCourse
	for i := 9; i >= 0; i-- {
		var prereqs []string
		if i > 0 {
			prereqs = []string{fmt.Sprintf("C%d", i-1)}
		}
		ranked = append(ranked, course(fmt.Sprintf("C%d", i), 5, prereqs...))
	}

	timeline := NewScheduler(DefaultOptions()).Build(ranked, types.CourseSet{}, 0, 120, fall2026)
	assertTimelineInvariants(t, timeline, types.CourseSet{}, DefaultCreditCap)
	assert.Equal(t, 10, timeline.CourseCount())
	assert.Equal(t, []string{"C0", "C1", "C2"}, ids(timeline[0]))
}

func TestNewScheduler_Defaults(t *testing.T) {
	s := NewScheduler(Options{})
	assert.Equal(t, DefaultCreditCap, s.Options().CreditCap)
	assert.Equal(t, DefaultMaxTerms, s.Options().MaxTerms)
}

func TestStartingTerm(t *testing.T) {
	tests := []struct {
		date time.Time
		want types.TermStart
	}{
		{time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC), types.TermStart{Season: types.Fall, Year: 2026}},
		{time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC), types.TermStart{Season: types.Fall, Year: 2026}},
		{time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC), types.TermStart{Season: types.Spring, Year: 2027}},
		{time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC), types.TermStart{Season: types.Spring, Year: 2027}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StartingTerm(tt.date), tt.date.String())
	}
}
