// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/course-planner/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func writeMore(sb *strings.Builder, total, shown int, noun string) {
	if total > shown {
		fmt.Fprintf(sb, "  ... and %d more %s\n", total-shown, noun)
	}
}

// PrintSkillProfile outputs the skills extracted for a career field.
func (p *Printer) PrintSkillProfile(careerField string, profile *types.SkillProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Career:   %s\n\n", careerField)

	if len(profile.TechnicalSkills) > 0 {
		sb.WriteString("Technical Skills:\n")
		count := min(len(profile.TechnicalSkills), maxItemsToShow)
		for _, s := range profile.TechnicalSkills[:count] {
			fmt.Fprintf(&sb, "  • %s (%s, %d)\n", s.Skill, s.Importance, s.Frequency)
		}
		writeMore(&sb, len(profile.TechnicalSkills), count, "skills")
		sb.WriteString("\n")
	}

	if len(profile.KnowledgeDomains) > 0 {
		sb.WriteString("Knowledge Domains:\n")
		count := min(len(profile.KnowledgeDomains), 3)
		for _, d := range profile.KnowledgeDomains[:count] {
			fmt.Fprintf(&sb, "  • %s\n", d.Domain)
		}
		writeMore(&sb, len(profile.KnowledgeDomains), count, "domains")
		sb.WriteString("\n")
	}

	if len(profile.SoftSkills) > 0 {
		names := make([]string, 0, len(profile.SoftSkills))
		for _, s := range profile.SoftSkills {
			names = append(names, s.Skill)
		}
		fmt.Fprintf(&sb, "Soft Skills: %s\n", strings.Join(names, ", "))
	}

	p.printBox("EXTRACTED SKILL PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendations outputs the top ranked courses with their sub-scores.
func (p *Printer) PrintRecommendations(courses []types.ScoredCourse) {
	if len(courses) == 0 {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total courses ranked: %d\n\n", len(courses))

	count := min(len(courses), maxItemsToShow)
	for i, c := range courses[:count] {
		fmt.Fprintf(&sb, "#%d  %s  %s\n", i+1, c.ID, c.Title)
		fmt.Fprintf(&sb, "    Score: %.1f (skill %.1f, req %.1f, prereq %.1f, priority %.1f)\n",
			c.Scores.Total, c.Scores.SkillMatch, c.Scores.Requirement, c.Scores.Prereq, c.Scores.Priority)
		if len(c.MatchedSkills) > 0 {
			fmt.Fprintf(&sb, "    Skills: %s\n", strings.Join(c.MatchedSkills, ", "))
		}
		if c.Match.Failed {
			sb.WriteString("    (skill match unavailable)\n")
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(courses) > maxItemsToShow {
		fmt.Fprintf(&sb, "\n... and %d more courses", len(courses)-maxItemsToShow)
	}

	p.printBox("TOP RECOMMENDED COURSES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTimeline outputs each scheduled term with its courses and credit load.
func (p *Printer) PrintTimeline(timeline types.Timeline) {
	if len(timeline) == 0 {
		p.printBox("COURSE TIMELINE", "No courses could be scheduled")
		return
	}

	var sb strings.Builder
	for i, term := range timeline {
		fmt.Fprintf(&sb, "%s %d  (%d credits)\n", term.Season, term.Year, term.TotalCredits)
		for _, c := range term.Courses {
			fmt.Fprintf(&sb, "  • %s  %s\n", c.ID, c.Title)
		}
		if i < len(timeline)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(fmt.Sprintf("COURSE TIMELINE (%d courses)", timeline.CourseCount()), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDegreeProgress outputs credit and required-course completion.
func (p *Printer) PrintDegreeProgress(major string, progress types.DegreeProgress) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Major:     %s\n", major)
	fmt.Fprintf(&sb, "Credits:   %d / %d (%.0f%%)\n", progress.CreditsCompleted, progress.CreditsTotal, progress.PercentComplete)
	fmt.Fprintf(&sb, "Remaining: %d\n", progress.CreditsRemaining)
	fmt.Fprintf(&sb, "Required:  %d / %d met", progress.RequiredCoursesMet, progress.RequiredCoursesTotal)

	p.printBox("DEGREE PROGRESS", sb.String())
}

// PrintSkillCoverage outputs how many target skills the recommendations cover.
func (p *Printer) PrintSkillCoverage(coverage types.SkillCoverage) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Covered: %d / %d (%.0f%%)\n", coverage.CoveredSkills, coverage.TotalSkills, coverage.CoveragePercent)

	if len(coverage.UncoveredSkills) > 0 {
		sb.WriteString("\nUncovered:\n")
		count := min(len(coverage.UncoveredSkills), maxItemsToShow)
		for _, s := range coverage.UncoveredSkills[:count] {
			fmt.Fprintf(&sb, "  ⚠ %s\n", s)
		}
		writeMore(&sb, len(coverage.UncoveredSkills), count, "skills")
	}

	p.printBox("SKILL COVERAGE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendation outputs every section of a recommendation run.
func (p *Printer) PrintRecommendation(major string, rec *types.Recommendation) {
	if rec == nil {
		return
	}
	p.PrintRecommendations(rec.Recommendations)
	p.PrintTimeline(rec.Timeline)
	p.PrintDegreeProgress(major, rec.DegreeProgress)
	p.PrintSkillCoverage(rec.SkillCoverage)
}
