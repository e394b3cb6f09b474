// Package transcript extracts completed courses from transcript text and
// from manually entered course lists.
package transcript

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/course-planner/internal/types"
)

// DefaultCredits is assumed for courses listed without a credit count
const DefaultCredits = 3

// Course is a course found on a transcript
type Course struct {
	Code    string  `json:"code"`
	Subject string  `json:"subject"`
	Number  string  `json:"number"`
	Title   string  `json:"title,omitempty"`
	Credits float64 `json:"credits"`
	Grade   string  `json:"grade,omitempty"`
}

const (
	subjectPattern = `([A-Z][A-Z &]*[A-Z]|[A-Z])`
	titlePattern   = `([A-Za-z][A-Za-z0-9 \-,&:/']*?)`
	creditsPattern = `(\d+(?:\.\d+)?)`
	gradePattern   = `(AB|BC|CR|NC|[A-F][+-]?|P|S|U)`
)

var (
	// "CS 400   Programming III   3.00   A"
	rowPattern = regexp.MustCompile(`(?m)` + subjectPattern + `[ \t]+(\d{3})[ \t]+` + titlePattern + `[ \t]+` + creditsPattern + `[ \t]+` + gradePattern + `(?:[ \t]|$)`)
	// "CS-400   Programming III   3.00   A"
	dashedRowPattern = regexp.MustCompile(`(?m)` + subjectPattern + `-(\d{3})[ \t]+` + titlePattern + `[ \t]+` + creditsPattern + `[ \t]+` + gradePattern + `(?:[ \t]|$)`)
	// bare "CS 400" or "CS-400"
	codePattern = regexp.MustCompile(subjectPattern + `[ \t]*-?[ \t]*(\d{3})\b`)
)

var passingGrades = map[string]bool{
	"A": true, "A-": true, "AB": true,
	"B+": true, "B": true, "B-": true, "BC": true,
	"C+": true, "C": true, "C-": true,
	"D+": true, "D": true,
	"P": true, "S": true, "CR": true,
}

// IsPassingGrade reports whether grade earns credit
func IsPassingGrade(grade string) bool {
	return passingGrades[strings.ToUpper(strings.TrimSpace(grade))]
}

// ParseText extracts passed courses from transcript text. Rows with a code,
// title, credit count and grade are read first; when none are found every
// bare course code in the text is taken with DefaultCredits. Results are
// deduplicated by code, keeping the first occurrence.
func ParseText(text string) ([]Course, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Message: "transcript is empty"}
	}

	var courses []Course
	for _, pattern := range []*regexp.Regexp{rowPattern, dashedRowPattern} {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			grade := m[5]
			if !IsPassingGrade(grade) {
				continue
			}
			credits, err := strconv.ParseFloat(m[4], 64)
			if err != nil {
				continue
			}
			courses = append(courses, newCourse(m[1], m[2], strings.TrimSpace(m[3]), credits, grade))
		}
	}

	if len(courses) == 0 {
		courses = scanCodes(text)
	}
	return dedupe(courses), nil
}

// ParseManual reads one course code per line, ignoring lines without one.
// Codes are matched case-insensitively and get DefaultCredits.
func ParseManual(text string) ([]Course, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Message: "course list is empty"}
	}

	var courses []Course
	for _, line := range strings.Split(text, "\n") {
		line = strings.ToUpper(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		if m := codePattern.FindStringSubmatch(line); m != nil {
			courses = append(courses, newCourse(m[1], m[2], "", DefaultCredits, ""))
		}
	}
	return dedupe(courses), nil
}

// ToCompleted converts transcript courses into completed courses for a
// recommendation request, rounding credits to whole numbers
func ToCompleted(courses []Course) []types.CompletedCourse {
	out := make([]types.CompletedCourse, 0, len(courses))
	for _, c := range courses {
		out = append(out, types.CompletedCourse{ID: c.Code, Credits: int(math.Round(c.Credits))})
	}
	return out
}

func scanCodes(text string) []Course {
	var courses []Course
	for _, m := range codePattern.FindAllStringSubmatch(text, -1) {
		courses = append(courses, newCourse(m[1], m[2], "", DefaultCredits, ""))
	}
	return courses
}

func newCourse(subject, number, title string, credits float64, grade string) Course {
	subject = strings.Join(strings.Fields(subject), " ")
	return Course{
		Code:    subject + " " + number,
		Subject: subject,
		Number:  number,
		Title:   title,
		Credits: credits,
		Grade:   grade,
	}
}

func dedupe(courses []Course) []Course {
	out := make([]Course, 0, len(courses))
	seen := make(map[string]bool, len(courses))
	for _, c := range courses {
		if seen[c.Code] {
			continue
		}
		seen[c.Code] = true
		out = append(out, c)
	}
	return out
}
