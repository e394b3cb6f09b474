// Package catalog loads the course catalog and normalizes its records.
//
// Feeds come from several scrapers and disagree on field names, so each raw
// record is mapped onto types.Course through a list of accepted aliases.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/course-planner/internal/logging"
	"github.com/jonathan/course-planner/internal/types"
)

// DefaultCredits is assumed when a record carries no usable credit count
const DefaultCredits = 3

// Field aliases accepted in raw records, in order of preference
var (
	codeKeys        = []string{"code", "courseCode"}
	titleKeys       = []string{"title", "name"}
	descriptionKeys = []string{"description", "desc"}
	creditKeys      = []string{"credits", "credit"}
	prereqKeys      = []string{"prerequisites", "prereqs"}
	subjectKeys     = []string{"subject", "department"}
	numberKeys      = []string{"number", "courseNumber"}
)

// ParseFeed decodes a catalog document into normalized courses.
// JSON documents may be an array of records or an object whose array-valued
// members hold records; HTML documents are read as a catalog guide page.
// Records without an identifier are skipped and duplicate identifiers keep
// their first occurrence.
func ParseFeed(data []byte) ([]types.Course, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("catalog document is empty")
	}

	if trimmed[0] == '<' {
		return ParseGuideHTML(string(trimmed))
	}

	records, err := decodeRecords(trimmed)
	if err != nil {
		return nil, err
	}
	return NormalizeAll(records), nil
}

// NormalizeAll normalizes records, dropping unidentifiable and duplicate ones
func NormalizeAll(records []map[string]any) []types.Course {
	courses := make([]types.Course, 0, len(records))
	seen := make(types.CourseSet, len(records))
	for i, raw := range records {
		course, ok := Normalize(raw)
		if !ok {
			logging.Debug().Int("index", i).Msg("skipping catalog record without a course code")
			continue
		}
		if seen.Has(course.ID) {
			continue
		}
		seen.Add(course.ID)
		courses = append(courses, course)
	}
	return courses
}

// Normalize maps one raw record onto types.Course. It reports false when no
// identifier can be derived (no code and no subject/number pair).
func Normalize(raw map[string]any) (types.Course, bool) {
	subject := stringField(raw, subjectKeys...)
	number := stringField(raw, numberKeys...)

	id := stringField(raw, codeKeys...)
	if id == "" && subject != "" && number != "" {
		id = subject + " " + number
	}
	if id == "" {
		return types.Course{}, false
	}

	// records keyed only by code still get a subject and number
	if subject == "" || number == "" {
		codeSubject, codeNumber := SplitCode(id)
		if subject == "" {
			subject = codeSubject
		}
		if number == "" {
			number = codeNumber
		}
	}

	level := stringField(raw, "level")
	if level == "" {
		level = LevelFor(number)
	}

	return types.Course{
		ID:            id,
		Title:         stringField(raw, titleKeys...),
		Description:   stringField(raw, descriptionKeys...),
		Credits:       creditsField(raw),
		Prerequisites: listField(raw, prereqKeys...),
		Subject:       subject,
		Number:        number,
		Level:         level,
	}, true
}

// LevelFor derives the level tier from the leading digits of a course number.
// It returns "" when the number has no leading digits.
func LevelFor(number string) string {
	n, ok := leadingInt(number)
	if !ok {
		return ""
	}
	return types.LevelForNumber(n)
}

// SplitCode splits "COMP SCI 540" into ("COMP SCI", "540"). The number is
// the last space-separated token when it starts with a digit.
func SplitCode(code string) (subject, number string) {
	code = strings.TrimSpace(code)
	idx := strings.LastIndexAny(code, " -")
	if idx <= 0 {
		return "", ""
	}
	tail := code[idx+1:]
	if _, ok := leadingInt(tail); !ok {
		return "", ""
	}
	return strings.TrimSpace(code[:idx]), tail
}

func decodeRecords(data []byte) ([]map[string]any, error) {
	if data[0] == '[' {
		var records []map[string]any
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse catalog array: %w", err)
		}
		return records, nil
	}

	// walk the object's members in document order so catalog order is stable
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, fmt.Errorf("catalog document must be a JSON array or object")
	}

	var records []map[string]any
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("failed to read catalog key: %w", err)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("failed to read catalog member: %w", err)
		}
		var group []map[string]any
		if err := json.Unmarshal(value, &group); err != nil {
			// non-array members such as metadata are ignored
			continue
		}
		records = append(records, group...)
	}
	return records, nil
}

func stringField(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func creditsField(raw map[string]any) int {
	for _, key := range creditKeys {
		switch v := raw[key].(type) {
		case float64:
			if v > 0 {
				return int(v)
			}
		case string:
			// ranges such as "1-3" take the upper bound
			s := strings.TrimSpace(v)
			if idx := strings.LastIndexAny(s, "-–"); idx >= 0 {
				s = s[idx+1:]
			}
			if n, ok := leadingInt(strings.TrimSpace(s)); ok && n > 0 {
				return n
			}
		}
	}
	return DefaultCredits
}

func listField(raw map[string]any, keys ...string) []string {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, strings.TrimSpace(s))
				}
			}
			return out
		case string:
			var out []string
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
			if out == nil {
				return []string{}
			}
			return out
		}
	}
	return []string{}
}

func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
