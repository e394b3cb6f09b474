// Package prompts holds the planner's LLM prompt templates.
// Templates live in an embedded JSON file keyed by prompt name and use
// {{.Key}} placeholders.
package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
)

// Prompt keys
const (
	KeyMatchCourse   = "match-course"
	KeyExtractSkills = "extract-skills"
)

//go:embed planner.json
var plannerJSON []byte

var placeholderPattern = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

var load = sync.OnceValues(func() (map[string]string, error) {
	return parse(plannerJSON)
})

func parse(data []byte) (map[string]string, error) {
	var templates map[string]string
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse prompt templates: %w", err)
	}
	return templates, nil
}

// Get returns the raw template for key
func Get(key string) (string, error) {
	templates, err := load()
	if err != nil {
		return "", err
	}
	template, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt %q not found", key)
	}
	return template, nil
}

// Keys returns the available prompt keys, sorted
func Keys() ([]string, error) {
	templates, err := load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(templates))
	for key := range templates {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}

// Placeholders returns the distinct placeholder names of a template in order
// of first appearance
func Placeholders(template string) []string {
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}

// Render fills the template for key. Every placeholder must have a value;
// a prompt with unfilled placeholders is never returned.
func Render(key string, data map[string]string) (string, error) {
	template, err := Get(key)
	if err != nil {
		return "", err
	}

	var missing []string
	for _, name := range Placeholders(template) {
		if _, ok := data[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt %q is missing values for %s", key, strings.Join(missing, ", "))
	}
	return Format(template, data), nil
}

// Format replaces {{.Key}} placeholders with values from data.
// Unknown placeholders are left in place.
func Format(template string, data map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[3 : len(match)-2]
		if value, ok := data[name]; ok {
			return value
		}
		return match
	})
}
