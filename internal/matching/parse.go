package matching

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/course-planner/internal/llm"
	"github.com/jonathan/course-planner/internal/types"
)

// Relevance bounds of a match result
const (
	MinRelevance = 0
	MaxRelevance = 100
)

var (
	relevanceKeys = []string{"relevance_score", "relevanceScore", "relevance", "score"}
	skillKeys     = []string{"matched_skills", "matchedSkills", "skills"}
	domainKeys    = []string{"matched_domains", "matchedDomains", "domains"}
	reasoningKeys = []string{"reasoning", "rationale", "explanation"}
	uniqueKeys    = []string{"unique_value", "uniqueValue"}
)

// ParseMatch reads an oracle reply into a MatchResult. Prose or code fences
// around the JSON object are ignored, alternate field spellings are accepted
// and the relevance is clamped to 0-100. A reply without a relevance score
// is an error.
func ParseMatch(reply string) (types.MatchResult, error) {
	cleaned := llm.CleanJSONBlock(reply)

	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return types.MatchResult{}, fmt.Errorf("failed to parse match reply: %w", err)
	}

	relevance, ok := numberField(raw, relevanceKeys)
	if !ok {
		return types.MatchResult{}, fmt.Errorf("match reply has no relevance score")
	}

	return types.MatchResult{
		Relevance:      clamp(relevance),
		MatchedSkills:  stringsField(raw, skillKeys),
		MatchedDomains: stringsField(raw, domainKeys),
		Reasoning:      stringField(raw, reasoningKeys),
		UniqueValue:    stringField(raw, uniqueKeys),
	}, nil
}

func clamp(v float64) float64 {
	if v < MinRelevance {
		return MinRelevance
	}
	if v > MaxRelevance {
		return MaxRelevance
	}
	return v
}

// numberField returns the first finite number under keys. Numeric strings
// count; "NaN" and "Inf" do not.
func numberField(raw map[string]any, keys []string) (float64, bool) {
	for _, key := range keys {
		var f float64
		switch v := raw[key].(type) {
		case float64:
			f = v
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				continue
			}
			f = parsed
		default:
			continue
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		return f, true
	}
	return 0, false
}

func stringField(raw map[string]any, keys []string) string {
	for _, key := range keys {
		if s, ok := raw[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func stringsField(raw map[string]any, keys []string) []string {
	for _, key := range keys {
		items, ok := raw[key].([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return []string{}
}
