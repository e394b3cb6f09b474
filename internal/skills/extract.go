// Package skills builds a target skill profile for a career field from job postings.
package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/course-planner/internal/llm"
	"github.com/jonathan/course-planner/internal/prompts"
	"github.com/jonathan/course-planner/internal/types"
)

// postingSeparator joins postings in the extraction prompt
const postingSeparator = "\n\n---\n\n"

// ExtractProfile asks the LLM for the skills, domains and responsibilities
// common to postings and returns the normalized profile.
func ExtractProfile(ctx context.Context, client llm.Client, postings []string, careerField string) (*types.SkillProfile, error) {
	if len(postings) == 0 {
		return nil, &ExtractionError{Message: "no job postings to analyze"}
	}

	prompt, err := prompts.Render(prompts.KeyExtractSkills, map[string]string{
		"CareerField": careerField,
		"Postings":    strings.Join(postings, postingSeparator),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render extraction prompt: %w", err)
	}

	reply, err := client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &ExtractionError{Message: "LLM call failed", Cause: err}
	}

	profile, err := ParseProfile(reply)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// ParseProfile reads a skill profile from an LLM reply and normalizes it
func ParseProfile(reply string) (*types.SkillProfile, error) {
	var profile types.SkillProfile
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(reply)), &profile); err != nil {
		return nil, &ExtractionError{Message: "failed to parse skill profile", Cause: err}
	}
	NormalizeProfile(&profile)
	if len(profile.TechnicalSkills) == 0 && len(profile.KnowledgeDomains) == 0 {
		return nil, &ExtractionError{Message: "no skills found in job postings"}
	}
	return &profile, nil
}
