// Package llm wraps the language-model provider behind a small client interface.
// The planner uses it for two things: judging how well a course matches a
// career skill profile, and extracting a skill profile from job postings.
package llm

import "maps"

// ModelTier selects a model by capability
type ModelTier string

const (
	// TierLite serves the per-course match calls, which are many and small
	TierLite ModelTier = "lite"
	// TierStandard serves skill extraction from job postings
	TierStandard ModelTier = "standard"
	// TierAdvanced is available for callers that need stronger reasoning
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider, currently the only one
const ProviderGemini Provider = "gemini"

// Generation defaults. A low temperature keeps match scores stable between
// runs; match replies are a few hundred tokens, skill profiles a few thousand.
const (
	DefaultTemperature     float32 = 0.1
	DefaultMaxOutputTokens int32   = 4096
)

// Config holds the model configuration
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
	// MaxOutputTokens bounds every reply; zero leaves the model default
	MaxOutputTokens int32
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature:     DefaultTemperature,
		MaxOutputTokens: DefaultMaxOutputTokens,
	}
}

// GetModel returns the model name for a tier, falling back to standard then lite
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the config with model set for tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := *c
	out.Models = maps.Clone(c.Models)
	if out.Models == nil {
		out.Models = map[ModelTier]string{}
	}
	out.Models[tier] = model
	return &out
}
