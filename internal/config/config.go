// Package config provides layered configuration loading and validation for
// the CLI and the API server.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Defaults
const (
	DefaultMajor           = "Computer Science"
	DefaultCreditCap       = 15
	DefaultMaxTerms        = 8
	DefaultBatchSize       = 5
	DefaultBatchPauseMS    = 1000
	DefaultOracleTimeoutMS = 30000
	DefaultMaxCandidates   = 100
	DefaultTopN            = 20
	DefaultBreakerFailures = 5
	DefaultPort            = 8080
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"
)

// Config is the planner configuration. Values are layered: built-in
// defaults, then an optional YAML or JSON file, then environment variables.
type Config struct {
	// Catalogs
	Major            string `koanf:"major" json:"major,omitempty"`
	CatalogSource    string `koanf:"catalog_source" json:"catalog_source,omitempty"`       // feed URL or file path; empty serves the sample catalog
	CatalogCache     string `koanf:"catalog_cache" json:"catalog_cache,omitempty"`         // file cache of the normalized catalog
	RequirementsFile string `koanf:"requirements_file" json:"requirements_file,omitempty"` // replaces the built-in majors

	// Oracle
	APIKey          string `koanf:"api_key" json:"api_key,omitempty"`
	BatchSize       int    `koanf:"batch_size" json:"batch_size,omitempty"`
	BatchPauseMS    int    `koanf:"batch_pause_ms" json:"batch_pause_ms,omitempty"`
	OracleTimeoutMS int    `koanf:"oracle_timeout_ms" json:"oracle_timeout_ms,omitempty"`
	BreakerFailures int    `koanf:"breaker_failures" json:"breaker_failures,omitempty"`
	MaxCandidates   int    `koanf:"max_candidates" json:"max_candidates,omitempty"`

	// Planning
	TopN               int  `koanf:"top_n" json:"top_n,omitempty"`
	CreditCap          int  `koanf:"credit_cap" json:"credit_cap,omitempty"`
	MaxTerms           int  `koanf:"max_terms" json:"max_terms,omitempty"`
	StrictTermOrdering bool `koanf:"strict_term_ordering" json:"strict_term_ordering,omitempty"`

	// Job postings
	JobSearchURL string `koanf:"job_search_url" json:"job_search_url,omitempty"`
	UseBrowser   bool   `koanf:"use_browser" json:"use_browser,omitempty"`

	// Infrastructure
	DatabaseURL string          `koanf:"database_url" json:"database_url,omitempty"`
	Port        int             `koanf:"port" json:"port,omitempty"`
	LogLevel    string          `koanf:"log_level" json:"log_level,omitempty"`
	LogFormat   string          `koanf:"log_format" json:"log_format,omitempty"`
	Verbose     bool            `koanf:"verbose" json:"verbose,omitempty"`
	RateLimit   RateLimitConfig `koanf:"rate_limit" json:"rate_limit"`
}

// RateLimitConfig configures the API rate limiter
type RateLimitConfig struct {
	Enabled       bool          `koanf:"enabled" json:"enabled"`
	DefaultLimit  int           `koanf:"default_limit" json:"default_limit,omitempty"`
	DefaultWindow time.Duration `koanf:"default_window" json:"default_window,omitempty"`
	Whitelist     []string      `koanf:"whitelist" json:"whitelist,omitempty"`
	Blacklist     []string      `koanf:"blacklist" json:"blacklist,omitempty"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Major:           DefaultMajor,
		BatchSize:       DefaultBatchSize,
		BatchPauseMS:    DefaultBatchPauseMS,
		OracleTimeoutMS: DefaultOracleTimeoutMS,
		BreakerFailures: DefaultBreakerFailures,
		MaxCandidates:   DefaultMaxCandidates,
		TopN:            DefaultTopN,
		CreditCap:       DefaultCreditCap,
		MaxTerms:        DefaultMaxTerms,
		Port:            DefaultPort,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		RateLimit: RateLimitConfig{
			Enabled:       true,
			DefaultLimit:  1000,
			DefaultWindow: time.Minute,
			Whitelist:     []string{},
			Blacklist:     []string{},
		},
	}
}

// envMappings maps environment variables to config keys
var envMappings = map[string]string{
	"gemini_api_key":               "api_key",
	"database_url":                 "database_url",
	"course_catalog_url":           "catalog_source",
	"course_catalog_cache":         "catalog_cache",
	"requirements_file":            "requirements_file",
	"job_search_url":               "job_search_url",
	"port":                         "port",
	"log_level":                    "log_level",
	"log_format":                   "log_format",
	"planner_major":                "major",
	"planner_credit_cap":           "credit_cap",
	"planner_max_terms":            "max_terms",
	"planner_batch_size":           "batch_size",
	"planner_batch_pause_ms":       "batch_pause_ms",
	"planner_oracle_timeout_ms":    "oracle_timeout_ms",
	"planner_breaker_failures":     "breaker_failures",
	"planner_max_candidates":       "max_candidates",
	"planner_top_n":                "top_n",
	"planner_strict_term_ordering": "strict_term_ordering",
	"planner_use_browser":          "use_browser",
	"rate_limit_enabled":           "rate_limit.enabled",
	"rate_limit_default_limit":     "rate_limit.default_limit",
	"rate_limit_default_window":    "rate_limit.default_window",
	"rate_limit_whitelist":         "rate_limit.whitelist",
	"rate_limit_blacklist":         "rate_limit.blacklist",
}

// sliceKeys are parsed from comma-separated strings when set from the environment
var sliceKeys = []string{"rate_limit.whitelist", "rate_limit.blacklist"}

// Load builds the configuration from defaults, the file at path (skipped
// when path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		// JSON documents are valid YAML, so one parser serves both
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if err := splitSlices(k); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps a variable name to its config key; unknown names are dropped
func envKey(name string) string {
	return envMappings[strings.ToLower(name)]
}

func splitSlices(k *koanf.Koanf) error {
	for _, key := range sliceKeys {
		raw, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		parts := []string{}
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(key, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Zero numeric values are allowed; MergeWithDefaults fills them.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name  string
		value int
	}{
		{"credit_cap", c.CreditCap},
		{"max_terms", c.MaxTerms},
		{"batch_size", c.BatchSize},
		{"batch_pause_ms", c.BatchPauseMS},
		{"oracle_timeout_ms", c.OracleTimeoutMS},
		{"breaker_failures", c.BreakerFailures},
		{"max_candidates", c.MaxCandidates},
		{"top_n", c.TopN},
		{"rate_limit.default_limit", c.RateLimit.DefaultLimit},
	} {
		if f.value < 0 {
			return fmt.Errorf("config error: '%s' must be non-negative", f.name)
		}
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "json", "console":
	default:
		return fmt.Errorf("config error: 'log_format' must be json or console, got %q", c.LogFormat)
	}

	if c.JobSearchURL != "" && strings.Count(c.JobSearchURL, "%s") != 1 {
		return fmt.Errorf("config error: 'job_search_url' must contain exactly one %%s")
	}

	if c.RequirementsFile != "" {
		if _, err := os.Stat(c.RequirementsFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: requirements file not found: %s", c.RequirementsFile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty string and zero numeric
// fields filled from defaults. Booleans are never merged: an explicit false
// cannot be told apart from unset.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	mergeString(&result.Major, defaults.Major)
	mergeString(&result.CatalogSource, defaults.CatalogSource)
	mergeString(&result.CatalogCache, defaults.CatalogCache)
	mergeString(&result.RequirementsFile, defaults.RequirementsFile)
	mergeString(&result.APIKey, defaults.APIKey)
	mergeString(&result.JobSearchURL, defaults.JobSearchURL)
	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.LogLevel, defaults.LogLevel)
	mergeString(&result.LogFormat, defaults.LogFormat)

	mergeInt(&result.BatchSize, defaults.BatchSize)
	mergeInt(&result.BatchPauseMS, defaults.BatchPauseMS)
	mergeInt(&result.OracleTimeoutMS, defaults.OracleTimeoutMS)
	mergeInt(&result.BreakerFailures, defaults.BreakerFailures)
	mergeInt(&result.MaxCandidates, defaults.MaxCandidates)
	mergeInt(&result.TopN, defaults.TopN)
	mergeInt(&result.CreditCap, defaults.CreditCap)
	mergeInt(&result.MaxTerms, defaults.MaxTerms)
	mergeInt(&result.Port, defaults.Port)

	mergeInt(&result.RateLimit.DefaultLimit, defaults.RateLimit.DefaultLimit)
	if result.RateLimit.DefaultWindow == 0 {
		result.RateLimit.DefaultWindow = defaults.RateLimit.DefaultWindow
	}

	return result
}

// BatchPause is the pause between oracle batches
func (c *Config) BatchPause() time.Duration {
	return time.Duration(c.BatchPauseMS) * time.Millisecond
}

// OracleTimeout bounds a single oracle call
func (c *Config) OracleTimeout() time.Duration {
	return time.Duration(c.OracleTimeoutMS) * time.Millisecond
}

func mergeString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func mergeInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}
