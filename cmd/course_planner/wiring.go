package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/course-planner/internal/catalog"
	"github.com/jonathan/course-planner/internal/config"
	"github.com/jonathan/course-planner/internal/fetch"
	"github.com/jonathan/course-planner/internal/llm"
	"github.com/jonathan/course-planner/internal/logging"
	"github.com/jonathan/course-planner/internal/matching"
	"github.com/jonathan/course-planner/internal/pipeline"
	"github.com/jonathan/course-planner/internal/postings"
	"github.com/jonathan/course-planner/internal/requirements"
	"github.com/jonathan/course-planner/internal/scheduling"
	"github.com/jonathan/course-planner/internal/schemas"
	"github.com/jonathan/course-planner/internal/types"
)

// planFlags are the planning flags shared by recommend and schedule
type planFlags struct {
	configPath       string
	major            string
	completed        []string
	transcript       string
	creditsCompleted int
	creditCap        int
	maxTerms         int
	strict           bool
	catalogSource    string
	requirementsFile string
	verbose          bool
}

func (f *planFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to a YAML or JSON config file (values can be overridden by other flags)")
	cmd.Flags().StringVarP(&f.major, "major", "m", "", "Declared major (defaults to Computer Science)")
	cmd.Flags().StringSliceVar(&f.completed, "completed", nil, "Completed course codes, comma separated (e.g. \"CS 200,CS 300\")")
	cmd.Flags().StringVar(&f.transcript, "transcript", "", "Path to a plain-text transcript to read completed courses from")
	cmd.Flags().IntVar(&f.creditsCompleted, "credits-completed", 0, "Credits already completed (derived from completed courses when 0)")
	cmd.Flags().IntVar(&f.creditCap, "credit-cap", 0, "Maximum credits per term")
	cmd.Flags().IntVar(&f.maxTerms, "max-terms", 0, "Maximum number of terms to plan")
	cmd.Flags().BoolVar(&f.strict, "strict-term-ordering", false, "Require prerequisites to be placed in an earlier term")
	cmd.Flags().StringVar(&f.catalogSource, "catalog", "", "Course catalog URL or file (defaults to the built-in sample catalog)")
	cmd.Flags().StringVar(&f.requirementsFile, "requirements", "", "Requirement catalog file (YAML or JSON) replacing the built-in majors")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Print detailed progress and a summary of the plan")
}

// loadConfig loads the config file and environment, then applies the flags
// that were explicitly set and fills remaining zero values from the defaults.
func (f *planFlags) loadConfig(cmd *cobra.Command) (config.Config, error) {
	loaded, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := *loaded

	flags := cmd.Flags()
	if flags.Changed("major") {
		cfg.Major = f.major
	}
	if flags.Changed("credit-cap") {
		cfg.CreditCap = f.creditCap
	}
	if flags.Changed("max-terms") {
		cfg.MaxTerms = f.maxTerms
	}
	if flags.Changed("strict-term-ordering") {
		cfg.StrictTermOrdering = f.strict
	}
	if flags.Changed("catalog") {
		cfg.CatalogSource = f.catalogSource
	}
	if flags.Changed("requirements") {
		cfg.RequirementsFile = f.requirementsFile
	}
	if flags.Changed("verbose") {
		cfg.Verbose = f.verbose
	}

	cfg = cfg.MergeWithDefaults(config.Default())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	initLogging(cfg)
	return cfg, nil
}

// completedCourses merges --completed codes with courses read from --transcript
func (f *planFlags) completedCourses() ([]types.CompletedCourse, error) {
	var out []types.CompletedCourse
	for _, code := range f.completed {
		if code = strings.TrimSpace(code); code != "" {
			out = append(out, types.CompletedCourse{ID: strings.ToUpper(code)})
		}
	}
	if f.transcript == "" {
		return out, nil
	}

	data, err := os.ReadFile(f.transcript)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	parsed, err := transcriptCourses(string(data))
	if err != nil {
		return nil, err
	}
	return append(out, parsed...), nil
}

// request builds the recommendation request shared by recommend and schedule
func (f *planFlags) request(cfg config.Config, careerField string, profile *types.SkillProfile) (*types.RecommendationRequest, error) {
	completed, err := f.completedCourses()
	if err != nil {
		return nil, err
	}
	return &types.RecommendationRequest{
		CareerField:           careerField,
		SkillProfile:          profile,
		CompletedCourses:      completed,
		Major:                 cfg.Major,
		TotalCreditsCompleted: f.creditsCompleted,
	}, nil
}

func initLogging(cfg config.Config) {
	level := cfg.LogLevel
	if cfg.Verbose && !strings.EqualFold(level, "trace") {
		level = "debug"
	}
	logging.Init(logging.Config{Level: level, Format: cfg.LogFormat, Output: os.Stderr})
}

// buildRequirements loads the requirement catalog from the configured file,
// or the built-in majors when none is set
func buildRequirements(cfg config.Config) (*requirements.Catalog, error) {
	if cfg.RequirementsFile == "" {
		return requirements.NewCatalog()
	}
	if strings.HasSuffix(strings.ToLower(cfg.RequirementsFile), ".json") {
		if schemaPath := schemas.ResolveSchemaPath(schemas.RequirementCatalog); schemaPath != "" {
			if err := checkSchema(schemas.ValidateJSON(schemaPath, cfg.RequirementsFile), "requirement catalog"); err != nil {
				return nil, err
			}
		}
	}
	return requirements.LoadFile(cfg.RequirementsFile)
}

func buildCatalog(cfg config.Config) *catalog.Provider {
	return catalog.NewProvider(catalog.Options{
		Source:    cfg.CatalogSource,
		CachePath: cfg.CatalogCache,
		Fetch:     fetch.DefaultOptions(),
	})
}

func buildPostings(cfg config.Config) *postings.Collector {
	opts := postings.DefaultOptions()
	if cfg.JobSearchURL != "" {
		opts.SearchURL = cfg.JobSearchURL
	}
	if !cfg.UseBrowser {
		opts.Render = nil
	}
	return postings.NewCollector(opts)
}

// buildLLM creates the Gemini client, falling back to GEMINI_API_KEY
func buildLLM(ctx context.Context, apiKey string) (llm.Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

// engineOptions maps the configuration onto the engine's options
func engineOptions(cfg config.Config) pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.MaxCandidates = cfg.MaxCandidates
	opts.TopN = cfg.TopN
	opts.Batch = matching.BatchOptions{
		BatchSize:   cfg.BatchSize,
		Pause:       cfg.BatchPause(),
		CallTimeout: cfg.OracleTimeout(),
	}
	opts.Scheduler = scheduling.Options{
		CreditCap:          cfg.CreditCap,
		MaxTerms:           cfg.MaxTerms,
		StrictTermOrdering: cfg.StrictTermOrdering,
	}
	return opts
}

// buildEngine wires the catalog, requirement catalog and matcher into an engine.
// matcher may be nil for offline planning, where only Plan is used.
func buildEngine(cfg config.Config, courses pipeline.CourseSource, reqs *requirements.Catalog, matcher matching.Matcher) *pipeline.Engine {
	return pipeline.NewEngine(courses, reqs, matcher, engineOptions(cfg))
}

func breakerSettings(cfg config.Config) matching.BreakerSettings {
	settings := matching.DefaultBreakerSettings()
	if cfg.BreakerFailures > 0 {
		settings.ConsecutiveFailures = uint32(cfg.BreakerFailures)
	}
	return settings
}

// readJSON validates a JSON file against schema (when the schema can be
// found) and decodes it into v
func readJSON(path, schema, what string, v any) error {
	if schemaPath := resolveSchema(schema); schemaPath != "" {
		if err := checkSchema(schemas.ValidateJSON(schemaPath, path), what); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", what, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", what, err)
	}
	return nil
}

// writeJSON marshals v, validates it against schema and writes it to path,
// or to stdout when path is empty or "-"
func writeJSON(path, schema string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if schemaPath := resolveSchema(schema); schemaPath != "" {
		if err := checkSchema(schemas.ValidateBytes(schemaPath, data), "generated output"); err != nil {
			return err
		}
	}

	if path == "" || path == "-" {
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// resolveSchema finds a schema file; "" disables validation
func resolveSchema(schema string) string {
	if schema == "" {
		return ""
	}
	return schemas.ResolveSchemaPath(schema)
}

// checkSchema fails on validation errors and only warns when the schema
// itself could not be loaded
func checkSchema(err error, what string) error {
	if err == nil {
		return nil
	}
	var validationErr *schemas.ValidationError
	var schemaLoadErr *schemas.SchemaLoadError
	switch {
	case errors.As(err, &validationErr):
		return fmt.Errorf("%s does not validate against schema: %w", what, err)
	case errors.As(err, &schemaLoadErr):
		_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate %s against schema (schema loading failed): %v\n", what, err)
	default:
		_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate %s against schema: %v\n", what, err)
	}
	return nil
}
