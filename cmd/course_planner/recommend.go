package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/course-planner/internal/db"
	"github.com/jonathan/course-planner/internal/matching"
	"github.com/jonathan/course-planner/internal/observability"
	"github.com/jonathan/course-planner/internal/pipeline"
	"github.com/jonathan/course-planner/internal/schemas"
	"github.com/jonathan/course-planner/internal/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank courses for a career field and plan them over upcoming terms",
	Long: `Run the full recommendation: match every uncompleted catalog course against the
skill profile with the LLM, rank the courses, pack them into terms and report degree
progress and skill coverage.

The skill profile is read from --skills; without it, postings for --career are
collected and a profile is extracted first. Configuration can be loaded with
--config; command-line flags override config file values.`,
	RunE: runRecommend,
}

var (
	recommendFlags       planFlags
	recommendCareer      string
	recommendSkills      string
	recommendOutput      string
	recommendAPIKey      string
	recommendDatabaseURL string
)

func init() {
	recommendFlags.register(recommendCmd)
	recommendCmd.Flags().StringVarP(&recommendCareer, "career", "c", "", "Career field, e.g. \"Data Scientist\"")
	recommendCmd.Flags().StringVarP(&recommendSkills, "skills", "s", "", "Path to a skill profile JSON file (extracted from postings when omitted)")
	recommendCmd.Flags().StringVarP(&recommendOutput, "out", "o", "", "Path to output JSON file (defaults to stdout)")
	recommendCmd.Flags().StringVar(&recommendAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	recommendCmd.Flags().StringVar(&recommendDatabaseURL, "db-url", "", "PostgreSQL connection URL for run persistence (optional, defaults to DATABASE_URL env var)")

	_ = recommendCmd.MarkFlagRequired("career")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := recommendFlags.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = recommendAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = recommendDatabaseURL
	}

	reqs, err := buildRequirements(cfg)
	if err != nil {
		return err
	}

	client, err := buildLLM(ctx, cfg.APIKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	var profile types.SkillProfile
	if recommendSkills != "" {
		if err := readJSON(recommendSkills, schemas.SkillProfile, "skill profile", &profile); err != nil {
			return err
		}
	} else {
		extracted, err := extractProfile(ctx, cfg, client, recommendCareer, nil)
		if err != nil {
			return err
		}
		profile = *extracted
	}

	req, err := recommendFlags.request(cfg, recommendCareer, &profile)
	if err != nil {
		return err
	}

	engine := buildEngine(cfg, buildCatalog(cfg), reqs, matching.NewLLMMatcher(client, breakerSettings(cfg)))

	// Run persistence is optional for the CLI
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			return err
		}
		engine.WithStore(database)
	}

	var runID string
	onProgress := func(event pipeline.ProgressEvent) {
		if event.RunID != "" {
			runID = event.RunID
		}
		if cfg.Verbose {
			_, _ = fmt.Fprintf(os.Stderr, "[%s] %s\n", event.Step, event.Message)
		}
	}

	rec, err := engine.Run(ctx, req, onProgress)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintRecommendation(req.MajorOrDefault(), rec)
	}
	if err := writeJSON(recommendOutput, schemas.Recommendation, rec); err != nil {
		return err
	}

	if recommendOutput != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Planned %d courses over %d terms\nOutput: %s\n", rec.Timeline.CourseCount(), len(rec.Timeline), recommendOutput)
	}
	if runID != "" {
		_, _ = fmt.Fprintf(os.Stderr, "Run ID: %s\n", runID)
	}
	return nil
}
