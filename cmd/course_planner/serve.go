package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/course-planner/internal/config"
	"github.com/jonathan/course-planner/internal/db"
	"github.com/jonathan/course-planner/internal/logging"
	"github.com/jonathan/course-planner/internal/matching"
	"github.com/jonathan/course-planner/internal/server"
	"github.com/jonathan/course-planner/internal/server/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the recommendation pipeline, the course catalog,
transcript parsing and career skill analysis as REST endpoints.

GEMINI_API_KEY is required. DATABASE_URL is optional; when set, every run and its
artifacts are stored and the /api/runs endpoints are enabled.`,
	RunE: runServe,
}

var (
	serveConfigPath  string
	servePort        int
	serveAPIKey      string
	serveDatabaseURL string
	serveCatalog     string
)

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to a YAML or JSON config file")
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	serveCmd.Flags().StringVar(&serveCatalog, "catalog", "", "Course catalog URL or file (defaults to COURSE_CATALOG_URL or the sample catalog)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	loaded, err := config.Load(serveConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := *loaded
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = serveAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = serveDatabaseURL
	}
	if cmd.Flags().Changed("catalog") {
		cfg.CatalogSource = serveCatalog
	}
	cfg = cfg.MergeWithDefaults(config.Default())
	if err := cfg.Validate(); err != nil {
		return err
	}
	initLogging(cfg)

	reqs, err := buildRequirements(cfg)
	if err != nil {
		return err
	}

	client, err := buildLLM(ctx, cfg.APIKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	courses := buildCatalog(cfg)
	engine := buildEngine(cfg, courses, reqs, matching.NewLLMMatcher(client, breakerSettings(cfg)))

	deps := server.Deps{
		Engine:       engine,
		Catalog:      courses,
		Requirements: reqs,
		Postings:     buildPostings(cfg),
		LLM:          client,
	}

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
		deps.Runs = database
	} else {
		logging.Info().Msg("DATABASE_URL not set, runs will not be persisted")
	}

	srv, err := server.New(server.Config{Port: cfg.Port, RateLimit: rateLimitConfig(cfg.RateLimit)}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// rateLimitConfig maps the configured limits onto the limiter's tiers
func rateLimitConfig(cfg config.RateLimitConfig) *ratelimit.Config {
	rl := ratelimit.DefaultConfig()
	rl.Enabled = cfg.Enabled
	if cfg.DefaultLimit > 0 {
		rl.DefaultLimit = cfg.DefaultLimit
	}
	if cfg.DefaultWindow > 0 {
		rl.DefaultWindow = cfg.DefaultWindow
	}
	rl.Whitelist = ratelimit.IPSet(cfg.Whitelist)
	rl.Blacklist = ratelimit.IPSet(cfg.Blacklist)
	return rl
}
