package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/course-planner/internal/config"
	"github.com/jonathan/course-planner/internal/llm"
	"github.com/jonathan/course-planner/internal/observability"
	"github.com/jonathan/course-planner/internal/schemas"
	"github.com/jonathan/course-planner/internal/skills"
	"github.com/jonathan/course-planner/internal/types"
)

var extractSkillsCmd = &cobra.Command{
	Use:   "extract-skills",
	Short: "Build a skill profile for a career field from job postings",
	Long: `Collect job postings for a career field (or read them from files) and ask the LLM for
the technical skills, soft skills and knowledge domains they have in common. The
resulting profile validates against the skill_profile schema and can be passed to
recommend and schedule with --skills.`,
	RunE: runExtractSkills,
}

var (
	extractCareer     string
	extractPostings   []string
	extractOutput     string
	extractConfigPath string
	extractAPIKey     string
	extractUseBrowser bool
	extractVerbose    bool
)

func init() {
	extractSkillsCmd.Flags().StringVarP(&extractCareer, "career", "c", "", "Career field, e.g. \"Data Scientist\"")
	extractSkillsCmd.Flags().StringSliceVar(&extractPostings, "postings", nil, "Job posting text files to analyze instead of searching")
	extractSkillsCmd.Flags().StringVarP(&extractOutput, "out", "o", "", "Path to output JSON file (defaults to stdout)")
	extractSkillsCmd.Flags().StringVar(&extractConfigPath, "config", "", "Path to a YAML or JSON config file")
	extractSkillsCmd.Flags().StringVar(&extractAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	extractSkillsCmd.Flags().BoolVar(&extractUseBrowser, "use-browser", false, "Render posting pages in headless Chrome (requires Chrome)")
	extractSkillsCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print the extracted profile")

	_ = extractSkillsCmd.MarkFlagRequired("career")
	rootCmd.AddCommand(extractSkillsCmd)
}

func runExtractSkills(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	loaded, err := config.Load(extractConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := *loaded
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = extractAPIKey
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = extractUseBrowser
	}
	cfg = cfg.MergeWithDefaults(config.Default())
	initLogging(cfg)

	client, err := buildLLM(ctx, cfg.APIKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	profile, err := extractProfile(ctx, cfg, client, extractCareer, extractPostings)
	if err != nil {
		return err
	}

	if extractVerbose {
		observability.NewPrinter(os.Stderr).PrintSkillProfile(extractCareer, profile)
	}
	if err := writeJSON(extractOutput, schemas.SkillProfile, profile); err != nil {
		return err
	}
	if extractOutput != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Successfully extracted %d technical skills\nOutput: %s\n", len(profile.TechnicalSkills), extractOutput)
	}
	return nil
}

// extractProfile reads postings from files when given, otherwise collects
// them for the career field, and extracts the skill profile
func extractProfile(ctx context.Context, cfg config.Config, client llm.Client, careerField string, files []string) (*types.SkillProfile, error) {
	careerField = strings.TrimSpace(careerField)
	if careerField == "" {
		return nil, fmt.Errorf("career field is required")
	}

	var texts []string
	if len(files) > 0 {
		for _, path := range files {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read posting %s: %w", path, err)
			}
			texts = append(texts, string(data))
		}
	} else {
		result, err := buildPostings(cfg).Collect(ctx, careerField)
		if err != nil {
			return nil, fmt.Errorf("failed to collect job postings: %w", err)
		}
		if result.Sample {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: no live postings found for %q, using sample postings\n", careerField)
		}
		texts = result.Postings
	}

	profile, err := skills.ExtractProfile(ctx, client, texts, careerField)
	if err != nil {
		return nil, fmt.Errorf("failed to extract skills: %w", err)
	}
	return profile, nil
}
