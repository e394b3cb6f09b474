package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jonathan/course-planner/internal/catalog"
	"github.com/jonathan/course-planner/internal/observability"
	"github.com/jonathan/course-planner/internal/schemas"
	"github.com/jonathan/course-planner/internal/types"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Score and schedule already-matched courses without calling the LLM",
	Long: `Rank and schedule courses whose skill matches were computed earlier, for example the
"matches" artifact of a stored run. No LLM calls are made.

--matched is a JSON array of courses, each with a "match_result" object holding
relevance_score (0-100), matched_skills and matched_domains.`,
	RunE: runSchedule,
}

var (
	scheduleFlags   planFlags
	scheduleCareer  string
	scheduleSkills  string
	scheduleMatched string
	scheduleOutput  string
)

func init() {
	scheduleFlags.register(scheduleCmd)
	scheduleCmd.Flags().StringVarP(&scheduleCareer, "career", "c", "", "Career field, e.g. \"Data Scientist\"")
	scheduleCmd.Flags().StringVarP(&scheduleSkills, "skills", "s", "", "Path to a skill profile JSON file")
	scheduleCmd.Flags().StringVar(&scheduleMatched, "matched", "", "Path to a JSON array of matched courses")
	scheduleCmd.Flags().StringVarP(&scheduleOutput, "out", "o", "", "Path to output JSON file (defaults to stdout)")

	_ = scheduleCmd.MarkFlagRequired("career")
	_ = scheduleCmd.MarkFlagRequired("skills")
	_ = scheduleCmd.MarkFlagRequired("matched")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := scheduleFlags.loadConfig(cmd)
	if err != nil {
		return err
	}

	reqs, err := buildRequirements(cfg)
	if err != nil {
		return err
	}

	var profile types.SkillProfile
	if err := readJSON(scheduleSkills, schemas.SkillProfile, "skill profile", &profile); err != nil {
		return err
	}

	var matched []types.MatchedCourse
	if err := readJSON(scheduleMatched, "", "matched courses", &matched); err != nil {
		return err
	}

	req, err := scheduleFlags.request(cfg, scheduleCareer, &profile)
	if err != nil {
		return err
	}

	// Catalog credits for completed courses; matched courses take precedence
	courses := buildCatalog(cfg)
	known, err := courses.Courses(ctx)
	if err != nil {
		return err
	}
	all := slices.Clone(known)
	for _, m := range matched {
		all = append(all, m.Course)
	}

	engine := buildEngine(cfg, courses, reqs, nil)
	rec, err := engine.Plan(req, matched, catalog.NewIndex(all))
	if err != nil {
		return err
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintRecommendation(req.MajorOrDefault(), rec)
	}
	if err := writeJSON(scheduleOutput, schemas.Recommendation, rec); err != nil {
		return err
	}
	if scheduleOutput != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Planned %d courses over %d terms\nOutput: %s\n", rec.Timeline.CourseCount(), len(rec.Timeline), scheduleOutput)
	}
	return nil
}
