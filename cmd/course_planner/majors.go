package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/course-planner/internal/config"
)

var majorsCmd = &cobra.Command{
	Use:   "majors [major]",
	Short: "List majors or print one major's degree requirements",
	Long: `Without arguments, list the majors in the requirement catalog. With a major name,
print its requirement set as JSON; majors missing from the catalog get the default
requirements (120 credits, one elective bucket and three breadth buckets).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMajors,
}

var majorsRequirementsFile string

func init() {
	majorsCmd.Flags().StringVar(&majorsRequirementsFile, "requirements", "", "Requirement catalog file (YAML or JSON) replacing the built-in majors")
	rootCmd.AddCommand(majorsCmd)
}

func runMajors(_ *cobra.Command, args []string) error {
	cfg := config.Default()
	cfg.RequirementsFile = majorsRequirementsFile
	if err := cfg.Validate(); err != nil {
		return err
	}

	reqs, err := buildRequirements(cfg)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		for _, major := range reqs.Majors() {
			_, _ = fmt.Fprintln(os.Stdout, major)
		}
		return nil
	}

	set, found := reqs.Lookup(args[0])
	if !found {
		_, _ = fmt.Fprintf(os.Stderr, "Note: %q is not in the catalog, showing default requirements\n", args[0])
		set = reqs.Get(args[0])
	}
	return writeJSON("", "", set)
}
