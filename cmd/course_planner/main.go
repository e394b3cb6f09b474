// Package main provides the course_planner CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "course_planner",
	Short: "Course recommendation and multi-term planning",
	Long: `course_planner ranks courses against the skills a career field asks for and packs
them into a term-by-term plan that respects prerequisites, a per-term credit cap and
the declared major's degree requirements.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
