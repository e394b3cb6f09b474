package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/course-planner/internal/schemas"
	"github.com/jonathan/course-planner/internal/server"
	"github.com/jonathan/course-planner/internal/transcript"
	"github.com/jonathan/course-planner/internal/types"
)

var parseTranscriptCmd = &cobra.Command{
	Use:   "parse-transcript",
	Short: "Extract passed courses from a plain-text transcript",
	Long: `Read a plain-text transcript and print the passed courses it lists as JSON.

Rows of the form "CS 400  Programming III  3.00  A" are read with their credits and
grade; when no such rows exist every course code in the text is taken. With --manual
the input is read as one course code per line.`,
	RunE: runParseTranscript,
}

var (
	transcriptInput  string
	transcriptOutput string
	transcriptManual bool
)

func init() {
	parseTranscriptCmd.Flags().StringVarP(&transcriptInput, "in", "i", "", "Path to the transcript text file")
	parseTranscriptCmd.Flags().StringVarP(&transcriptOutput, "out", "o", "", "Path to output JSON file (defaults to stdout)")
	parseTranscriptCmd.Flags().BoolVar(&transcriptManual, "manual", false, "Read one course code per line instead of transcript rows")

	_ = parseTranscriptCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(parseTranscriptCmd)
}

func runParseTranscript(_ *cobra.Command, _ []string) error {
	data, err := os.ReadFile(transcriptInput)
	if err != nil {
		return fmt.Errorf("failed to read transcript: %w", err)
	}

	parse := transcript.ParseText
	if transcriptManual {
		parse = transcript.ParseManual
	}
	courses, err := parse(string(data))
	if err != nil {
		return err
	}

	if err := writeJSON(transcriptOutput, schemas.Transcript, server.TranscriptResponse{
		Success:      true,
		CoursesFound: len(courses),
		Courses:      courses,
	}); err != nil {
		return err
	}

	if transcriptOutput != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Found %d courses\nOutput: %s\n", len(courses), transcriptOutput)
	}
	return nil
}

// transcriptCourses reads transcript text into completed courses
func transcriptCourses(text string) ([]types.CompletedCourse, error) {
	courses, err := transcript.ParseText(text)
	if err != nil {
		return nil, err
	}
	return transcript.ToCompleted(courses), nil
}
