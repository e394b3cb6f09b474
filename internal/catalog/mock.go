package catalog

import (
	"slices"

	"github.com/jonathan/course-planner/internal/types"
)

var sampleCourses = []types.Course{
	{
		ID:            "CS 400",
		Title:         "Programming III",
		Description:   "Introduction to algorithm design and analysis. Topics include sorting, searching, graph algorithms, and dynamic programming.",
		Credits:       3,
		Prerequisites: []string{"CS 300"},
		Subject:       "CS",
		Number:        "400",
		Level:         types.LevelIntermediate,
	},
	{
		ID:            "CS 540",
		Title:         "Introduction to Artificial Intelligence",
		Description:   "Principles of knowledge-based search techniques, automatic deduction, knowledge representation, machine learning, and natural language processing.",
		Credits:       3,
		Prerequisites: []string{"CS 400", "MATH 340"},
		Subject:       "CS",
		Number:        "540",
		Level:         types.LevelAdvanced,
	},
	{
		ID:            "CS 564",
		Title:         "Database Management Systems",
		Description:   "Database design, query languages, transaction processing, and distributed databases.",
		Credits:       3,
		Prerequisites: []string{"CS 400"},
		Subject:       "CS",
		Number:        "564",
		Level:         types.LevelAdvanced,
	},
	{
		ID:            "STAT 340",
		Title:         "Data Science Modeling I",
		Description:   "Introduction to statistical modeling, machine learning, and data science techniques.",
		Credits:       3,
		Prerequisites: []string{"MATH 221", "CS 220"},
		Subject:       "STAT",
		Number:        "340",
		Level:         types.LevelIntermediate,
	},
	{
		ID:            "ECE 532",
		Title:         "Matrix Methods in Machine Learning",
		Description:   "Linear algebra and optimization methods for machine learning applications.",
		Credits:       3,
		Prerequisites: []string{"MATH 340"},
		Subject:       "ECE",
		Number:        "532",
		Level:         types.LevelAdvanced,
	},
}

// SampleCourses returns the built-in catalog served when no feed can be loaded
func SampleCourses() []types.Course {
	out := make([]types.Course, len(sampleCourses))
	for i, c := range sampleCourses {
		c.Prerequisites = slices.Clone(c.Prerequisites)
		out[i] = c
	}
	return out
}
