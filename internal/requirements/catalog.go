// Package requirements provides the per-major degree requirement catalog.
// Requirement sets are loaded once and are read-only afterwards; lookups
// hand out copies so concurrent requests never share mutable state.
package requirements

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/course-planner/internal/types"
)

//go:embed majors.json
var builtinMajors []byte

// Default requirement values used for majors absent from the catalog
const (
	DefaultTotalCredits    = 120
	defaultElectiveCredits = 30
	defaultBreadthCredits  = 6
)

// catalogFile is the on-disk shape of a requirement catalog
type catalogFile struct {
	Majors []types.RequirementSet `json:"majors" yaml:"majors"`
}

// Catalog maps major names to their requirement sets
type Catalog struct {
	sets  map[string]types.RequirementSet
	order []string
}

// NewCatalog loads the built-in requirement catalog
func NewCatalog() (*Catalog, error) {
	return Parse(builtinMajors, "builtin")
}

// MustNewCatalog loads the built-in catalog, panicking if it is malformed.
// The built-in data is compiled in, so a failure here is a programming error.
func MustNewCatalog() *Catalog {
	c, err := NewCatalog()
	if err != nil {
		panic(fmt.Sprintf("failed to load builtin requirements: %v", err))
	}
	return c
}

// LoadFile loads a requirement catalog from a JSON or YAML file, chosen by extension
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Message: "failed to read file", Cause: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data, path)
	default:
		return Parse(data, path)
	}
}

// Parse builds a catalog from JSON content. source names the origin for error messages.
func Parse(data []byte, source string) (*Catalog, error) {
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &LoadError{Source: source, Message: "failed to parse JSON", Cause: err}
	}
	return build(file, source)
}

// ParseYAML builds a catalog from YAML content
func ParseYAML(data []byte, source string) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &LoadError{Source: source, Message: "failed to parse YAML", Cause: err}
	}
	return build(file, source)
}

func build(file catalogFile, source string) (*Catalog, error) {
	c := &Catalog{sets: make(map[string]types.RequirementSet, len(file.Majors))}
	for i, set := range file.Majors {
		if strings.TrimSpace(set.Major) == "" {
			return nil, &LoadError{Source: source, Message: fmt.Sprintf("majors[%d]: major name is empty", i)}
		}
		if set.TotalCredits <= 0 {
			return nil, &LoadError{Source: source, Message: fmt.Sprintf("%s: total_credits must be positive", set.Major)}
		}
		if _, dup := c.sets[set.Major]; dup {
			return nil, &LoadError{Source: source, Message: fmt.Sprintf("duplicate major %q", set.Major)}
		}
		c.sets[set.Major] = set
		c.order = append(c.order, set.Major)
	}

	return c, nil
}

// Get returns the requirement set for a major, falling back to
// DefaultRequirements when the major is not in the catalog.
func (c *Catalog) Get(major string) *types.RequirementSet {
	if set, ok := c.Lookup(major); ok {
		return set
	}
	return DefaultRequirements(major)
}

// Lookup returns a copy of the requirement set for a major and whether it was found
func (c *Catalog) Lookup(major string) (*types.RequirementSet, bool) {
	set, ok := c.sets[major]
	if !ok {
		return nil, false
	}
	return clone(set), true
}

// Majors returns the catalog's major names in declaration order
func (c *Catalog) Majors() []string {
	return slices.Clone(c.order)
}

// DefaultRequirements returns the generic requirement set for an unknown major:
// no required courses, one 30-credit elective bucket open to any subject and
// three 6-credit breadth buckets.
func DefaultRequirements(major string) *types.RequirementSet {
	return &types.RequirementSet{
		Major:        major,
		TotalCredits: DefaultTotalCredits,
		Required:     []string{},
		Electives: []types.ElectiveCategory{
			{Name: "Major Electives", Subjects: []string{}, CreditsNeeded: defaultElectiveCredits},
		},
		Breadth: []types.BreadthCategory{
			{Name: "Humanities", Subjects: []string{"ENGLISH", "HISTORY", "PHILOSOPHY"}, Credits: defaultBreadthCredits},
			{Name: "Social Science", Subjects: []string{"ECON", "PSYCH", "SOC"}, Credits: defaultBreadthCredits},
			{Name: "Natural Science", Subjects: []string{"PHYSICS", "CHEM", "BIOLOGY"}, Credits: defaultBreadthCredits},
		},
	}
}

func clone(set types.RequirementSet) *types.RequirementSet {
	out := set
	out.Required = slices.Clone(set.Required)
	out.Electives = make([]types.ElectiveCategory, len(set.Electives))
	for i, cat := range set.Electives {
		cat.Subjects = slices.Clone(cat.Subjects)
		out.Electives[i] = cat
	}
	out.Breadth = make([]types.BreadthCategory, len(set.Breadth))
	for i, cat := range set.Breadth {
		cat.Subjects = slices.Clone(cat.Subjects)
		out.Breadth[i] = cat
	}
	return &out
}
