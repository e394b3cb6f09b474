package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/course-planner/internal/fetch"
	"github.com/jonathan/course-planner/internal/logging"
	"github.com/jonathan/course-planner/internal/metrics"
	"github.com/jonathan/course-planner/internal/types"
)

// DefaultSource is the public course feed used when no source is configured
const DefaultSource = "https://raw.githubusercontent.com/twangodev/uw-coursemap/main/data/courses.json"

// DefaultTTL is how long a loaded catalog is served from memory
const DefaultTTL = 24 * time.Hour

// Options configures a Provider
type Options struct {
	// Source is a feed URL or a local file path. Empty disables loading and
	// the sample catalog is served.
	Source string
	// CachePath is where the normalized catalog is persisted between runs. Empty disables it.
	CachePath string
	// TTL bounds the in-memory copy. Zero means DefaultTTL.
	TTL   time.Duration
	Fetch *fetch.Options
}

// Criteria filters a catalog search. Empty fields match everything.
type Criteria struct {
	Subject string
	Level   string
	Text    string
}

// Provider serves the course catalog with a memory cache, a file cache and a
// sample-catalog fallback, in that order of preference.
type Provider struct {
	opts Options
	now  func() time.Time

	mu       sync.Mutex
	courses  []types.Course
	loadedAt time.Time
}

// NewProvider creates a catalog provider
func NewProvider(opts Options) *Provider {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	return &Provider{opts: opts, now: time.Now}
}

// Courses returns the catalog. Load failures fall back to the sample catalog;
// the only error returned is ctx's. The slice is shared and must not be modified.
func (p *Provider) Courses(ctx context.Context) ([]types.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.courses != nil && p.now().Sub(p.loadedAt) < p.opts.TTL {
		metrics.RecordCatalogLoad(metrics.SourceMemory, len(p.courses))
		return p.courses, nil
	}

	courses, source := p.load(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.courses = courses
	p.loadedAt = p.now()
	metrics.RecordCatalogLoad(source, len(courses))
	return courses, nil
}

// Refresh drops the memory and file caches and reloads from the source
func (p *Provider) Refresh(ctx context.Context) ([]types.Course, error) {
	p.mu.Lock()
	p.courses = nil
	if p.opts.CachePath != "" {
		if err := os.Remove(p.opts.CachePath); err != nil && !os.IsNotExist(err) {
			logging.Warn().Err(err).Str("path", p.opts.CachePath).Msg("failed to remove catalog cache")
		}
	}
	p.mu.Unlock()

	return p.Courses(ctx)
}

// Search filters the catalog. Subject matches case-insensitively, Level
// exactly, and Text is a case-insensitive substring of title, description or code.
func (p *Provider) Search(ctx context.Context, criteria Criteria) ([]types.Course, error) {
	courses, err := p.Courses(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(courses, criteria), nil
}

// Subjects returns the distinct subjects in the catalog, sorted
func (p *Provider) Subjects(ctx context.Context) ([]string, error) {
	courses, err := p.Courses(ctx)
	if err != nil {
		return nil, err
	}
	return Subjects(courses), nil
}

// Filter applies criteria to courses, preserving order
func Filter(courses []types.Course, criteria Criteria) []types.Course {
	text := strings.ToLower(strings.TrimSpace(criteria.Text))

	out := make([]types.Course, 0, len(courses))
	for _, c := range courses {
		if criteria.Subject != "" && !strings.EqualFold(c.Subject, criteria.Subject) {
			continue
		}
		if criteria.Level != "" && c.Level != criteria.Level {
			continue
		}
		if text != "" &&
			!strings.Contains(strings.ToLower(c.Title), text) &&
			!strings.Contains(strings.ToLower(c.Description), text) &&
			!strings.Contains(strings.ToLower(c.ID), text) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Subjects returns the distinct non-empty subjects of courses, sorted
func Subjects(courses []types.Course) []string {
	set := make(map[string]struct{})
	for _, c := range courses {
		if c.Subject != "" {
			set[c.Subject] = struct{}{}
		}
	}
	subjects := make([]string, 0, len(set))
	for s := range set {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)
	return subjects
}

// load must be called with p.mu held
func (p *Provider) load(ctx context.Context) ([]types.Course, string) {
	if courses, ok := p.readCache(); ok {
		logging.Debug().Int("courses", len(courses)).Str("path", p.opts.CachePath).Msg("loaded catalog from file cache")
		return courses, metrics.SourceFile
	}

	if p.opts.Source == "" {
		return SampleCourses(), metrics.SourceFallback
	}

	data, err := fetch.Source(ctx, p.opts.Source, p.opts.Fetch)
	if err != nil {
		logging.Warn().Err(err).Str("source", p.opts.Source).Msg("catalog fetch failed, using sample catalog")
		return SampleCourses(), metrics.SourceFallback
	}

	courses, err := ParseFeed(data)
	if err == nil && len(courses) == 0 {
		err = &LoadError{Source: p.opts.Source, Message: "feed contains no courses"}
	}
	if err != nil {
		logging.Warn().Err(err).Str("source", p.opts.Source).Msg("catalog feed unusable, using sample catalog")
		return SampleCourses(), metrics.SourceFallback
	}

	p.writeCache(courses)
	logging.Info().Int("courses", len(courses)).Str("source", p.opts.Source).Msg("loaded course catalog")
	return courses, metrics.SourceRemote
}

func (p *Provider) readCache() ([]types.Course, bool) {
	if p.opts.CachePath == "" {
		return nil, false
	}
	data, err := os.ReadFile(p.opts.CachePath)
	if err != nil {
		return nil, false
	}
	var courses []types.Course
	if err := json.Unmarshal(data, &courses); err != nil || len(courses) == 0 {
		logging.Warn().Err(err).Str("path", p.opts.CachePath).Msg("ignoring unreadable catalog cache")
		return nil, false
	}
	for i := range courses {
		if courses[i].Prerequisites == nil {
			courses[i].Prerequisites = []string{}
		}
	}
	return courses, true
}

func (p *Provider) writeCache(courses []types.Course) {
	if p.opts.CachePath == "" {
		return
	}
	data, err := json.MarshalIndent(courses, "", "  ")
	if err != nil {
		logging.Warn().Err(err).Msg("failed to encode catalog cache")
		return
	}
	if err := os.MkdirAll(filepath.Dir(p.opts.CachePath), 0755); err != nil {
		logging.Warn().Err(err).Str("path", p.opts.CachePath).Msg("failed to create catalog cache directory")
		return
	}
	if err := os.WriteFile(p.opts.CachePath, data, 0644); err != nil {
		logging.Warn().Err(err).Str("path", p.opts.CachePath).Msg("failed to write catalog cache")
	}
}

// LoadFile reads and normalizes a catalog document from disk without caching
func LoadFile(path string) ([]types.Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Message: "failed to read file", Cause: err}
	}
	courses, err := ParseFeed(data)
	if err != nil {
		return nil, &LoadError{Source: path, Message: "failed to decode catalog", Cause: err}
	}
	return courses, nil
}

// Index maps course identifiers to courses
type Index map[string]types.Course

// NewIndex builds an Index over courses
func NewIndex(courses []types.Course) Index {
	idx := make(Index, len(courses))
	for _, c := range courses {
		idx[c.ID] = c
	}
	return idx
}

// Credits returns the catalog credits of id, or DefaultCredits when unknown
func (idx Index) Credits(id string) int {
	if c, ok := idx[id]; ok && c.Credits > 0 {
		return c.Credits
	}
	return DefaultCredits
}

// Without returns courses whose identifiers are not in exclude, preserving order
func Without(courses []types.Course, exclude types.CourseSet) []types.Course {
	return slices.DeleteFunc(slices.Clone(courses), func(c types.Course) bool {
		return exclude.Has(c.ID)
	})
}
