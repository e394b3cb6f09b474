// Package postings collects job posting text for a career field. Postings are
// read from a job board search page and from explicit posting URLs; when
// nothing can be collected the built-in sample postings are used instead.
package postings

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/course-planner/internal/fetch"
	"github.com/jonathan/course-planner/internal/logging"
)

// Collector defaults
const (
	DefaultSearchURL   = "https://www.indeed.com/jobs?q=%s&l=Madison%%2C+WI"
	DefaultTTL         = 24 * time.Hour
	DefaultMaxPostings = 10
)

// Options configures a Collector
type Options struct {
	// SearchURL is a job board search URL with one %s verb for the escaped
	// career field. Empty disables board search.
	SearchURL string
	// URLs are individual posting pages read in addition to the search
	URLs []string
	// TTL is how long collected postings are reused per career field
	TTL         time.Duration
	MaxPostings int
	Fetch       *fetch.Options
	// Render renders pages that need a browser; nil reads them over plain HTTP
	Render fetch.Renderer
}

// DefaultOptions searches Indeed and renders pages in headless Chrome
func DefaultOptions() Options {
	return Options{
		SearchURL:   DefaultSearchURL,
		TTL:         DefaultTTL,
		MaxPostings: DefaultMaxPostings,
		Fetch:       fetch.DefaultOptions(),
		Render:      fetch.BrowserRenderer(fetch.DefaultBrowserTimeout),
	}
}

// Result is the outcome of one collection
type Result struct {
	CareerField string   `json:"careerField"`
	Postings    []string `json:"postings"`
	// Sample is set when the postings are the built-in samples
	Sample bool `json:"sample"`
}

type entry struct {
	result    Result
	expiresAt time.Time
}

// Collector gathers and caches postings per career field. It is safe for concurrent use.
type Collector struct {
	opts Options
	now  func() time.Time

	mu    sync.Mutex
	cache map[string]entry
}

// NewCollector creates a collector
func NewCollector(opts Options) *Collector {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxPostings <= 0 {
		opts.MaxPostings = DefaultMaxPostings
	}
	if opts.Fetch == nil {
		opts.Fetch = fetch.DefaultOptions()
	}
	return &Collector{opts: opts, now: time.Now, cache: make(map[string]entry)}
}

// Collect returns postings for careerField. Source failures are logged and
// fall through to the samples; only a canceled ctx is returned as an error.
func (c *Collector) Collect(ctx context.Context, careerField string) (*Result, error) {
	careerField = strings.TrimSpace(careerField)
	if careerField == "" {
		return nil, fmt.Errorf("career field is required")
	}
	key := cacheKey(careerField)

	c.mu.Lock()
	if e, ok := c.cache[key]; ok && c.now().Before(e.expiresAt) {
		c.mu.Unlock()
		logging.Debug().Str("career", careerField).Msg("returning cached postings")
		return cloneResult(e.result), nil
	}
	c.mu.Unlock()

	var collected []string
	if c.opts.SearchURL != "" {
		found, err := c.search(ctx, careerField)
		if err != nil {
			logging.Warn().Err(err).Str("career", careerField).Msg("job board search failed")
		}
		collected = append(collected, found...)
	}
	for _, u := range c.opts.URLs {
		if len(collected) >= c.opts.MaxPostings {
			break
		}
		text, err := fetch.Text(ctx, u, c.opts.Fetch, c.opts.Render)
		if err != nil {
			logging.Warn().Err(err).Str("url", u).Msg("failed to read job posting")
			continue
		}
		if text != "" {
			collected = append(collected, text)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := Result{CareerField: careerField, Postings: collected}
	if len(collected) > c.opts.MaxPostings {
		result.Postings = collected[:c.opts.MaxPostings]
	}
	if len(result.Postings) == 0 {
		logging.Info().Str("career", careerField).Msg("using sample job postings")
		result.Postings = SamplePostings(careerField)
		result.Sample = true
	}

	c.mu.Lock()
	c.cache[key] = entry{result: result, expiresAt: c.now().Add(c.opts.TTL)}
	c.mu.Unlock()

	return cloneResult(result), nil
}

func (c *Collector) search(ctx context.Context, careerField string) ([]string, error) {
	searchURL := fmt.Sprintf(c.opts.SearchURL, url.QueryEscape(careerField))

	var html string
	if c.opts.Render != nil {
		rendered, err := c.opts.Render(ctx, searchURL)
		if err != nil {
			return nil, err
		}
		html = rendered
	} else {
		res, err := fetch.URL(ctx, searchURL, c.opts.Fetch)
		if err != nil {
			return nil, err
		}
		html = res.HTML()
	}

	return ParseSearchResults(html, c.opts.MaxPostings)
}

// ParseSearchResults reads job cards from a search results page, returning
// at most limit postings formatted as "Title: ...\n\nDescription: ...".
// Cards missing a title or snippet are skipped.
func ParseSearchResults(html string, limit int) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	var out []string
	doc.Find(".job_seen_beacon").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		title := strings.TrimSpace(card.Find(".jobTitle").First().Text())
		snippet := strings.TrimSpace(card.Find(".job-snippet").First().Text())
		if title != "" && snippet != "" {
			out = append(out, fmt.Sprintf("Title: %s\n\nDescription: %s", title, snippet))
		}
		return limit <= 0 || len(out) < limit
	})
	return out, nil
}

func cacheKey(careerField string) string {
	return strings.Join(strings.Fields(strings.ToLower(careerField)), "_")
}

func cloneResult(r Result) *Result {
	r.Postings = append([]string(nil), r.Postings...)
	return &r
}
