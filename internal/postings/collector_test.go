package postings

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/course-planner/internal/fetch"
)

const searchPage = `<html><body>
<div class="job_seen_beacon"><h2 class="jobTitle">Data Engineer</h2><div class="job-snippet">Build pipelines in Python and SQL.</div></div>
<div class="job_seen_beacon"><h2 class="jobTitle">Analytics Engineer</h2><div class="job-snippet">Own the dbt models.</div></div>
<div class="job_seen_beacon"><h2 class="jobTitle">No snippet</h2></div>
</body></html>`

func TestParseSearchResults(t *testing.T) {
	postings, err := ParseSearchResults(searchPage, 10)
	require.NoError(t, err)
	require.Len(t, postings, 2)
	assert.Equal(t, "Title: Data Engineer\n\nDescription: Build pipelines in Python and SQL.", postings[0])

	limited, err := ParseSearchResults(searchPage, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSamplePostings(t *testing.T) {
	assert.Len(t, SamplePostings("Software Engineer"), 3)
	assert.Len(t, SamplePostings("senior software engineer"), 3)
	assert.Len(t, SamplePostings("Data Scientist"), 2)

	generic := SamplePostings("Nurse")
	require.Len(t, generic, 1)
	assert.True(t, strings.HasPrefix(generic[0], "Title: Nurse\n"))
}

func TestCollector_SearchWithRenderer(t *testing.T) {
	var rendered []string
	opts := Options{
		SearchURL: "https://jobs.example.com/search?q=%s",
		Render: func(_ context.Context, u string) (string, error) {
			rendered = append(rendered, u)
			return searchPage, nil
		},
	}
	c := NewCollector(opts)

	result, err := c.Collect(context.Background(), "Data Engineer")
	require.NoError(t, err)
	assert.False(t, result.Sample)
	assert.Len(t, result.Postings, 2)
	assert.Equal(t, []string{"https://jobs.example.com/search?q=Data+Engineer"}, rendered)
}

func TestCollector_FallsBackToSamples(t *testing.T) {
	opts := Options{
		SearchURL: "https://jobs.example.com/search?q=%s",
		Render: func(context.Context, string) (string, error) {
			return "", errors.New("chrome not installed")
		},
	}
	c := NewCollector(opts)

	result, err := c.Collect(context.Background(), "data scientist")
	require.NoError(t, err)
	assert.True(t, result.Sample)
	assert.Len(t, result.Postings, 2)
}

func TestCollector_PostingURLs(t *testing.T) {
	body := "<html><body><main>" + strings.Repeat("Design distributed systems in Go. ", 30) + "</main></body></html>"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	c := NewCollector(Options{URLs: []string{server.URL, "http://127.0.0.1:1/unreachable"}, Fetch: &fetch.Options{Timeout: time.Second}})

	result, err := c.Collect(context.Background(), "Backend Engineer")
	require.NoError(t, err)
	assert.False(t, result.Sample)
	require.Len(t, result.Postings, 1)
	assert.Contains(t, result.Postings[0], "distributed systems")
}

func TestCollector_CachesPerCareerField(t *testing.T) {
	var calls atomic.Int32
	opts := Options{
		SearchURL: "https://jobs.example.com/search?q=%s",
		TTL:       time.Hour,
		Render: func(context.Context, string) (string, error) {
			calls.Add(1)
			return searchPage, nil
		},
	}
	c := NewCollector(opts)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	first, err := c.Collect(context.Background(), "Data  Engineer")
	require.NoError(t, err)
	first.Postings[0] = "mutated"

	second, err := c.Collect(context.Background(), "data engineer")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.NotEqual(t, "mutated", second.Postings[0])

	now = now.Add(2 * time.Hour)
	_, err = c.Collect(context.Background(), "data engineer")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCollector_RequiresCareerField(t *testing.T) {
	_, err := NewCollector(Options{}).Collect(context.Background(), "  ")
	assert.Error(t, err)
}

func TestCollector_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCollector(Options{
		SearchURL: "https://jobs.example.com/search?q=%s",
		Render: func(ctx context.Context, _ string) (string, error) {
			return "", ctx.Err()
		},
	})
	_, err := c.Collect(ctx, "Data Engineer")
	assert.ErrorIs(t, err, context.Canceled)
}
