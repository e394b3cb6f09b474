// Package fetch retrieves remote documents for the planner: course catalog
// feeds, catalog guide pages and job postings. Plain HTTP is tried first;
// JavaScript-heavy pages can be rendered in a headless browser.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds a plain HTTP fetch
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent is sent unless Options overrides it
	DefaultUserAgent = "Mozilla/5.0 (compatible; CoursePlanner/1.0)"
	// MaxBodyBytes caps the bytes read from one response
	MaxBodyBytes = 32 << 20
)

// Result is a fetched document. StatusCode is set even when URL returns an error.
type Result struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
}

// HTML returns the body as a string
func (r *Result) HTML() string {
	return string(r.Body)
}

// Error reports a failed fetch of URL during Op
type Error struct {
	URL string
	Op  string
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("fetch %s: %s", e.URL, e.Op)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Options configures HTTP fetches. A nil *Options means DefaultOptions.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	Client    *http.Client
}

// DefaultOptions returns the settings used for a nil *Options
func DefaultOptions() *Options {
	return &Options{Timeout: DefaultTimeout, UserAgent: DefaultUserAgent}
}

func (o *Options) httpClient() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

func (o *Options) newRequest(ctx context.Context, target string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	ua := o.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	for k, v := range o.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// IsRemote reports whether location is an http(s) URL rather than a file path
func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Source loads location over HTTP when it is a URL and from disk otherwise
func Source(ctx context.Context, location string, opts *Options) ([]byte, error) {
	if !IsRemote(location) {
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, &Error{URL: location, Op: "read file", Err: err}
		}
		return data, nil
	}

	res, err := URL(ctx, location, opts)
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

// URL performs a GET. Any non-2xx status is an error; the result is still
// returned so callers can inspect the status and body.
func URL(ctx context.Context, target string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if u, err := url.Parse(target); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &Error{URL: target, Op: "invalid URL", Err: err}
	}

	req, err := opts.newRequest(ctx, target)
	if err != nil {
		return nil, &Error{URL: target, Op: "build request", Err: err}
	}

	resp, err := opts.httpClient().Do(req)
	if err != nil {
		return nil, &Error{URL: target, Op: "request", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, &Error{URL: target, Op: "read body", Err: err}
	}

	res := &Result{
		URL:         target,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return res, &Error{URL: target, Op: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return res, nil
}
