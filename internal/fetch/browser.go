package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jonathan/course-planner/internal/logging"
)

// MinContentLength is the shortest extracted text accepted from a plain HTTP
// fetch; anything shorter is treated as an unrendered single-page app.
const MinContentLength = 500

// DefaultBrowserTimeout bounds a single headless render
const DefaultBrowserTimeout = 15 * time.Second

// Renderer returns the rendered HTML of a page
type Renderer func(ctx context.Context, url string) (string, error)

// ShouldUseBrowser reports whether extracted text is too short to be the real page
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// BrowserRenderer returns a Renderer backed by headless Chrome with the given timeout.
// Chrome or Chromium must be installed.
func BrowserRenderer(timeout time.Duration) Renderer {
	if timeout <= 0 {
		timeout = DefaultBrowserTimeout
	}
	return func(ctx context.Context, url string) (string, error) {
		return WithBrowser(ctx, url, timeout)
	}
}

// WithBrowser renders url in headless Chrome and returns the page HTML
func WithBrowser(ctx context.Context, url string, timeout time.Duration) (string, error) {
	logging.Debug().Str("url", url).Msg("rendering page in headless browser")

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// job boards fill their listings after load
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: url, Op: "browser render", Err: err}
	}

	logging.Debug().Str("url", url).Int("bytes", len(html)).Msg("rendered page")
	return html, nil
}

// Text fetches url over HTTP and extracts its main text, re-rendering through
// render when the plain response looks empty. render may be nil.
func Text(ctx context.Context, url string, opts *Options, render Renderer) (string, error) {
	sel := SelectorsFor(url)

	var text string
	result, err := URL(ctx, url, opts)
	if err == nil {
		text, err = MainText(result.HTML(), sel)
	}
	if render == nil || (err == nil && !ShouldUseBrowser(text)) {
		return text, err
	}

	html, renderErr := render(ctx, url)
	if renderErr != nil {
		if err != nil {
			return "", fmt.Errorf("%w (browser fallback: %v)", err, renderErr)
		}
		// keep the short HTTP text rather than nothing
		return text, nil
	}
	return MainText(html, sel)
}
