package fetch

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// chrome is removed from every page before text is read
const chrome = "nav, footer, header, script, style, noscript, iframe, .sidebar, .cookie-banner, .popup"

// MainText returns the text of the first element matching sel.Content, or of
// the body when none match. Page chrome and sel.Noise are removed first.
// Lines are trimmed and blank lines dropped.
func MainText(html string, sel Selectors) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(chrome).Remove()
	if len(sel.Noise) > 0 {
		doc.Find(strings.Join(sel.Noise, ", ")).Remove()
	}

	root := doc.Find("body")
	for _, selector := range sel.Content {
		if match := doc.Find(selector); match.Length() > 0 {
			root = match.First()
			break
		}
	}
	return compactLines(root.Text()), nil
}

// DefaultTextSelectors locate the main content of general pages such as
// catalog guides
func DefaultTextSelectors() []string {
	return []string{"main", "article", ".content", "#content", ".main-content", "#main-content"}
}

// JobPostingSelectors locate a posting body on boards without dedicated selectors
func JobPostingSelectors() []string {
	return append([]string{
		".job-description",
		"#job-description",
		".job-content",
		"#job-content",
		".job-details",
		".posting-content",
		"[data-testid='job-description']",
	}, DefaultTextSelectors()[:4]...)
}

func compactLines(text string) string {
	var sb strings.Builder
	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
	}
	return sb.String()
}
