package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/course-planner/internal/types"
)

// Guide page selectors. University course guides rendered by CourseLeaf share
// this markup.
const (
	blockSelector     = ".courseblock"
	codeSelector      = ".courseblockcode"
	titleSelector     = ".courseblocktitle"
	creditsSelector   = ".courseblockcredits"
	descSelector      = ".courseblockdesc"
	extraSelector     = ".courseblockextra"
	requisitesLabel   = "requisites"
	titleSeparatorSet = " —–-.:|"
)

var courseCodePattern = regexp.MustCompile(`\b([A-Z]{2,}(?:[ &][A-Z]{2,})*)\s+(\d{3})\b`)

// ParseGuideHTML extracts courses from a catalog guide page
func ParseGuideHTML(html string) ([]types.Course, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse guide HTML: %w", err)
	}

	var records []map[string]any
	doc.Find(blockSelector).Each(func(_ int, block *goquery.Selection) {
		code := normalizeSpace(block.Find(codeSelector).First().Text())
		title := normalizeSpace(block.Find(titleSelector).First().Text())
		if code == "" {
			// some guides put the code only in the title line
			if m := courseCodePattern.FindStringSubmatchIndex(title); m != nil && m[0] == 0 {
				code = title[:m[1]]
			}
		}
		title = strings.TrimLeft(strings.TrimPrefix(title, code), titleSeparatorSet)

		record := map[string]any{
			"code":          code,
			"title":         title,
			"description":   normalizeSpace(block.Find(descSelector).First().Text()),
			"credits":       normalizeSpace(block.Find(creditsSelector).First().Text()),
			"prerequisites": requisites(block),
		}
		records = append(records, record)
	})

	return NormalizeAll(records), nil
}

func requisites(block *goquery.Selection) []any {
	var prereqs []any
	block.Find(extraSelector).Each(func(_ int, extra *goquery.Selection) {
		text := normalizeSpace(extra.Text())
		if !strings.HasPrefix(strings.ToLower(text), requisitesLabel) {
			return
		}
		for _, m := range courseCodePattern.FindAllStringSubmatch(text, -1) {
			prereqs = append(prereqs, m[1]+" "+m[2])
		}
	})
	return prereqs
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
