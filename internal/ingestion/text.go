package ingestion

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	spaceRun     = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	blankLineRun = regexp.MustCompile(`\n\n\n+`)
)

// blockSelectors are elements rendered on their own line.
const blockSelectors = "p, div, h1, h2, h3, h4, h5, h6, li, tr, section, article, blockquote, pre"

// CleanDescription converts an HTML job description into plain text.
// Scripts and styles are dropped, list items become "- " bullets and
// block elements end their line. Plain text input passes through CleanText.
func CleanDescription(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}
	if !strings.Contains(html, "<") {
		return CleanText(html), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, iframe").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
	})
	doc.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return CleanText(doc.Find("body").Text()), nil
}

// CleanText normalizes line endings, collapses runs of spaces within a line
// and limits blank lines to one in a row.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}

	result := blankLineRun.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}
