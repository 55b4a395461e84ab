package report

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// The report HTML carries a <section id="anchor"> region summarizing where
// the user left off. Extraction is cosmetic: it feeds the pre-session
// "previously on this project" banner and nothing else depends on it.

var (
	anchorOpen  = regexp.MustCompile(`(?i)<section[^>]*\bid="anchor"[^>]*>`)
	blankRuns   = regexp.MustCompile(`\n{3,}`)
	stripPolicy = bluemonday.StrictPolicy()
)

// AnchorPreview returns a plain-text preview of the report's anchor section,
// capped at limit runes. When no anchor section exists the whole document is
// tag-stripped instead. Empty input yields an empty preview.
func AnchorPreview(document string, limit int) string {
	text := stripTags(anchorRegion(document))
	text = strings.TrimSpace(blankRuns.ReplaceAllString(text, "\n\n"))
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}

func anchorRegion(document string) string {
	loc := anchorOpen.FindStringIndex(document)
	if loc == nil {
		return document
	}
	rest := document[loc[1]:]
	if end := strings.Index(strings.ToLower(rest), "</section>"); end >= 0 {
		return rest[:end]
	}
	return rest
}

func stripTags(fragment string) string {
	return html.UnescapeString(stripPolicy.Sanitize(fragment))
}
