package processing

import (
	"html"
	"regexp"
	"strings"
)

var (
	urlRegex   = regexp.MustCompile(`https?://[^\s]+`)
	whitespace = regexp.MustCompile(`\s+`)
)

// CleanHeadline prepares provider headline text for the classifier: HTML
// entities decoded, URLs removed, whitespace collapsed.
func CleanHeadline(input string) string {
	if input == "" {
		return ""
	}
	decoded := html.UnescapeString(input)
	decoded = urlRegex.ReplaceAllString(decoded, " ")
	decoded = whitespace.ReplaceAllString(decoded, " ")
	return strings.TrimSpace(decoded)
}

// Truncate caps text at max runes, appending an ellipsis when cut.
func Truncate(input string, max int) string {
	if max <= 0 {
		return input
	}
	runes := []rune(input)
	if len(runes) <= max {
		return input
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}

// ScoringText picks the text to classify for a headline: the summary when
// present, the title otherwise.
func ScoringText(title, summary string) string {
	if s := CleanHeadline(summary); s != "" {
		return s
	}
	return CleanHeadline(title)
}
