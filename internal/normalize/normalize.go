// Package normalize holds the pure field cleaners shared by every extraction
// path. All functions are total and idempotent: they never fail, and applying
// one twice gives the same result as applying it once.
package normalize

import (
	"regexp"
	"strings"
)

const (
	maxNameLen   = 500
	maxRatingLen = 100
)

var rankPattern = regexp.MustCompile(`#?(\d+)`)

// CleanText collapses whitespace runs (including newlines) to single spaces
// and trims both ends.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleanRank extracts the first digit run, optionally preceded by '#', and
// returns it in canonical "#<digits>" form. Returns "" when no digits exist.
func CleanRank(s string) string {
	m := rankPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return "#" + m[1]
}

// CleanName normalizes whitespace and truncates to 500 characters.
func CleanName(s string) string {
	return truncate(CleanText(s), maxNameLen)
}

// ValidateLink returns the link unchanged only if it carries a product path
// marker; anything else is rejected outright rather than repaired.
func ValidateLink(s string) string {
	if s == "" || !strings.Contains(s, "/dp/") {
		return ""
	}
	return s
}

// CleanRating normalizes whitespace and truncates to 100 characters.
func CleanRating(s string) string {
	return truncate(CleanText(s), maxRatingLen)
}

// CleanPrice normalizes whitespace. No truncation.
func CleanPrice(s string) string {
	return CleanText(s)
}

// truncate cuts at a rune boundary so multibyte names survive the cap intact.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
