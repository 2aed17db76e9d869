package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Empty", "", ""},
		{"Simple", "hello world", "hello world"},
		{"Collapses runs", "hello   world", "hello world"},
		{"Newlines and tabs", "hello\n\tworld\n", "hello world"},
		{"Leading and trailing", "  hello world  ", "hello world"},
		{"Only whitespace", " \n\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestCleanRank(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Already canonical", "#1", "#1"},
		{"Embedded rank", "Best Sellers Rank #42", "#42"},
		{"Bare digits", "7", "#7"},
		{"No digits", "no digits", ""},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanRank(tt.input))
		})
	}
}

func TestCleanName(t *testing.T) {
	long := strings.Repeat("a", 600)
	assert.Len(t, CleanName(long), 500)
	assert.Equal(t, "Some Product Name", CleanName("  Some   Product\nName "))

	// Multibyte names are cut at a rune boundary, never mid-character.
	unicodeName := strings.Repeat("₹", 600)
	got := CleanName(unicodeName)
	assert.Equal(t, 500, len([]rune(got)))
}

func TestValidateLink(t *testing.T) {
	assert.Equal(t, "https://x/dp/ABC123", ValidateLink("https://x/dp/ABC123"))
	assert.Equal(t, "", ValidateLink("https://x/other/ABC123"))
	assert.Equal(t, "", ValidateLink(""))
}

func TestCleanRating(t *testing.T) {
	assert.Equal(t, "4.5 out of 5 stars", CleanRating(" 4.5  out of 5 stars "))
	assert.Len(t, CleanRating(strings.Repeat("x", 150)), 100)
}

func TestCleanPrice(t *testing.T) {
	assert.Equal(t, "₹1,299.00", CleanPrice(" ₹1,299.00\n"))
}

// Every cleaner must be a fixed point of itself.
func TestIdempotence(t *testing.T) {
	inputs := []string{
		"", "  spaced   out  ", "Best Sellers Rank #42", "#3",
		"₹1,299.00", "4.5 out of 5 stars", strings.Repeat("word ", 200),
	}

	fns := map[string]func(string) string{
		"CleanText":   CleanText,
		"CleanRank":   CleanRank,
		"CleanName":   CleanName,
		"CleanRating": CleanRating,
		"CleanPrice":  CleanPrice,
	}

	for name, fn := range fns {
		t.Run(name, func(t *testing.T) {
			for _, in := range inputs {
				once := fn(in)
				assert.Equal(t, once, fn(once), "input %q", in)
			}
		})
	}
}
