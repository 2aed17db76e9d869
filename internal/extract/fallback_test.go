package extract

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fallbackPage(n int) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<span class="zg-bdg-text">#%d</span>`, i+1)
		fmt.Fprintf(&b, `<a class="a-link-normal" href="/product-%d/dp/B0FALLBACK%d">Fallback Product Number %d Deluxe Edition</a>`, i, i, i)
		fmt.Fprintf(&b, `<a class="a-link-normal" href="/product-%d/dp/B0FALLBACK%d#reviews" aria-label="4.%d out of 5 stars">4.%d out of 5 stars</a>`, i, i, i%10, i%10)
		fmt.Fprintf(&b, `<span class="_cDEzb_p13n-sc-price_3mJ9Z">₹%d99.00</span>`, i+1)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func TestFallbackExtractorCorrelatesByIndex(t *testing.T) {
	e := NewFallbackExtractor(testBaseURL, slog.Default())
	items := e.Extract(fallbackPage(3))

	require.Len(t, items, 3)
	first := items[0]
	assert.Equal(t, "Fallback Product Number 0 Deluxe Edition", first.Name)
	assert.Equal(t, "https://www.amazon.in/product-0/dp/B0FALLBACK0", first.Link)
	assert.Equal(t, "#1", first.Rank)
	assert.Equal(t, "₹199.00", first.Price)
	assert.Equal(t, "4.0 out of 5 stars", first.Rating)
}

func TestFallbackExtractorFiltersRatingLinks(t *testing.T) {
	// Rating anchors share the product-link selector but must not become
	// candidates themselves.
	e := NewFallbackExtractor(testBaseURL, slog.Default())
	items := e.Extract(fallbackPage(2))

	for _, it := range items {
		assert.NotContains(t, strings.ToLower(it.Name), "star")
	}
}

func TestFallbackExtractorMissingCorrelatesYieldEmptyFields(t *testing.T) {
	html := `<html><body>
		<a class="a-link-normal" href="/x/dp/B0NOEXTRAS1">Lonely Product With No Rank Or Price</a>
	</body></html>`

	e := NewFallbackExtractor(testBaseURL, slog.Default())
	items := e.Extract(html)

	require.Len(t, items, 1)
	assert.Equal(t, "", items[0].Rank)
	assert.Equal(t, "", items[0].Price)
	assert.Equal(t, "", items[0].Rating)
}

func TestFallbackExtractorCapsAtFifty(t *testing.T) {
	e := NewFallbackExtractor(testBaseURL, slog.Default())
	items := e.Extract(fallbackPage(60))

	assert.Len(t, items, 50)
}

func TestFallbackExtractorIgnoresNonProductHrefs(t *testing.T) {
	html := `<html><body>
		<a class="a-link-normal" href="/gp/bestsellers/">A Category Link With A Long Enough Name</a>
	</body></html>`

	e := NewFallbackExtractor(testBaseURL, slog.Default())
	assert.Empty(t, e.Extract(html))
}
