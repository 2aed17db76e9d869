package extract

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bala-nullpointer/amznbsscraper/internal/page/pagetest"
)

const testBaseURL = "https://www.amazon.in"

func productContainer(asin, name, href string) *pagetest.Element {
	c := &pagetest.Element{Attrs: map[string]string{"data-asin": asin}}
	c.Add(productLinkSelector, &pagetest.Element{
		TextValue: name,
		Attrs:     map[string]string{"href": href},
	})
	return c
}

func TestContainerExtractorFullRecord(t *testing.T) {
	c := productContainer("B0TEST00001", "Wireless Bluetooth Headphones with Mic", "/product-name/dp/B0TEST00001")
	c.Add(rankBadgeSelector, &pagetest.Element{TextValue: "#1"})
	c.Add(`a[aria-label*="out of 5"]`, &pagetest.Element{
		Attrs: map[string]string{"aria-label": "4.2 out of 5 stars"},
	})
	c.Add("span._cDEzb_p13n-sc-price_3mJ9Z", &pagetest.Element{TextValue: "₹1,499.00"})

	e := NewContainerExtractor(testBaseURL, slog.Default())
	items := e.Extract(&pagetest.Elements{List: []*pagetest.Element{c}})

	require.Len(t, items, 1)
	got := items[0]
	assert.Equal(t, "B0TEST00001", got.ASIN)
	assert.Equal(t, "Wireless Bluetooth Headphones with Mic", got.Name)
	assert.Equal(t, "https://www.amazon.in/product-name/dp/B0TEST00001", got.Link)
	assert.Equal(t, "#1", got.Rank)
	assert.Equal(t, "4.2 out of 5 stars", got.Rating)
	assert.Equal(t, "₹1,499.00", got.Price)
}

func TestContainerExtractorRankDefaultsEmpty(t *testing.T) {
	c := productContainer("B0TEST00002", "Stainless Steel Insulated Water Bottle", "/dp/B0TEST00002")

	e := NewContainerExtractor(testBaseURL, slog.Default())
	items := e.Extract(&pagetest.Elements{List: []*pagetest.Element{c}})

	require.Len(t, items, 1)
	assert.Equal(t, "", items[0].Rank)
}

func TestContainerExtractorSkipsRatingAnchors(t *testing.T) {
	// The first anchor is a rating link; the second is the real product name.
	c := &pagetest.Element{Attrs: map[string]string{"data-asin": "B0TEST00003"}}
	c.Add(productLinkSelector,
		&pagetest.Element{
			TextValue: "4.5 out of 5 stars, 1,234 ratings",
			Attrs:     map[string]string{"href": "/dp/B0TEST00003#reviews"},
		},
		&pagetest.Element{
			TextValue: "Premium Cotton Bath Towel Set of 4",
			Attrs:     map[string]string{"href": "/dp/B0TEST00003"},
		},
	)

	e := NewContainerExtractor(testBaseURL, slog.Default())
	items := e.Extract(&pagetest.Elements{List: []*pagetest.Element{c}})

	require.Len(t, items, 1)
	assert.Equal(t, "Premium Cotton Bath Towel Set of 4", items[0].Name)
}

func TestContainerExtractorSkipsShortNames(t *testing.T) {
	c := productContainer("B0TEST00004", "Short name", "/dp/B0TEST00004")

	e := NewContainerExtractor(testBaseURL, slog.Default())
	items := e.Extract(&pagetest.Elements{List: []*pagetest.Element{c}})

	assert.Empty(t, items)
}

func TestContainerExtractorCapsAtHundred(t *testing.T) {
	var list []*pagetest.Element
	for i := 0; i < 120; i++ {
		list = append(list, productContainer("B0TESTASIN0", "A Perfectly Reasonable Product Name", "/dp/B0TESTASIN0"))
	}

	e := NewContainerExtractor(testBaseURL, slog.Default())
	items := e.Extract(&pagetest.Elements{List: list})

	assert.Len(t, items, 100)
}

func TestContainerExtractorOneBadContainerDoesNotAbort(t *testing.T) {
	broken := &pagetest.Element{TextErr: pagetest.ErrNotFound}
	good := productContainer("B0TEST00005", "Ergonomic Office Chair with Lumbar Support", "/dp/B0TEST00005")

	e := NewContainerExtractor(testBaseURL, slog.Default())
	items := e.Extract(&pagetest.Elements{List: []*pagetest.Element{broken, good}})

	require.Len(t, items, 1)
	assert.Equal(t, "B0TEST00005", items[0].ASIN)
}

func TestLooksLikeProductName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"Real product", "Wireless Bluetooth Headphones", true},
		{"Too short", "Headphones", false},
		{"Rating phrase", "4.5 out of 5 stars, 1,234 ratings", false},
		{"Mentions stars", "Five star rated product thing", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, looksLikeProductName(tt.input))
		})
	}
}

func TestAbsoluteURL(t *testing.T) {
	assert.Equal(t, "https://www.amazon.in/dp/B0X", absoluteURL(testBaseURL, "/dp/B0X"))
	assert.Equal(t, "https://other.example/dp/B0X", absoluteURL(testBaseURL, "https://other.example/dp/B0X"))
}
