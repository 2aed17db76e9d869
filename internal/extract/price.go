package extract

import (
	"regexp"
	"strings"

	"github.com/bala-nullpointer/amznbsscraper/internal/normalize"
	"github.com/bala-nullpointer/amznbsscraper/internal/page"
)

// priceTextPattern matches Indian price formats: ₹1,234.00 or Rs 1,234.
var priceTextPattern = regexp.MustCompile(`(?:₹|Rs\.?\s*)([0-9,]+(?:\.[0-9]{2})?)`)

// PriceStrategy probes one container for a price. Empty means miss.
type PriceStrategy interface {
	Probe(container page.Element) string
}

// priceSelector reads the first element matching a known price-bearing
// selector and accepts the text only if it carries a currency marker.
type priceSelector struct {
	selector string
}

func (s priceSelector) Probe(container page.Element) string {
	spans := container.Find(s.selector)
	if spans.Count() == 0 {
		return ""
	}
	text, err := spans.First().Text()
	if err != nil {
		return ""
	}
	cleaned := normalize.CleanText(text)
	if cleaned != "" && (strings.Contains(cleaned, "₹") || strings.Contains(cleaned, "Rs")) {
		return cleaned
	}
	return ""
}

// priceTextScan scans the whole container text and synthesizes "₹<amount>".
type priceTextScan struct{}

func (priceTextScan) Probe(container page.Element) string {
	text, err := container.Text()
	if err != nil {
		return ""
	}
	m := priceTextPattern.FindStringSubmatch(normalize.CleanText(text))
	if m == nil {
		return ""
	}
	return "₹" + m[1]
}

func defaultPriceStrategies() []PriceStrategy {
	return []PriceStrategy{
		// Current bestsellers price span, then progressively more generic.
		priceSelector{selector: "span._cDEzb_p13n-sc-price_3mJ9Z"},
		priceSelector{selector: ".a-price-whole"},
		priceSelector{selector: ".a-price .a-offscreen"},
		priceSelector{selector: `[class*="price"]:not([class*="strike"])`},
		priceTextScan{},
	}
}

// ExtractPrice runs the price strategy chain against one container and
// returns the first non-empty hit, or "" when every strategy misses.
func ExtractPrice(container page.Element) string {
	for _, s := range defaultPriceStrategies() {
		if v := s.Probe(container); v != "" {
			return v
		}
	}
	return ""
}
