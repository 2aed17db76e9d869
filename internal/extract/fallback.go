package extract

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bala-nullpointer/amznbsscraper/internal/models"
	"github.com/bala-nullpointer/amznbsscraper/internal/normalize"
)

// maxFallbackItems caps the flat extraction per page.
const maxFallbackItems = 50

// FallbackExtractor works page-wide when container extraction under-yields.
// It parses a rendered HTML snapshot and correlates rank/price/rating to
// product links by positional index. Positional correlation is a heuristic:
// the flat collections are queried independently and nothing verifies their
// ordering stays aligned, so a missing element yields an empty field rather
// than a wrong record being dropped.
type FallbackExtractor struct {
	baseURL string
	logger  *slog.Logger
}

func NewFallbackExtractor(baseURL string, logger *slog.Logger) *FallbackExtractor {
	return &FallbackExtractor{
		baseURL: baseURL,
		logger:  logger.With("component", "fallback_extractor"),
	}
}

// Extract enumerates product links, rank badges, price spans and rating
// anchors at page scope and joins them by index.
func (e *FallbackExtractor) Extract(html string) []models.RawCandidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.logger.Warn("failed to parse page snapshot", "error", err)
		return nil
	}

	links := doc.Find(productLinkSelector)
	badges := doc.Find(rankBadgeSelector)
	prices := doc.Find("span._cDEzb_p13n-sc-price_3mJ9Z")
	ratings := doc.Find(`a[aria-label*="out of 5"]`)

	e.logger.Debug("flat fallback collections",
		"links", links.Length(), "badges", badges.Length(),
		"prices", prices.Length(), "ratings", ratings.Length())

	type productLink struct {
		name string
		link string
	}
	var valid []productLink
	links.Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || !strings.Contains(href, "/dp/") {
			return
		}
		name := normalize.CleanText(s.Text())
		if looksLikeProductName(name) {
			valid = append(valid, productLink{name: name, link: absoluteURL(e.baseURL, href)})
		}
	})
	if len(valid) > maxFallbackItems {
		valid = valid[:maxFallbackItems]
	}

	items := make([]models.RawCandidate, 0, len(valid))
	for idx, p := range valid {
		candidate := models.RawCandidate{Name: p.name, Link: p.link}
		if idx < badges.Length() {
			candidate.Rank = normalize.CleanText(badges.Eq(idx).Text())
		}
		if idx < prices.Length() {
			candidate.Price = normalize.CleanText(prices.Eq(idx).Text())
		}
		if idx < ratings.Length() {
			if label, ok := ratings.Eq(idx).Attr("aria-label"); ok {
				candidate.Rating = normalize.CleanText(label)
			}
		}
		items = append(items, candidate)
	}

	e.logger.Debug("flat fallback extraction complete", "items", len(items))
	return items
}
