// Package extract implements the resilient extraction engine: strategy-chain
// field extractors, lazy-load convergence detection, container and flat
// fallback product extraction, and the validation/dedup pipeline.
//
// Category pages render with generated class names that shift between
// categories and over time, so every field is probed through an ordered list
// of heuristics, most specific first. A strategy that finds nothing is a
// miss, not an error; the chain falls through to the next one.
package extract

import (
	"regexp"
	"strings"

	"github.com/bala-nullpointer/amznbsscraper/internal/normalize"
	"github.com/bala-nullpointer/amznbsscraper/internal/page"
)

// maxStrategyProbes bounds how many matches a single strategy inspects.
const maxStrategyProbes = 3

var ratingTextPattern = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*out\s*of\s*5`)

// RatingStrategy probes one container for a rating value. An empty return
// means the strategy found nothing and the next one should be tried.
type RatingStrategy interface {
	Probe(container page.Element) string
}

// ratingAriaLabel reads the accessible label of a rating anchor. The most
// reliable signal across categories.
type ratingAriaLabel struct{}

func (ratingAriaLabel) Probe(container page.Element) string {
	anchors := container.Find(`a[aria-label*="out of 5"]`)
	n := anchors.Count()
	if n > maxStrategyProbes {
		n = maxStrategyProbes
	}
	for i := 0; i < n; i++ {
		label, err := anchors.Nth(i).Attribute("aria-label")
		if err != nil {
			continue
		}
		if strings.Contains(label, "out of 5") {
			return normalize.CleanText(label)
		}
	}
	return ""
}

// ratingStarIcon reads the text of a star icon's parent element.
type ratingStarIcon struct{}

func (ratingStarIcon) Probe(container page.Element) string {
	icons := container.Find(".a-icon-star-small")
	if icons.Count() == 0 {
		return ""
	}
	text, err := icons.First().Parent().Text()
	if err != nil {
		return ""
	}
	cleaned := normalize.CleanText(text)
	if cleaned != "" && (strings.Contains(cleaned, "out of") || strings.Contains(strings.ToLower(cleaned), "rating")) {
		return cleaned
	}
	return ""
}

// ratingClassHint scans elements whose class hints at a rating.
type ratingClassHint struct{}

func (ratingClassHint) Probe(container page.Element) string {
	spans := container.Find(`[class*="rating"]`)
	n := spans.Count()
	if n > maxStrategyProbes {
		n = maxStrategyProbes
	}
	for i := 0; i < n; i++ {
		text, err := spans.Nth(i).Text()
		if err != nil {
			continue
		}
		cleaned := normalize.CleanText(text)
		if cleaned != "" && (strings.Contains(cleaned, "out of") || strings.Contains(strings.ToLower(cleaned), "star")) {
			return cleaned
		}
	}
	return ""
}

// ratingTextScan is the last resort: scan the whole container text for an
// "n out of 5" pattern and synthesize a canonical rating string.
type ratingTextScan struct{}

func (ratingTextScan) Probe(container page.Element) string {
	text, err := container.Text()
	if err != nil {
		return ""
	}
	m := ratingTextPattern.FindStringSubmatch(normalize.CleanText(text))
	if m == nil {
		return ""
	}
	return m[1] + " out of 5 stars"
}

func defaultRatingStrategies() []RatingStrategy {
	return []RatingStrategy{
		ratingAriaLabel{},
		ratingStarIcon{},
		ratingClassHint{},
		ratingTextScan{},
	}
}

// ExtractRating runs the rating strategy chain against one container and
// returns the first non-empty hit, or "" when every strategy misses.
func ExtractRating(container page.Element) string {
	for _, s := range defaultRatingStrategies() {
		if v := s.Probe(container); v != "" {
			return v
		}
	}
	return ""
}
