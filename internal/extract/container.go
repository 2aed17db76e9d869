package extract

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bala-nullpointer/amznbsscraper/internal/models"
	"github.com/bala-nullpointer/amznbsscraper/internal/normalize"
	"github.com/bala-nullpointer/amznbsscraper/internal/page"
)

const (
	// maxContainers caps how many containers a single page yields.
	maxContainers = 100
	// minNameLength is the minimum visible-text length for an anchor to be
	// considered a product name rather than a rating or badge link.
	minNameLength = 15

	productLinkSelector = `a.a-link-normal[href*="/dp/"]`
	rankBadgeSelector   = ".zg-bdg-text"
)

// ratingPhrasePattern rejects anchors whose text is itself a rating.
var ratingPhrasePattern = regexp.MustCompile(`^\d+\.?\d*\s*out\s*of\s*5`)

// ContainerExtractor enumerates ASIN containers on a converged page and
// applies the field-strategy chains to each one.
type ContainerExtractor struct {
	baseURL string
	logger  *slog.Logger
}

func NewContainerExtractor(baseURL string, logger *slog.Logger) *ContainerExtractor {
	return &ContainerExtractor{
		baseURL: baseURL,
		logger:  logger.With("component", "container_extractor"),
	}
}

// Extract produces raw candidates from the container collection. Containers
// missing a usable name/link pair are skipped silently; one bad container
// never aborts the batch.
func (e *ContainerExtractor) Extract(containers page.Elements) []models.RawCandidate {
	count := containers.Count()
	if count > maxContainers {
		count = maxContainers
	}

	var items []models.RawCandidate
	for i := 0; i < count; i++ {
		candidate, ok := e.extractOne(containers.Nth(i))
		if !ok {
			e.logger.Debug("container skipped", "index", i)
			continue
		}
		items = append(items, candidate)
	}

	e.logger.Debug("container extraction complete", "containers", count, "items", len(items))
	return items
}

func (e *ContainerExtractor) extractOne(container page.Element) (models.RawCandidate, bool) {
	asin, err := container.Attribute("data-asin")
	if err != nil {
		asin = ""
	}

	name, link := e.findNameAndLink(container)
	if name == "" || link == "" || utf8.RuneCountInString(name) <= minNameLength {
		return models.RawCandidate{}, false
	}

	rank := ""
	badges := container.Find(rankBadgeSelector)
	if badges.Count() > 0 {
		if text, err := badges.First().Text(); err == nil {
			rank = normalize.CleanText(text)
		}
	}

	return models.RawCandidate{
		Rank:   rank,
		Name:   name,
		Link:   link,
		Rating: ExtractRating(container),
		Price:  ExtractPrice(container),
		ASIN:   asin,
	}, true
}

// findNameAndLink scans the container's product anchors for the first one
// whose text is a plausible product name and resolves its href.
func (e *ContainerExtractor) findNameAndLink(container page.Element) (string, string) {
	anchors := container.Find(productLinkSelector)
	for i := 0; i < anchors.Count(); i++ {
		anchor := anchors.Nth(i)
		text, err := anchor.Text()
		if err != nil {
			continue
		}
		name := normalize.CleanText(text)
		href, err := anchor.Attribute("href")
		if err != nil || href == "" {
			continue
		}
		if looksLikeProductName(name) {
			return name, absoluteURL(e.baseURL, href)
		}
	}
	return "", ""
}

// looksLikeProductName filters out rating links and other short non-product
// anchors sharing the product-link selector.
func looksLikeProductName(name string) bool {
	return utf8.RuneCountInString(name) > minNameLength &&
		!ratingPhrasePattern.MatchString(name) &&
		!strings.Contains(strings.ToLower(name), "star")
}

// absoluteURL resolves href against base. Unresolvable hrefs become "", which
// downstream validation drops.
func absoluteURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return b.ResolveReference(h).String()
}
