package scraper

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/bala-nullpointer/amznbsscraper/internal/models"
	"github.com/bala-nullpointer/amznbsscraper/internal/normalize"
	"github.com/bala-nullpointer/amznbsscraper/internal/page"
)

// navTreeSelector is the bestsellers left-nav category tree. The class suffix
// is generated but has been stable for long stretches; DiscoverCategories
// polls rather than assuming it is present at domcontentloaded.
const navTreeSelector = "ul.a-unordered-list.a-nostyle.a-vertical." +
	"_p13n-zg-nav-tree-all_style_zg-browse-group__88fbz"

const (
	navPollAttempts = 20
	navPollInterval = 500 * time.Millisecond
)

// DiscoverCategories reads the bestsellers navigation tree and returns the
// ordered category list. The list is passed through as-is: the extraction
// core neither validates nor dedupes it.
func DiscoverCategories(h page.Handle, baseURL string, logger *slog.Logger) ([]models.Category, error) {
	indexURL := baseURL + BestsellersPath
	logger.Info("discovering categories", "url", indexURL)

	if err := h.Navigate(indexURL, page.SignalDOMReady, 30*time.Second); err != nil {
		return nil, fmt.Errorf("failed to load bestsellers index: %w", err)
	}

	anchors := waitForAnchors(h)
	count := anchors.Count()
	if count == 0 {
		return nil, ErrNoCategories
	}

	var categories []models.Category
	for i := 0; i < count; i++ {
		anchor := anchors.Nth(i)
		text, err := anchor.Text()
		if err != nil {
			continue
		}
		name := normalize.CleanText(text)
		href, err := anchor.Attribute("href")
		if err != nil || name == "" || href == "" {
			continue
		}
		categories = append(categories, models.Category{
			Name: name,
			URL:  resolveCategoryURL(baseURL, href),
		})
	}

	if len(categories) == 0 {
		return nil, ErrNoCategories
	}

	logger.Info("categories discovered", "count", len(categories))
	return categories, nil
}

// waitForAnchors polls for the nav tree, bounded by navPollAttempts.
func waitForAnchors(h page.Handle) page.Elements {
	selector := navTreeSelector + " li a"
	anchors := h.Find(selector)
	for attempt := 0; attempt < navPollAttempts && anchors.Count() == 0; attempt++ {
		h.Pause(navPollInterval)
		anchors = h.Find(selector)
	}
	return anchors
}

func resolveCategoryURL(baseURL, href string) string {
	b, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(u).String()
}
