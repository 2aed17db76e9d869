package scraper

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bala-nullpointer/amznbsscraper/internal/extract"
	"github.com/bala-nullpointer/amznbsscraper/internal/models"
	"github.com/bala-nullpointer/amznbsscraper/internal/page"
)

// CategoryScraper is the per-category orchestrator. It owns the sequencing of
// convergence, extraction, pagination, and the cross-page dedup, and converts
// any failure into a CategoryResult with an error in its stats.
type CategoryScraper struct {
	extractor *extract.PageExtractor
	paginator *Paginator
	logger    *slog.Logger

	// NavTimeout bounds the initial category navigation.
	NavTimeout time.Duration
	// ReloadTimeout bounds the single low-count reload.
	ReloadTimeout time.Duration
	// SettlePause follows navigation before the page is inspected.
	SettlePause time.Duration
	// ReloadSettlePause follows the reload, which needs longer to recover.
	ReloadSettlePause time.Duration
	// MinInitialContainers below which the one reload is attempted.
	MinInitialContainers int
	// MinItemsForPage2 gates the page-2 attempt: a category that could not
	// fill page 1 is not worth a second navigation.
	MinItemsForPage2 int
	// MaxItems caps the deduplicated per-category record set.
	MaxItems int
}

func NewCategoryScraper(baseURL string, logger *slog.Logger) *CategoryScraper {
	return &CategoryScraper{
		extractor:            extract.NewPageExtractor(baseURL, logger),
		paginator:            NewPaginator(logger),
		logger:               logger.With("component", "category_scraper"),
		NavTimeout:           30 * time.Second,
		ReloadTimeout:        20 * time.Second,
		SettlePause:          2 * time.Second,
		ReloadSettlePause:    3 * time.Second,
		MinInitialContainers: 5,
		MinItemsForPage2:     15,
		MaxItems:             extract.MaxItemsPerCategory,
	}
}

// Extractor exposes the page extractor for configuration.
func (s *CategoryScraper) Extractor() *extract.PageExtractor {
	return s.extractor
}

// Paginator exposes the pagination machine for configuration.
func (s *CategoryScraper) Paginator() *Paginator {
	return s.paginator
}

// Scrape extracts one category end to end. It always returns a usable
// CategoryResult: on failure the items are empty and Stats.Error says why.
func (s *CategoryScraper) Scrape(h page.Handle, category models.Category) (result models.CategoryResult) {
	result = models.CategoryResult{
		CategoryLink:  category.URL,
		CategoryItems: []models.Item{},
	}

	// The category boundary is the only place a failure is allowed to stop
	// anything, and even here it only stops this category.
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("category extraction panicked", "category", category.Name, "panic", r)
			result.CategoryItems = []models.Item{}
			result.Stats = models.ExtractionStats{Error: fmt.Sprintf("panic: %v", r)}
		}
	}()

	s.logger.Info("scraping category", "category", category.Name, "url", category.URL)

	if err := h.Navigate(category.URL, page.SignalDOMReady, s.NavTimeout); err != nil {
		result.Stats.Error = fmt.Sprintf("navigation failed: %v", err)
		return result
	}
	h.Pause(s.SettlePause)

	if robotCheckPresent(h) {
		result.Stats.Error = ErrRobotCheck.Error()
		return result
	}

	initialCount := h.Find(extract.ContainerSelector).Count()
	if initialCount < s.MinInitialContainers {
		s.logger.Warn("low initial container count, reloading once",
			"category", category.Name, "containers", initialCount)
		if err := h.Reload(page.SignalDOMReady, s.ReloadTimeout); err != nil {
			s.logger.Warn("reload failed", "error", err)
		}
		h.Pause(s.ReloadSettlePause)
		initialCount = h.Find(extract.ContainerSelector).Count()
	}
	result.Stats.InitialContainerCount = initialCount

	firstBatch := s.extractor.ExtractPage(h)
	result.Stats.Page1Items = len(firstBatch)
	s.logger.Info("page 1 extracted", "category", category.Name, "items", len(firstBatch))

	var secondBatch []models.Item
	if len(firstBatch) >= s.MinItemsForPage2 {
		if s.paginator.NextPage(h) {
			h.Pause(s.SettlePause)
			secondBatch = s.extractor.ExtractPage(h)
			s.logger.Info("page 2 extracted", "category", category.Name, "items", len(secondBatch))
		} else {
			s.logger.Info("page 2 navigation failed or unavailable", "category", category.Name)
		}
	} else {
		s.logger.Info("skipping page 2, insufficient page 1 results",
			"category", category.Name, "items", len(firstBatch))
	}
	result.Stats.Page2Items = len(secondBatch)

	merged := append(firstBatch, secondBatch...)
	result.Stats.TotalBeforeDedup = len(merged)

	result.CategoryItems = extract.DeduplicateLimit(merged, s.MaxItems)
	result.Stats.FinalUniqueItems = len(result.CategoryItems)

	if result.Stats.FinalUniqueItems < 10 {
		s.logger.Warn("low item count", "category", category.Name, "items", result.Stats.FinalUniqueItems)
	}

	return result
}

// robotCheckPresent looks for the captcha interstitial Amazon serves when it
// suspects automation.
func robotCheckPresent(h page.Handle) bool {
	selectors := []string{
		"#captchacharacters",
		`form[action*="Captcha"]`,
	}
	for _, sel := range selectors {
		if h.Find(sel).Count() > 0 {
			return true
		}
	}
	return false
}
