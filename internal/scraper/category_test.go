package scraper

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bala-nullpointer/amznbsscraper/internal/extract"
	"github.com/bala-nullpointer/amznbsscraper/internal/models"
	"github.com/bala-nullpointer/amznbsscraper/internal/page"
	"github.com/bala-nullpointer/amznbsscraper/internal/page/pagetest"
)

var testCategory = models.Category{
	Name: "Books",
	URL:  "https://www.amazon.in/gp/bestsellers/books",
}

func fakeContainer(asin string, i int) *pagetest.Element {
	c := &pagetest.Element{Attrs: map[string]string{"data-asin": asin}}
	c.Add(`a.a-link-normal[href*="/dp/"]`, &pagetest.Element{
		TextValue: fmt.Sprintf("Scraped Bestseller Product Number %s Item %d", asin, i),
		Attrs:     map[string]string{"href": "/p/dp/" + asin},
	})
	return c
}

func containerSet(prefix string, n int) []*pagetest.Element {
	out := make([]*pagetest.Element, n)
	for i := range out {
		out[i] = fakeContainer(fmt.Sprintf("%s%04d", prefix, i), i)
	}
	return out
}

func newTestScraper() *CategoryScraper {
	return NewCategoryScraper(DefaultBaseURL, slog.Default())
}

func TestScrapeSkipsPage2BelowThreshold(t *testing.T) {
	h := pagetest.NewHandle()
	h.HTMLContent = "<html><body></body></html>"
	for _, c := range containerSet("B0ONLY", 12) {
		h.Root.Add(extract.ContainerSelector, c)
	}

	result := newTestScraper().Scrape(h, testCategory)

	assert.Equal(t, 12, result.Stats.Page1Items)
	assert.Equal(t, 0, result.Stats.Page2Items)
	assert.Len(t, result.CategoryItems, 12)
	// Only the initial category navigation happened: no page-2 attempt.
	assert.Equal(t, []string{testCategory.URL}, h.Navigated)
}

func TestScrapeCrossPageOverlapDeduped(t *testing.T) {
	page1 := containerSet("B1PAGE", 30)
	// Page 2: 25 items, first 10 overlap page 1's ASINs.
	page2 := containerSet("B2PAGE", 25)
	for i := 0; i < 10; i++ {
		page2[i] = fakeContainer(fmt.Sprintf("B1PAGE%04d", i), i)
	}

	h := pagetest.NewHandle()
	h.URLValue = testCategory.URL
	h.HTMLContent = "<html><body></body></html>"
	h.FindHook = func(selector string) page.Elements {
		if selector != extract.ContainerSelector {
			return &pagetest.Elements{}
		}
		if strings.Contains(h.CurrentURL(), "pg=2") {
			return &pagetest.Elements{List: page2}
		}
		return &pagetest.Elements{List: page1}
	}

	result := newTestScraper().Scrape(h, testCategory)

	assert.Equal(t, 30, result.Stats.Page1Items)
	assert.Equal(t, 25, result.Stats.Page2Items)
	assert.Equal(t, 55, result.Stats.TotalBeforeDedup)
	assert.Equal(t, 45, result.Stats.FinalUniqueItems)
	assert.Len(t, result.CategoryItems, 45)
	for _, item := range result.CategoryItems {
		assert.Empty(t, item.ASIN)
	}
}

func TestScrapeNavigationFailureIsolated(t *testing.T) {
	h := pagetest.NewHandle()
	h.NavigateHook = func(string, page.WaitSignal) error {
		return errors.New("net::ERR_TIMED_OUT")
	}

	result := newTestScraper().Scrape(h, testCategory)

	assert.Empty(t, result.CategoryItems)
	assert.Contains(t, result.Stats.Error, "navigation failed")
	assert.Equal(t, testCategory.URL, result.CategoryLink)
}

func TestScrapeAllPaginationTacticsFail(t *testing.T) {
	h := pagetest.NewHandle()
	h.HTMLContent = "<html><body></body></html>"
	for _, c := range containerSet("B0FULL", 20) {
		h.Root.Add(extract.ContainerSelector, c)
	}
	// Category navigation succeeds once, then every later attempt is refused
	// so the URL-rewrite tactic cannot fire either.
	navCalls := 0
	h.NavigateHook = func(string, page.WaitSignal) error {
		navCalls++
		if navCalls > 1 {
			return errors.New("navigation refused")
		}
		return nil
	}

	result := newTestScraper().Scrape(h, testCategory)

	assert.Equal(t, 20, result.Stats.Page1Items)
	assert.Equal(t, 0, result.Stats.Page2Items)
	assert.Equal(t, "", result.Stats.Error)
	assert.Len(t, result.CategoryItems, 20)
}

func TestScrapeReloadsOnceOnLowInitialCount(t *testing.T) {
	h := pagetest.NewHandle()
	h.HTMLContent = "<html><body></body></html>"

	result := newTestScraper().Scrape(h, testCategory)

	assert.Equal(t, 1, h.Reloads)
	assert.Equal(t, 0, result.Stats.InitialContainerCount)
	assert.Empty(t, result.CategoryItems)
}

func TestScrapeRobotCheckReported(t *testing.T) {
	h := pagetest.NewHandle()
	h.Root.Add("#captchacharacters", &pagetest.Element{})

	result := newTestScraper().Scrape(h, testCategory)

	assert.Empty(t, result.CategoryItems)
	assert.Equal(t, ErrRobotCheck.Error(), result.Stats.Error)
	assert.Equal(t, 0, h.Reloads)
}

func TestScrapeHonorsMaxItems(t *testing.T) {
	h := pagetest.NewHandle()
	h.HTMLContent = "<html><body></body></html>"
	for _, c := range containerSet("B0CAPS", 30) {
		h.Root.Add(extract.ContainerSelector, c)
	}

	s := newTestScraper()
	s.MaxItems = 20
	result := s.Scrape(h, testCategory)

	assert.Equal(t, 30, result.Stats.Page1Items)
	assert.Equal(t, 20, result.Stats.FinalUniqueItems)
	assert.Len(t, result.CategoryItems, 20)
}

func TestScrapeFallbackOutyieldsContainers(t *testing.T) {
	// Container method under-yields (8 containers); the snapshot fallback
	// finds 20 and its output is used instead.
	var html strings.Builder
	html.WriteString("<html><body>")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&html, `<a class="a-link-normal" href="/p-%d/dp/B0SNAP%05d">Snapshot Discovered Product Number %d</a>`, i, i, i)
	}
	html.WriteString("</body></html>")

	h := pagetest.NewHandle()
	h.HTMLContent = html.String()
	for _, c := range containerSet("B0FEWW", 8) {
		h.Root.Add(extract.ContainerSelector, c)
	}

	result := newTestScraper().Scrape(h, testCategory)

	assert.Equal(t, 20, result.Stats.Page1Items)
	assert.Contains(t, result.CategoryItems[0].Name, "Snapshot Discovered")
}
