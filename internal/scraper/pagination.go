package scraper

import (
	"log/slog"
	"strings"
	"time"

	"github.com/bala-nullpointer/amznbsscraper/internal/extract"
	"github.com/bala-nullpointer/amznbsscraper/internal/page"
)

// Paginator advances a category page to its second results page. Tactics are
// tried in order until one passes verification; a tactic's internal failure
// (element not found, click timeout) just means try the next one. When every
// tactic fails the caller proceeds without page 2.
type Paginator struct {
	// ClickTimeout bounds each click tactic.
	ClickTimeout time.Duration
	// NavTimeout bounds the direct-URL tactic and post-click readiness wait.
	NavTimeout time.Duration
	// VerifyPause is the settle time before content-based verification.
	VerifyPause time.Duration
	// MinContainers is the container count that counts as a loaded page 2.
	MinContainers int

	logger *slog.Logger
}

func NewPaginator(logger *slog.Logger) *Paginator {
	return &Paginator{
		ClickTimeout:  5 * time.Second,
		NavTimeout:    15 * time.Second,
		VerifyPause:   2 * time.Second,
		MinContainers: 10,
		logger:        logger.With("component", "paginator"),
	}
}

type navTactic struct {
	name string
	run  func(h page.Handle) bool
}

func (p *Paginator) tactics() []navTactic {
	return []navTactic{
		{"next-page text control", func(h page.Handle) bool {
			return p.clickFirst(h.FindByText("Next page"))
		}},
		{"href encodes page 2", func(h page.Handle) bool {
			return p.clickFirst(h.Find(`a[href*="pg=2"]`))
		}},
		{"pagination link labelled Next", func(h page.Handle) bool {
			return p.clickFirst(h.Find(`a[href*="pg="]:has-text("Next")`))
		}},
		{"pagination next icon", func(h page.Handle) bool {
			return p.clickFirst(h.Find(`a[href*="pg="] .a-icon-next`))
		}},
		{"direct URL rewrite", func(h page.Handle) bool {
			target := pageTwoURL(h.CurrentURL())
			return h.Navigate(target, page.SignalDOMReady, p.NavTimeout) == nil
		}},
	}
}

// NextPage attempts to reach page 2 and reports whether it verifiably got
// there. The page handle is left on whatever page the last attempt produced.
func (p *Paginator) NextPage(h page.Handle) bool {
	for _, tactic := range p.tactics() {
		p.logger.Debug("trying navigation tactic", "tactic", tactic.name)
		if !tactic.run(h) {
			continue
		}

		if err := h.WaitForSignal(page.SignalDOMReady, p.NavTimeout); err != nil {
			p.logger.Debug("readiness wait failed after tactic", "tactic", tactic.name, "error", err)
		}

		if p.verify(h) {
			p.logger.Debug("navigation succeeded", "tactic", tactic.name)
			return true
		}
	}

	p.logger.Debug("all navigation tactics failed")
	return false
}

// verify accepts page 2 by URL pattern first, then by reloaded content.
func (p *Paginator) verify(h page.Handle) bool {
	url := h.CurrentURL()
	if strings.Contains(url, "pg=2") || strings.Contains(url, "page=2") {
		return true
	}

	h.Pause(p.VerifyPause)
	return h.Find(extract.ContainerSelector).Count() >= p.MinContainers
}

func (p *Paginator) clickFirst(elements page.Elements) bool {
	if elements.Count() == 0 {
		return false
	}
	return elements.First().Click(p.ClickTimeout) == nil
}

// pageTwoURL rewrites a category URL to address results page 2: pg=1 becomes
// pg=2, and a missing page parameter is appended.
func pageTwoURL(current string) string {
	if strings.Contains(current, "pg=") {
		rewritten := strings.Replace(current, "pg=1", "pg=2", 1)
		if rewritten != current {
			return rewritten
		}
	}
	sep := "?"
	if strings.Contains(current, "?") {
		sep = "&"
	}
	return current + sep + "pg=2"
}
