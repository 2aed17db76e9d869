package extract

import (
	"log/slog"
	"time"

	"github.com/bala-nullpointer/amznbsscraper/internal/page"
)

// ContainerSelector matches product containers carrying a non-empty ASIN.
const ContainerSelector = `[data-asin]:not([data-asin=""])`

// ConvergenceDetector drives progressive scrolling until the visible
// container count stabilizes or the scroll budget runs out. It never fails:
// the caller always gets a (possibly low) count and decides adequacy itself.
type ConvergenceDetector struct {
	// MaxScrolls bounds the scroll loop.
	MaxScrolls int
	// ScrollPause is the settle time after each scroll.
	ScrollPause time.Duration
	// StableWindow is how many consecutive no-growth iterations count as
	// converged, provided MinStableCount containers are visible.
	StableWindow   int
	MinStableCount int
	// LowCount triggers one extra pause per iteration once LowCountScrolls
	// attempts have passed without reaching it: content likely still arriving.
	LowCount        int
	LowCountScrolls int

	NetworkIdleTimeout time.Duration
	DOMReadyTimeout    time.Duration

	logger *slog.Logger
}

func NewConvergenceDetector(logger *slog.Logger) *ConvergenceDetector {
	return &ConvergenceDetector{
		MaxScrolls:         8,
		ScrollPause:        2 * time.Second,
		StableWindow:       2,
		MinStableCount:     20,
		LowCount:           10,
		LowCountScrolls:    3,
		NetworkIdleTimeout: 8 * time.Second,
		DOMReadyTimeout:    15 * time.Second,
		logger:             logger.With("component", "convergence"),
	}
}

// Run scrolls the page until the container count converges and returns the
// final count.
func (d *ConvergenceDetector) Run(h page.Handle) int {
	if err := h.WaitForSignal(page.SignalNetworkIdle, d.NetworkIdleTimeout); err != nil {
		d.logger.Debug("network idle timeout, falling back to dom ready", "error", err)
		if err := h.WaitForSignal(page.SignalDOMReady, d.DOMReadyTimeout); err != nil {
			d.logger.Debug("dom ready timeout, proceeding with scroll", "error", err)
		}
	}

	lastCount := 0
	stableIterations := 0

	for scroll := 0; scroll < d.MaxScrolls; scroll++ {
		if err := h.ScrollToBottom(); err != nil {
			d.logger.Debug("scroll failed", "error", err)
		}
		h.Pause(d.ScrollPause)

		count := h.Find(ContainerSelector).Count()
		if count > lastCount {
			lastCount = count
			stableIterations = 0
		} else {
			stableIterations++
		}
		d.logger.Debug("scroll iteration", "scroll", scroll+1, "containers", count, "stable", stableIterations)

		if stableIterations >= d.StableWindow && count >= d.MinStableCount {
			d.logger.Debug("content stabilized", "containers", count)
			break
		}

		if count < d.LowCount && scroll >= d.LowCountScrolls {
			d.logger.Debug("low container count, extending wait", "containers", count)
			h.Pause(d.ScrollPause)
		}
	}

	final := h.Find(ContainerSelector).Count()
	d.logger.Debug("lazy load converged", "containers", final)
	return final
}
