package extract

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bala-nullpointer/amznbsscraper/internal/page"
	"github.com/bala-nullpointer/amznbsscraper/internal/page/pagetest"
)

// growthHandle returns container counts per Find call indexed by scroll count.
func growthHandle(counts func(scrolls int) int) *pagetest.Handle {
	h := pagetest.NewHandle()
	h.FindHook = func(selector string) page.Elements {
		n := counts(h.Scrolls)
		list := make([]*pagetest.Element, n)
		for i := range list {
			list[i] = &pagetest.Element{}
		}
		return &pagetest.Elements{List: list}
	}
	return h
}

func testDetector() *ConvergenceDetector {
	d := NewConvergenceDetector(slog.Default())
	d.ScrollPause = 0
	return d
}

func TestConvergenceStopsEarlyWhenStable(t *testing.T) {
	// Grows to 30 containers by the second scroll, then flat.
	h := growthHandle(func(scrolls int) int {
		if scrolls >= 2 {
			return 30
		}
		return scrolls * 15
	})

	d := testDetector()
	count := d.Run(h)

	assert.Equal(t, 30, count)
	// 2 growth scrolls + 2 stable iterations, well under the budget of 8.
	assert.Less(t, h.Scrolls, d.MaxScrolls)
	assert.GreaterOrEqual(t, h.Scrolls, 4)
}

func TestConvergenceExhaustsBudgetOnLowCount(t *testing.T) {
	h := growthHandle(func(int) int { return 5 })

	d := testDetector()
	count := d.Run(h)

	assert.Equal(t, 5, count)
	assert.Equal(t, d.MaxScrolls, h.Scrolls)
}

func TestConvergenceExtendsWaitOnLowCount(t *testing.T) {
	h := growthHandle(func(int) int { return 5 })

	d := testDetector()
	d.ScrollPause = time.Millisecond
	d.Run(h)

	// 8 scroll pauses plus extra pauses from scroll index 3 onward.
	wantPauses := d.MaxScrolls + (d.MaxScrolls - d.LowCountScrolls)
	assert.Equal(t, time.Duration(wantPauses)*time.Millisecond, h.Paused)
}

func TestConvergenceFallsBackToDOMReady(t *testing.T) {
	h := growthHandle(func(int) int { return 25 })
	h.WaitErr = map[page.WaitSignal]error{
		page.SignalNetworkIdle: errors.New("timeout"),
	}

	d := testDetector()
	count := d.Run(h)

	// Never fails hard; a degraded wait still yields a count.
	assert.Equal(t, 25, count)
}
