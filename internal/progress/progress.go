// Package progress tracks a run across categories: counts, timing, and the
// summary emitted at the end.
package progress

import (
	"fmt"
	"sync"
	"time"

	"github.com/bala-nullpointer/amznbsscraper/internal/models"
)

// Tracker accumulates per-category outcomes. Safe for concurrent use; the
// status API reads it while the scrape loop writes.
type Tracker struct {
	mu              sync.Mutex
	startedAt       time.Time
	totalCategories int
	completed       int
	succeeded       int
	failed          int
	totalItems      int
}

func NewTracker(totalCategories int) *Tracker {
	return &Tracker{
		startedAt:       time.Now(),
		totalCategories: totalCategories,
	}
}

// RecordCategory folds one finished category into the run counters. A
// category with a recorded error still counts as completed.
func (t *Tracker) RecordCategory(result models.CategoryResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.completed++
	if result.Stats.Error != "" {
		t.failed++
	} else {
		t.succeeded++
	}
	t.totalItems += len(result.CategoryItems)
}

type Snapshot struct {
	TotalCategories int     `json:"total_categories"`
	Completed       int     `json:"completed"`
	Succeeded       int     `json:"succeeded"`
	Failed          int     `json:"failed"`
	TotalItems      int     `json:"total_items"`
	Elapsed         string  `json:"elapsed"`
	ETA             string  `json:"eta"`
	PercentDone     float64 `json:"percent_done"`
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := time.Since(t.startedAt)
	s := Snapshot{
		TotalCategories: t.totalCategories,
		Completed:       t.completed,
		Succeeded:       t.succeeded,
		Failed:          t.failed,
		TotalItems:      t.totalItems,
		Elapsed:         FormatDuration(elapsed),
		ETA:             "unknown",
	}

	if t.totalCategories > 0 {
		s.PercentDone = float64(t.completed) / float64(t.totalCategories) * 100
	}
	if t.completed > 0 && t.completed < t.totalCategories {
		perCategory := elapsed / time.Duration(t.completed)
		remaining := perCategory * time.Duration(t.totalCategories-t.completed)
		s.ETA = FormatDuration(remaining)
	}
	if t.completed >= t.totalCategories {
		s.ETA = FormatDuration(0)
	}

	return s
}

// Summary finalizes the run counters into the report-level summary.
func (t *Tracker) Summary(runID string) models.RunSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	return models.RunSummary{
		RunID:                runID,
		StartedAt:            t.startedAt,
		Duration:             time.Since(t.startedAt),
		Categories:           t.totalCategories,
		SuccessfulCategories: t.succeeded,
		FailedCategories:     t.failed,
		TotalItems:           t.totalItems,
	}
}

// FormatDuration renders d as HH:MM:SS.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
