package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bala-nullpointer/amznbsscraper/internal/models"
)

func resultWithItems(n int, errMsg string) models.CategoryResult {
	return models.CategoryResult{
		CategoryItems: make([]models.Item, n),
		Stats:         models.ExtractionStats{Error: errMsg},
	}
}

func TestTrackerCounters(t *testing.T) {
	tr := NewTracker(4)
	tr.RecordCategory(resultWithItems(50, ""))
	tr.RecordCategory(resultWithItems(30, ""))
	tr.RecordCategory(resultWithItems(0, "navigation failed"))

	s := tr.Snapshot()
	assert.Equal(t, 4, s.TotalCategories)
	assert.Equal(t, 3, s.Completed)
	assert.Equal(t, 2, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 80, s.TotalItems)
	assert.InDelta(t, 75.0, s.PercentDone, 0.01)
	assert.NotEqual(t, "unknown", s.ETA)
}

func TestTrackerSummary(t *testing.T) {
	tr := NewTracker(2)
	tr.RecordCategory(resultWithItems(10, ""))
	tr.RecordCategory(resultWithItems(0, "robot check detected"))

	summary := tr.Summary("run-1234")
	assert.Equal(t, "run-1234", summary.RunID)
	assert.Equal(t, 2, summary.Categories)
	assert.Equal(t, 1, summary.SuccessfulCategories)
	assert.Equal(t, 1, summary.FailedCategories)
	assert.Equal(t, 10, summary.TotalItems)

	s := tr.Snapshot()
	assert.Equal(t, FormatDuration(0), s.ETA)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00"},
		{59 * time.Second, "00:00:59"},
		{61 * time.Minute, "01:01:00"},
		{3*time.Hour + 25*time.Minute + 45*time.Second, "03:25:45"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in))
	}
}
