package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bala-nullpointer/amznbsscraper/internal/models"
)

type fakeStreamAdder struct {
	calls []*redis.XAddArgs
	err   error
}

func (f *fakeStreamAdder) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.calls = append(f.calls, a)
	cmd := redis.NewStringCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal("1-0")
	}
	return cmd
}

func TestPublishCategoryScraped(t *testing.T) {
	fake := &fakeStreamAdder{}
	p := NewPublisher(fake, "bestsellers:categories", slog.Default())

	result := models.CategoryResult{
		CategoryLink: "https://www.amazon.in/gp/bestsellers/books",
		CategoryItems: []models.Item{
			{Rank: "#1", Name: "A Bestselling Paperback Novel", Link: "https://www.amazon.in/x/dp/B01"},
		},
		Stats: models.ExtractionStats{Page1Items: 1, FinalUniqueItems: 1},
	}

	err := p.PublishCategoryScraped(context.Background(), "run-1", "Books", result)

	require.NoError(t, err)
	require.Len(t, fake.calls, 1)
	assert.Equal(t, "bestsellers:categories", fake.calls[0].Stream)
	assert.Equal(t, string(EventTypeCategoryScraped), fake.calls[0].Values.(map[string]interface{})["event_type"])

	var payload CategoryScrapedPayload
	raw := fake.calls[0].Values.(map[string]interface{})["payload"].(string)
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	assert.NotEmpty(t, payload.EventID)
	assert.Equal(t, "run-1", payload.RunID)
	assert.Equal(t, "Books", payload.Category)
	assert.Equal(t, 1, payload.ItemCount)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "#1", payload.Items[0].Rank)
}

func TestPublishCategoryScrapedError(t *testing.T) {
	fake := &fakeStreamAdder{err: errors.New("connection refused")}
	p := NewPublisher(fake, "bestsellers:categories", slog.Default())

	err := p.PublishCategoryScraped(context.Background(), "run-1", "Books", models.CategoryResult{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish event")
}
