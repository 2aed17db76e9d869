// Package events publishes category results to a redis stream so downstream
// consumers (price trackers, alerting) can react without reading the report
// files.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/bala-nullpointer/amznbsscraper/internal/models"
)

type EventType string

const (
	EventTypeCategoryScraped EventType = "CATEGORY_SCRAPED"
)

// CategoryScrapedPayload is the wire shape of one category outcome.
type CategoryScrapedPayload struct {
	EventID      string                 `json:"event_id"`
	EventType    string                 `json:"event_type"`
	Timestamp    time.Time              `json:"timestamp"`
	RunID        string                 `json:"run_id"`
	Category     string                 `json:"category"`
	CategoryLink string                 `json:"category_link"`
	ItemCount    int                    `json:"item_count"`
	Stats        models.ExtractionStats `json:"stats"`
	Items        []models.Item          `json:"items"`
}

// StreamAdder is the slice of the redis client the publisher needs.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

type Publisher struct {
	client StreamAdder
	stream string
	logger *slog.Logger
}

func NewPublisher(client StreamAdder, stream string, logger *slog.Logger) *Publisher {
	return &Publisher{
		client: client,
		stream: stream,
		logger: logger.With("component", "event_publisher"),
	}
}

// PublishCategoryScraped emits one event per finished category, including
// failed ones so consumers see gaps too.
func (p *Publisher) PublishCategoryScraped(ctx context.Context, runID, category string, result models.CategoryResult) error {
	payload := CategoryScrapedPayload{
		EventID:      uuid.New().String(),
		EventType:    string(EventTypeCategoryScraped),
		Timestamp:    time.Now().UTC(),
		RunID:        runID,
		Category:     category,
		CategoryLink: result.CategoryLink,
		ItemCount:    len(result.CategoryItems),
		Stats:        result.Stats,
		Items:        result.CategoryItems,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"event_type": payload.EventType,
			"payload":    string(data),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("event published",
		"event_id", payload.EventID,
		"category", category,
		"items", payload.ItemCount)

	return nil
}
