package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bala-nullpointer/amznbsscraper/internal/models"
)

// StartRun registers a new scrape run.
func (db *DB) StartRun(ctx context.Context, summary models.RunSummary) error {
	query := `
		INSERT INTO scrape_runs (run_id, started_at)
		VALUES ($1, $2)
		ON CONFLICT (run_id) DO NOTHING`

	if _, err := db.pool.Exec(ctx, query, summary.RunID, summary.StartedAt); err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}

	return nil
}

// FinishRun stores the final run counters.
func (db *DB) FinishRun(ctx context.Context, summary models.RunSummary) error {
	query := `
		UPDATE scrape_runs SET
			finished_at = $2,
			categories = $3,
			successful_categories = $4,
			failed_categories = $5,
			total_items = $6
		WHERE run_id = $1`

	tag, err := db.pool.Exec(ctx, query,
		summary.RunID,
		summary.StartedAt.Add(summary.Duration),
		summary.Categories,
		summary.SuccessfulCategories,
		summary.FailedCategories,
		summary.TotalItems,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("run %s not found", summary.RunID)
	}

	return nil
}

// SaveCategoryResult writes one category's items in a single transaction.
// Re-saving a category within the same run replaces its rows.
func (db *DB) SaveCategoryResult(ctx context.Context, runID, category string, result models.CategoryResult) error {
	return db.Transaction(ctx, func(tx pgx.Tx) error {
		deleteQuery := `
			DELETE FROM bestseller_items
			WHERE run_id = $1 AND category = $2`
		if _, err := tx.Exec(ctx, deleteQuery, runID, category); err != nil {
			return fmt.Errorf("failed to clear category rows: %w", err)
		}

		insertQuery := `
			INSERT INTO bestseller_items
				(run_id, category, category_link, position, rank, name, link, rating, price)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

		for i, item := range result.CategoryItems {
			_, err := tx.Exec(ctx, insertQuery,
				runID, category, result.CategoryLink, i+1,
				item.Rank, item.Name, item.Link, item.Rating, item.Price,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item %d: %w", i+1, err)
			}
		}

		return nil
	})
}

// CategoryItems reads back a category's rows in stored order.
func (db *DB) CategoryItems(ctx context.Context, runID, category string) ([]models.Item, error) {
	query := `
		SELECT rank, name, link, rating, price
		FROM bestseller_items
		WHERE run_id = $1 AND category = $2
		ORDER BY position`

	rows, err := db.pool.Query(ctx, query, runID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.Rank, &item.Name, &item.Link, &item.Rating, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}

	return items, nil
}
