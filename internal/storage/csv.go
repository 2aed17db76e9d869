package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bala-nullpointer/amznbsscraper/internal/models"
)

var csvHeader = []string{
	"root_category",
	"sub_category",
	"category_link",
	"rank",
	"name",
	"link",
	"rating",
	"price",
	"page1_items",
	"page2_items",
	"final_unique_items",
}

// CSVFilename returns the timestamped export name for a run started at t.
func CSVFilename(t time.Time) string {
	return fmt.Sprintf("amazon_bestsellers_%s.csv", t.Format("20060102_150405"))
}

// SaveCSV flattens the report into one row per item. Categories are sorted
// by name so repeated runs diff cleanly; items keep their extraction order.
func SaveCSV(dir string, report *models.Report, startedAt time.Time) (string, error) {
	path := filepath.Join(dir, CSVFilename(startedAt))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}

	names := make([]string, 0, len(report.Bestsellers))
	for name := range report.Bestsellers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		result := report.Bestsellers[name]
		root, sub := splitCategoryName(name)
		for _, item := range result.CategoryItems {
			row := []string{
				root,
				sub,
				result.CategoryLink,
				item.Rank,
				item.Name,
				item.Link,
				item.Rating,
				item.Price,
				strconv.Itoa(result.Stats.Page1Items),
				strconv.Itoa(result.Stats.Page2Items),
				strconv.Itoa(result.Stats.FinalUniqueItems),
			}
			if err := w.Write(row); err != nil {
				return "", fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}

	return path, nil
}

// splitCategoryName splits a "Root > Sub" report key. Top-level categories
// have no sub part.
func splitCategoryName(name string) (root, sub string) {
	if i := strings.Index(name, " > "); i >= 0 {
		return name[:i], name[i+3:]
	}
	return name, ""
}
