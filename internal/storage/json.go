// Package storage writes run outputs to disk: the JSON report and a flat
// CSV export.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bala-nullpointer/amznbsscraper/internal/models"
)

// ReportFilename returns the timestamped report name for a run started at t.
func ReportFilename(t time.Time) string {
	return fmt.Sprintf("amazon_bestsellers_%s.json", t.Format("20060102_150405"))
}

// SaveReport writes the report as indented JSON. The write goes through a
// temp file and rename so a crash mid-write never leaves a truncated report.
func SaveReport(dir string, report *models.Report, startedAt time.Time) (string, error) {
	path := filepath.Join(dir, ReportFilename(startedAt))

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to finalize report: %w", err)
	}

	return path, nil
}

// LoadReport reads a previously saved report.
func LoadReport(path string) (*models.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var report models.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}
