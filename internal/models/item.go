package models

import (
	"time"
)

// RawCandidate is an unvalidated extraction result for one product listing.
// Every field is untrusted: possibly empty, possibly malformed.
type RawCandidate struct {
	Rank   string
	Name   string
	Link   string
	Rating string
	Price  string
	ASIN   string
}

// Item is a candidate that survived cleaning and validation. The ASIN is
// retained only as a deduplication key and never serialized.
type Item struct {
	Rank   string `json:"rank"`
	Name   string `json:"name"`
	Link   string `json:"link"`
	Rating string `json:"rating"`
	Price  string `json:"price"`
	ASIN   string `json:"-"`
}

// ExtractionStats records per-category extraction diagnostics so degraded
// categories can be diagnosed after the run.
type ExtractionStats struct {
	Page1Items            int    `json:"page1_items"`
	Page2Items            int    `json:"page2_items"`
	TotalBeforeDedup      int    `json:"total_before_dedup"`
	FinalUniqueItems      int    `json:"final_unique_items"`
	InitialContainerCount int    `json:"initial_container_count"`
	Error                 string `json:"error,omitempty"`
}

// CategoryResult is the complete outcome for one category. Items are ordered
// first-seen across page 1 then page 2, unique by ASIN/link, capped at 100.
type CategoryResult struct {
	CategoryLink  string          `json:"category_link"`
	CategoryItems []Item          `json:"category_items"`
	Stats         ExtractionStats `json:"extraction_stats"`
}

// Category is one entry from the bestsellers navigation tree.
type Category struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Report is the persisted shape of a full run.
type Report struct {
	Bestsellers map[string]CategoryResult `json:"bestsellers"`
}

// RunSummary carries run-level metadata alongside the report.
type RunSummary struct {
	RunID                string        `json:"run_id"`
	StartedAt            time.Time     `json:"started_at"`
	Duration             time.Duration `json:"duration"`
	Categories           int           `json:"categories"`
	SuccessfulCategories int           `json:"successful_categories"`
	FailedCategories     int           `json:"failed_categories"`
	TotalItems           int           `json:"total_items"`
}

func NewReport() *Report {
	return &Report{Bestsellers: make(map[string]CategoryResult)}
}
