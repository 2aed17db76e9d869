// Package scraper sequences per-category extraction: navigation, the
// pagination state machine, and the orchestrator that turns one category URL
// into a CategoryResult. Failures are isolated at the category boundary so
// one bad category never aborts a run.
package scraper

import (
	"errors"
)

const (
	// DefaultBaseURL is the target marketplace.
	DefaultBaseURL = "https://www.amazon.in"
	// BestsellersPath is the bestsellers index under the base URL.
	BestsellersPath = "/gp/bestsellers/"
)

var (
	ErrNoCategories = errors.New("no categories found in navigation tree")
	ErrRobotCheck   = errors.New("robot check page detected")
)
