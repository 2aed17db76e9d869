package extract

import (
	"unicode/utf8"

	"github.com/bala-nullpointer/amznbsscraper/internal/models"
	"github.com/bala-nullpointer/amznbsscraper/internal/normalize"
)

const (
	// minValidatedNameLength is the minimum cleaned-name length for a record
	// to be considered meaningful.
	minValidatedNameLength = 10
	// MaxItemsPerCategory caps the final record set per category.
	MaxItemsPerCategory = 100
)

// ValidateAndClean is the intra-page pass: it cleans every field, drops
// records that are incomplete or implausible, and dedups by link keeping the
// first occurrence. Records are dropped, never repaired.
func ValidateAndClean(candidates []models.RawCandidate) []models.Item {
	validated := make([]models.Item, 0, len(candidates))
	for _, c := range candidates {
		if c.Name == "" || c.Link == "" {
			continue
		}
		item := models.Item{
			Rank:   normalize.CleanRank(c.Rank),
			Name:   normalize.CleanName(c.Name),
			Link:   normalize.ValidateLink(c.Link),
			Rating: normalize.CleanRating(c.Rating),
			Price:  normalize.CleanPrice(c.Price),
			ASIN:   c.ASIN,
		}
		if item.Name == "" || item.Link == "" || utf8.RuneCountInString(item.Name) <= minValidatedNameLength {
			continue
		}
		validated = append(validated, item)
	}

	seen := make(map[string]struct{}, len(validated))
	unique := validated[:0]
	for _, item := range validated {
		if _, dup := seen[item.Link]; dup {
			continue
		}
		seen[item.Link] = struct{}{}
		unique = append(unique, item)
	}
	return unique
}

// Deduplicate is the cross-page pass run after merging page 1 and page 2,
// capped at MaxItemsPerCategory.
func Deduplicate(items []models.Item) []models.Item {
	return DeduplicateLimit(items, MaxItemsPerCategory)
}

// DeduplicateLimit dedups merged pages with a caller-chosen cap. The dedup
// key is the ASIN when present, the canonical link otherwise; a record whose
// key was already seen is dropped. The ASIN is stripped from emitted records.
//
// Server-side pagination overlaps and reshuffles, so the same product
// routinely appears on both pages; this pass is what keeps the final set
// trustworthy.
func DeduplicateLimit(items []models.Item, limit int) []models.Item {
	seenASIN := make(map[string]struct{}, len(items))
	seenLink := make(map[string]struct{}, len(items))

	unique := make([]models.Item, 0, len(items))
	for _, item := range items {
		switch {
		case item.ASIN != "":
			if _, dup := seenASIN[item.ASIN]; dup {
				continue
			}
			seenASIN[item.ASIN] = struct{}{}
			seenLink[item.Link] = struct{}{}
		case item.Link != "":
			if _, dup := seenLink[item.Link]; dup {
				continue
			}
			seenLink[item.Link] = struct{}{}
		default:
			continue
		}

		item.ASIN = ""
		unique = append(unique, item)
		if len(unique) == limit {
			break
		}
	}
	return unique
}
