package extract

import (
	"log/slog"

	"github.com/bala-nullpointer/amznbsscraper/internal/models"
	"github.com/bala-nullpointer/amznbsscraper/internal/page"
)

const (
	// minContainersForExtraction gates the container method: below this the
	// page almost certainly failed to render a product grid.
	minContainersForExtraction = 10
	// minContainerYield is the under-yield threshold that triggers the flat
	// fallback extractor.
	minContainerYield = 15
)

// PageExtractor sequences a single page's extraction: lazy-load convergence,
// container extraction, the flat fallback when the container method
// under-yields, and the intra-page validation pass.
type PageExtractor struct {
	detector  *ConvergenceDetector
	container *ContainerExtractor
	fallback  *FallbackExtractor
	logger    *slog.Logger
}

func NewPageExtractor(baseURL string, logger *slog.Logger) *PageExtractor {
	return &PageExtractor{
		detector:  NewConvergenceDetector(logger),
		container: NewContainerExtractor(baseURL, logger),
		fallback:  NewFallbackExtractor(baseURL, logger),
		logger:    logger.With("component", "page_extractor"),
	}
}

// Detector exposes the convergence detector for configuration.
func (e *PageExtractor) Detector() *ConvergenceDetector {
	return e.detector
}

// ExtractPage returns the validated, link-deduped items of the current page.
func (e *PageExtractor) ExtractPage(h page.Handle) []models.Item {
	containerCount := e.detector.Run(h)

	var candidates []models.RawCandidate
	if containerCount >= minContainersForExtraction {
		candidates = e.container.Extract(h.Find(ContainerSelector))
		e.logger.Debug("container method", "items", len(candidates))
	}

	if len(candidates) < minContainerYield {
		e.logger.Debug("container method under-yielded, trying flat fallback", "items", len(candidates))
		if html, err := h.Content(); err == nil {
			if flat := e.fallback.Extract(html); len(flat) > len(candidates) {
				candidates = flat
				e.logger.Debug("flat fallback won", "items", len(candidates))
			}
		} else {
			e.logger.Warn("failed to snapshot page content", "error", err)
		}
	}

	validated := ValidateAndClean(candidates)
	e.logger.Debug("page extraction complete", "raw", len(candidates), "validated", len(validated))
	return validated
}
