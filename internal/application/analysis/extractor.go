package analysis

import (
	"context"
	"fmt"
	"time"

	domocr "github.com/allamta/informed/internal/domain/ocr"
	"github.com/allamta/informed/internal/metrics"
)

// Extractor wraps the OCR engine and applies the confidence threshold.
// Spans at or below the threshold are dropped silently; an empty result
// is valid and means zero ingredients, not an error.
type Extractor struct {
	engine    domocr.Engine
	threshold float64
}

func NewExtractor(engine domocr.Engine, threshold float64) *Extractor {
	return &Extractor{engine: engine, threshold: threshold}
}

func (e *Extractor) Extract(ctx context.Context, image []byte) ([]domocr.Span, error) {
	metrics.OCRRequests.Inc()

	start := time.Now()
	spans, err := e.engine.ReadText(ctx, image)
	metrics.OCRDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.OCRErrors.Inc()
		return nil, fmt.Errorf("%w: %v", domocr.ErrExtraction, err)
	}

	kept := make([]domocr.Span, 0, len(spans))
	for _, s := range spans {
		if s.Confidence > e.threshold {
			kept = append(kept, s)
		}
	}
	return kept, nil
}
