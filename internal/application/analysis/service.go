package analysis

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/allamta/informed/internal/domain/analyses"
	"github.com/allamta/informed/internal/domain/ingredients"
)

// Clock abstraction to keep time testable
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Service sequences the three pipeline stages: extract, normalize,
// resolve. One run is sequential; the service itself is safe for
// concurrent use, sharing only the cache store and model client.
type Service struct {
	Extractor  *Extractor
	Normalizer *Normalizer
	Resolver   *Resolver
	Audits     analyses.Repository
	Images     analyses.ImageStore
	Clock      Clock
	Log        *zap.SugaredLogger
}

// Analyze runs the pipeline on one image. A failure in any stage aborts
// the run; there is no partial result at this level.
func (s *Service) Analyze(ctx context.Context, image []byte) (*ingredients.AnalysisResult, error) {
	spans, err := s.Extractor.Extract(ctx, image)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(spans))
	for _, sp := range spans {
		texts = append(texts, sp.Text)
	}
	rawText := strings.Join(texts, ",")
	s.Log.Debugw("extraction complete", "spans", len(spans))

	ings, err := s.Normalizer.Normalize(ctx, rawText)
	if err != nil {
		return nil, err
	}
	s.Log.Debugw("normalization complete", "ingredients", len(ings))

	names := make([]string, 0, len(ings))
	for _, ing := range ings {
		names = append(names, ing.Name)
	}

	assessments, err := s.Resolver.Resolve(ctx, names)
	if err != nil {
		return nil, err
	}
	s.Log.Infow("analysis complete", "ingredients", len(names), "assessments", len(assessments))

	return &ingredients.AnalysisResult{Assessments: assessments}, nil
}

// AnalyzeAndStore runs Analyze, then archives the image and the result for
// later retrieval. Both side effects are best-effort: a storage failure is
// logged and never blocks or invalidates the returned result.
func (s *Service) AnalyzeAndStore(ctx context.Context, image []byte, contentType string) (*ingredients.AnalysisResult, error) {
	result, err := s.Analyze(ctx, image)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()

	var imageURL string
	if s.Images != nil {
		url, err := s.Images.Upload(ctx, "labels/"+id, image, contentType)
		if err != nil {
			s.Log.Warnw("image archive failed", "id", id, "error", err)
		} else {
			imageURL = url
		}
	}

	if s.Audits != nil {
		payload, err := json.Marshal(result)
		if err == nil {
			err = s.Audits.Save(ctx, &analyses.Analysis{
				ID:              analyses.AnalysisID(id),
				ImageURL:        imageURL,
				Result:          string(payload),
				IngredientCount: len(result.Assessments),
				CreatedAt:       s.Clock.Now(),
			})
		}
		if err != nil {
			s.Log.Warnw("audit save failed", "id", id, "error", err)
		}
	}

	return result, nil
}

// ListAnalyses returns a page of past analyses, newest first.
func (s *Service) ListAnalyses(ctx context.Context, page, pageSize int) ([]*analyses.Analysis, error) {
	if s.Audits == nil {
		return nil, nil
	}
	return s.Audits.Paginate(ctx, page, pageSize)
}

// GetAnalysis fetches one past analysis by id. A missing id surfaces as
// sql.ErrNoRows so the transport layer can answer not-found.
func (s *Service) GetAnalysis(ctx context.Context, id analyses.AnalysisID) (*analyses.Analysis, error) {
	if s.Audits == nil {
		return nil, sql.ErrNoRows
	}
	return s.Audits.Get(ctx, id)
}
