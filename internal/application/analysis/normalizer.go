package analysis

import (
	"context"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	domai "github.com/allamta/informed/internal/domain/ai"
	"github.com/allamta/informed/internal/domain/ingredients"
	"github.com/allamta/informed/internal/infra/ai/prompt"
	"github.com/allamta/informed/internal/metrics"
)

// Normalizer turns raw extracted label text into a cleaned, title-cased
// list of ingredient names via the model's strict comma-separated output
// contract. Duplicates are preserved; they only collapse later because the
// resolver keys by name.
type Normalizer struct {
	client domai.Client
}

func NewNormalizer(client domai.Client) *Normalizer {
	return &Normalizer{client: client}
}

func (n *Normalizer) Normalize(ctx context.Context, rawText string) ([]ingredients.Ingredient, error) {
	if strings.TrimSpace(rawText) == "" {
		// nothing extracted; no point asking the model
		return nil, nil
	}

	metrics.ModelCalls.Inc()
	start := time.Now()
	out, err := n.client.Complete(ctx, prompt.NormalizeSystemPrompt(), prompt.NormalizeUserPrompt(rawText), false)
	metrics.ModelDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ModelErrors.WithLabelValues("normalize").Inc()
		return nil, err
	}

	// a Caser carries transform state, so build one per call
	titleCaser := cases.Title(language.English)

	var result []ingredients.Ingredient
	for _, token := range strings.Split(out, ",") {
		name := strings.TrimSpace(token)
		if name == "" {
			continue
		}
		result = append(result, ingredients.Ingredient{Name: titleCaser.String(name)})
	}
	return result, nil
}
