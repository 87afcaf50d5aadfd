package analyses

import "time"

// AnalysisID identifier type
type AnalysisID string

// Analysis is a completed ingredient analysis stored for auditing and
// retrieval. Result holds the JSON-encoded assessments map.
type Analysis struct {
	ID              AnalysisID `json:"id"`
	ImageURL        string     `json:"image_url,omitempty"`
	Result          string     `json:"result"`
	IngredientCount int        `json:"ingredient_count"`
	CreatedAt       time.Time  `json:"created_at"`
}
