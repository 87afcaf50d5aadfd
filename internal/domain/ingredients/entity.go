package ingredients

import (
	"strings"
	"time"
)

// Rating enum
type Rating string

const (
	RatingHealthy   Rating = "healthy"
	RatingUnhealthy Rating = "unhealthy"
	RatingNeutral   Rating = "neutral"
	// RatingUnknown is produced locally when a model response cannot be
	// parsed; it is never requested from the model and never cached.
	RatingUnknown Rating = "unknown"
)

// Valid reports whether r is a rating the model is allowed to return.
func (r Rating) Valid() bool {
	switch r {
	case RatingHealthy, RatingUnhealthy, RatingNeutral:
		return true
	}
	return false
}

// Ingredient is a candidate name produced by normalization. Confidence is
// only meaningful on extractor output; post-normalization it defaults to 0.
type Ingredient struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Assessment is the health verdict for a single ingredient.
type Assessment struct {
	Rating Rating `json:"rating"`
	Reason string `json:"reason"`
}

// CacheRecord is the persisted form of an Assessment, keyed by the
// normalized ingredient name. At most one record exists per name; the
// store enforces first-writer-wins.
type CacheRecord struct {
	Name      string    `json:"name"`
	Rating    Rating    `json:"rating"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// AnalysisResult maps each ingredient name (post-normalization casing) to
// its assessment.
type AnalysisResult struct {
	Assessments map[string]Assessment `json:"assessments"`
}

// CacheKey normalizes a name into its cache lookup key. "Sugar", " sugar "
// and "SUGAR" all map to the same key.
func CacheKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
