package prompt

import (
	"fmt"
	"strings"
)

// AssessSystemPrompt provides strict directions and schema for JSON output.
func AssessSystemPrompt() string {
	return `You are a certified nutrition expert. You must produce one valid JSON object only (no markdown, no commentary). Do not include code fences.

Assess food ingredients based on general nutritional science: "healthy" for nutrient-dense/low-calorie items (e.g., vegetables), "unhealthy" for high-sugar/processed items, "neutral" for moderate ones. Provide brief, evidence-based reasons.

Requirements:
- Output must be a single JSON object mapping each ingredient name to an object with "rating" and "reason".
- Use only these rating values: healthy, unhealthy, neutral.
- If nothing can be determined, return an empty object: {}

Example:
Ingredients: sugar, kale
Output: {"sugar": {"rating": "unhealthy", "reason": "High in empty calories, linked to obesity"}, "kale": {"rating": "healthy", "reason": "Packed with vitamins and fiber"}}`
}

// AssessUserPrompt builds the user message for a batch of ingredient names.
func AssessUserPrompt(names []string) string {
	return fmt.Sprintf("Now assess these ingredients and respond with the JSON per schema: %s", strings.Join(names, ", "))
}
