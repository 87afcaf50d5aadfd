package prompt

import "fmt"

// NormalizeSystemPrompt instructs the model to emit nothing but a
// comma-separated ingredient list.
func NormalizeSystemPrompt() string {
	return `You are a precise ingredient extraction tool. You ONLY output comma-separated ingredient lists with no additional text whatsoever.

Requirements:
- Output a single line.
- No explanations, no markdown, no numbering.
- Each item is one ingredient name as it would appear on a food label.
- If no ingredients can be identified, output an empty line.`
}

// NormalizeUserPrompt wraps the raw OCR text.
func NormalizeUserPrompt(rawText string) string {
	return fmt.Sprintf("Extract ingredients from: %s\n\nOutput format: ingredient1, ingredient2, ingredient3", rawText)
}
