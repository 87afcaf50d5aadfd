package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	domocr "github.com/allamta/informed/internal/domain/ocr"
)

// TesseractEngine implements ocr.Engine on top of gosseract. A fresh
// gosseract client is created per call; the underlying API handle is not
// safe for concurrent use, the engine itself is.
type TesseractEngine struct {
	languages []string
}

func NewTesseractEngine(languages ...string) *TesseractEngine {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &TesseractEngine{languages: languages}
}

func (e *TesseractEngine) ReadText(ctx context.Context, image []byte) ([]domocr.Span, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.languages...); err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}

	spans := make([]domocr.Span, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		// gosseract reports confidence in [0,100]
		spans = append(spans, domocr.Span{Text: text, Confidence: box.Confidence / 100.0})
	}
	return spans, nil
}
