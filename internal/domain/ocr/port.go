package ocr

import "context"

// Span is a piece of recognized text with the engine's confidence in [0,1].
type Span struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Engine is the port for the optical character recognition capability.
// Errors surface as opaque failures; the pipeline does not attempt to
// interpret the image itself.
type Engine interface {
	ReadText(ctx context.Context, image []byte) ([]Span, error)
}
