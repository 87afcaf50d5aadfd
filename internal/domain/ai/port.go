package ai

import "context"

// Client is the port for the external generative-text model. When
// structured is true the model is instructed to return a single JSON
// object; the caller must still validate, there is no guarantee the
// output parses.
type Client interface {
	Complete(ctx context.Context, system, user string, structured bool) (string, error)
}
