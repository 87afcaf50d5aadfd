package ai

import "errors"

// ErrQuotaExceeded indicates the model provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("model quota exceeded")

// ErrModelUnavailable indicates the model could not be reached or did not
// answer (timeout, transport failure, provider outage). Never retried
// inside the core; retry policy belongs to the caller.
var ErrModelUnavailable = errors.New("model unavailable")
