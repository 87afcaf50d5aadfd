package ingredients

import "context"

// CacheStore port (interface for assessment persistence)
type CacheStore interface {
	// BatchGet returns the records found for the given normalized keys.
	// Missing keys are simply absent from the result, not an error.
	BatchGet(ctx context.Context, keys []string) (map[string]CacheRecord, error)

	// BatchInsertIfAbsent inserts records whose key does not exist yet and
	// silently skips the rest. Returns the number of rows inserted.
	// Concurrent writers racing on the same key must not both insert.
	BatchInsertIfAbsent(ctx context.Context, records []CacheRecord) (int, error)
}
