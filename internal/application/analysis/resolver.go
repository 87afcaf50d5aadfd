package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	domai "github.com/allamta/informed/internal/domain/ai"
	"github.com/allamta/informed/internal/domain/ingredients"
	"github.com/allamta/informed/internal/infra/ai/prompt"
	"github.com/allamta/informed/internal/metrics"
)

// Resolver answers a batch of ingredient names with cache-aside resolution:
// batch-read the store, call the model once for the missing subset, write
// new assessments back best-effort. The model is invoked at most once per
// Resolve call and never while holding any lock.
type Resolver struct {
	store  ingredients.CacheStore
	client domai.Client
	log    *zap.SugaredLogger
}

func NewResolver(store ingredients.CacheStore, client domai.Client, log *zap.SugaredLogger) *Resolver {
	return &Resolver{store: store, client: client, log: log}
}

// Resolve returns one assessment per distinct original-casing name. Names
// sharing a normalized key share the same assessment.
func (r *Resolver) Resolve(ctx context.Context, names []string) (map[string]ingredients.Assessment, error) {
	out := make(map[string]ingredients.Assessment, len(names))
	if len(names) == 0 {
		return out, nil
	}

	keyByName := make(map[string]string, len(names))
	seen := make(map[string]struct{}, len(names))
	keys := make([]string, 0, len(names))
	for _, name := range names {
		key := ingredients.CacheKey(name)
		keyByName[name] = key
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}

	cached, err := r.store.BatchGet(ctx, keys)
	if err != nil {
		// a failed read degrades to a full miss; the model call below
		// still produces a complete answer
		r.log.Warnw("cache read failed", "error", err)
		cached = map[string]ingredients.CacheRecord{}
	}
	metrics.CacheHits.Add(float64(len(cached)))
	metrics.CacheMisses.Add(float64(len(keys) - len(cached)))

	byKey := make(map[string]ingredients.Assessment, len(keys))
	missing := make([]string, 0, len(keys))
	for _, key := range keys {
		if rec, ok := cached[key]; ok {
			byKey[key] = ingredients.Assessment{Rating: rec.Rating, Reason: rec.Reason}
		} else {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		resolved, err := r.assess(ctx, missing)
		if err != nil {
			return nil, err
		}

		records := make([]ingredients.CacheRecord, 0, len(resolved))
		for key, a := range resolved {
			byKey[key] = a
			// unknown is a local failure sentinel, never persisted
			if a.Rating.Valid() {
				records = append(records, ingredients.CacheRecord{Name: key, Rating: a.Rating, Reason: a.Reason})
			}
		}

		// best-effort write-back; the in-memory result is already complete
		if len(records) > 0 {
			if _, err := r.store.BatchInsertIfAbsent(ctx, records); err != nil {
				r.log.Warnw("cache write failed", "records", len(records), "error", err)
			}
		}
	}

	for name, key := range keyByName {
		if a, ok := byKey[key]; ok {
			out[name] = a
		}
	}
	return out, nil
}

// assess issues the single batched model call for the missing keys and
// parses the response with per-entry fault isolation.
func (r *Resolver) assess(ctx context.Context, keys []string) (map[string]ingredients.Assessment, error) {
	metrics.ModelCalls.Inc()
	start := time.Now()
	raw, err := r.client.Complete(ctx, prompt.AssessSystemPrompt(), prompt.AssessUserPrompt(keys), true)
	metrics.ModelDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ModelErrors.WithLabelValues("assess").Inc()
		return nil, err
	}
	return parseAssessments(raw, keys), nil
}

// parseAssessments never fails the batch. An unparseable response degrades
// every key to unknown; a bad individual entry degrades only itself.
func parseAssessments(raw string, keys []string) map[string]ingredients.Assessment {
	out := make(map[string]ingredients.Assessment, len(keys))

	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		metrics.ModelErrors.WithLabelValues("invalid_json").Inc()
		for _, key := range keys {
			out[key] = ingredients.Assessment{Rating: ingredients.RatingUnknown, Reason: "Parsing failed: invalid model response"}
		}
		return out
	}

	// normalize response keys so a re-cased name still matches; entries
	// for names that were never requested are dropped here
	byKey := make(map[string]json.RawMessage, len(entries))
	for name, entry := range entries {
		byKey[ingredients.CacheKey(name)] = entry
	}

	for _, key := range keys {
		entry, ok := byKey[key]
		if !ok {
			out[key] = ingredients.Assessment{Rating: ingredients.RatingUnknown, Reason: "Parsing failed: no rating returned"}
			continue
		}
		out[key] = parseEntry(entry)
	}
	return out
}

func parseEntry(raw json.RawMessage) ingredients.Assessment {
	var e struct {
		Rating *string `json:"rating"`
		Reason *string `json:"reason"`
	}
	if err := json.Unmarshal(raw, &e); err != nil {
		return ingredients.Assessment{Rating: ingredients.RatingUnknown, Reason: "Parsing failed: malformed entry"}
	}
	if e.Rating == nil {
		return ingredients.Assessment{Rating: ingredients.RatingUnknown, Reason: `Parsing failed: missing field "rating"`}
	}
	if e.Reason == nil {
		return ingredients.Assessment{Rating: ingredients.RatingUnknown, Reason: `Parsing failed: missing field "reason"`}
	}
	rating := ingredients.Rating(strings.ToLower(strings.TrimSpace(*e.Rating)))
	if !rating.Valid() {
		return ingredients.Assessment{Rating: ingredients.RatingUnknown, Reason: fmt.Sprintf("Parsing failed: unexpected rating %q", *e.Rating)}
	}
	return ingredients.Assessment{Rating: rating, Reason: *e.Reason}
}
