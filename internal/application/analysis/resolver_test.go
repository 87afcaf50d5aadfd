package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/allamta/informed/internal/domain/ingredients"
)

func newTestResolver(t *testing.T, store ingredients.CacheStore, model *fakeModel) *Resolver {
	t.Helper()
	return NewResolver(store, model, zaptest.NewLogger(t).Sugar())
}

func TestResolver_CacheCompleteSkipsModel(t *testing.T) {
	store := newFakeStore()
	store.records["sugar"] = ingredients.CacheRecord{Name: "sugar", Rating: ingredients.RatingUnhealthy, Reason: "empty calories"}
	store.records["kale"] = ingredients.CacheRecord{Name: "kale", Rating: ingredients.RatingHealthy, Reason: "vitamins"}
	model := &fakeModel{}

	got, err := newTestResolver(t, store, model).Resolve(context.Background(), []string{"Sugar", "Kale"})
	require.NoError(t, err)

	assert.Equal(t, 0, model.calls, "cache-complete input must not invoke the model")
	assert.Equal(t, ingredients.Assessment{Rating: ingredients.RatingUnhealthy, Reason: "empty calories"}, got["Sugar"])
	assert.Equal(t, ingredients.Assessment{Rating: ingredients.RatingHealthy, Reason: "vitamins"}, got["Kale"])
}

func TestResolver_EmptyCacheSingleBatchedCall(t *testing.T) {
	store := newFakeStore()
	model := &fakeModel{responses: []string{
		`{"sugar": {"rating": "unhealthy", "reason": "empty calories"}, "kale": {"rating": "healthy", "reason": "vitamins"}, "salt": {"rating": "neutral", "reason": "fine in moderation"}}`,
	}}

	got, err := newTestResolver(t, store, model).Resolve(context.Background(), []string{"Sugar", "Kale", "Salt"})
	require.NoError(t, err)

	assert.Equal(t, 1, model.calls, "one batched call regardless of miss count")
	require.Len(t, model.structured, 1)
	assert.True(t, model.structured[0], "rating call must request structured output")
	assert.Contains(t, model.lastUser, "sugar")
	assert.Contains(t, model.lastUser, "salt")
	assert.Len(t, got, 3)
	assert.Equal(t, ingredients.RatingNeutral, got["Salt"].Rating)
}

func TestResolver_Idempotence(t *testing.T) {
	store := newFakeStore()
	model := &fakeModel{responses: []string{
		`{"sugar": {"rating": "unhealthy", "reason": "empty calories"}}`,
	}}
	resolver := newTestResolver(t, store, model)

	first, err := resolver.Resolve(context.Background(), []string{"Sugar"})
	require.NoError(t, err)
	require.Equal(t, 1, model.calls)

	second, err := resolver.Resolve(context.Background(), []string{"Sugar"})
	require.NoError(t, err)

	assert.Equal(t, 1, model.calls, "second run must be served from cache")
	assert.Equal(t, first, second)
}

func TestResolver_MalformedResponseDegradesAll(t *testing.T) {
	store := newFakeStore()
	model := &fakeModel{responses: []string{`this is not json`}}

	got, err := newTestResolver(t, store, model).Resolve(context.Background(), []string{"Sugar", "Kale"})
	require.NoError(t, err, "a parse failure must not fail the request")

	for _, name := range []string{"Sugar", "Kale"} {
		assert.Equal(t, ingredients.RatingUnknown, got[name].Rating)
		assert.Contains(t, got[name].Reason, "Parsing failed")
	}
	assert.Equal(t, 0, store.putCalls, "nothing parseable means nothing to persist")
}

func TestResolver_MissingFieldDegradesOnlyThatEntry(t *testing.T) {
	store := newFakeStore()
	model := &fakeModel{responses: []string{
		`{"sugar": {"rating": "unhealthy"}, "kale": {"rating": "healthy", "reason": "vitamins"}}`,
	}}

	got, err := newTestResolver(t, store, model).Resolve(context.Background(), []string{"Sugar", "Kale"})
	require.NoError(t, err)

	assert.Equal(t, ingredients.RatingUnknown, got["Sugar"].Rating)
	assert.Contains(t, got["Sugar"].Reason, `missing field "reason"`)
	assert.Equal(t, ingredients.Assessment{Rating: ingredients.RatingHealthy, Reason: "vitamins"}, got["Kale"])
}

func TestResolver_KeyNormalization(t *testing.T) {
	store := newFakeStore()
	store.records["sugar"] = ingredients.CacheRecord{Name: "sugar", Rating: ingredients.RatingUnhealthy, Reason: "empty calories"}
	model := &fakeModel{}

	got, err := newTestResolver(t, store, model).Resolve(context.Background(), []string{"Sugar", " sugar ", "SUGAR"})
	require.NoError(t, err)

	assert.Equal(t, 0, model.calls)
	assert.Len(t, got, 3, "each original-casing name appears as its own entry")
	for name := range got {
		assert.Equal(t, ingredients.RatingUnhealthy, got[name].Rating)
	}
}

func TestResolver_CacheWriteFailureDoesNotSurface(t *testing.T) {
	store := newFakeStore()
	store.putErr = errors.New("disk full")
	model := &fakeModel{responses: []string{
		`{"sugar": {"rating": "unhealthy", "reason": "empty calories"}}`,
	}}

	got, err := newTestResolver(t, store, model).Resolve(context.Background(), []string{"Sugar"})
	require.NoError(t, err, "durability is best-effort")
	assert.Equal(t, ingredients.RatingUnhealthy, got["Sugar"].Rating)
	assert.Equal(t, 1, store.putCalls)
}

func TestResolver_CacheReadFailureDegradesToMiss(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection reset")
	model := &fakeModel{responses: []string{
		`{"sugar": {"rating": "unhealthy", "reason": "empty calories"}}`,
	}}

	got, err := newTestResolver(t, store, model).Resolve(context.Background(), []string{"Sugar"})
	require.NoError(t, err)
	assert.Equal(t, 1, model.calls)
	assert.Equal(t, ingredients.RatingUnhealthy, got["Sugar"].Rating)
}

func TestResolver_ModelFailurePropagates(t *testing.T) {
	store := newFakeStore()
	modelErr := errors.New("gateway timeout")
	model := &fakeModel{err: modelErr}

	_, err := newTestResolver(t, store, model).Resolve(context.Background(), []string{"Sugar"})
	assert.ErrorIs(t, err, modelErr)
}

func TestResolver_UnknownNeverPersisted(t *testing.T) {
	store := newFakeStore()
	model := &fakeModel{responses: []string{
		`{"sugar": {"rating": "unhealthy", "reason": "empty calories"}, "kale": {"rating": "healthy"}}`,
	}}

	_, err := newTestResolver(t, store, model).Resolve(context.Background(), []string{"Sugar", "Kale"})
	require.NoError(t, err)

	require.Len(t, store.lastPut, 1)
	assert.Equal(t, "sugar", store.lastPut[0].Name)
	_, cachedKale := store.records["kale"]
	assert.False(t, cachedKale, "degraded entries must stay transient")
}

func TestResolver_UnsolicitedEntriesIgnored(t *testing.T) {
	store := newFakeStore()
	model := &fakeModel{responses: []string{
		`{"sugar": {"rating": "unhealthy", "reason": "empty calories"}, "spinach": {"rating": "healthy", "reason": "iron"}}`,
	}}

	got, err := newTestResolver(t, store, model).Resolve(context.Background(), []string{"Sugar"})
	require.NoError(t, err)

	assert.Len(t, got, 1)
	_, ok := got["Spinach"]
	assert.False(t, ok)
	_, cached := store.records["spinach"]
	assert.False(t, cached, "unsolicited entries are not cached either")
}

func TestResolver_OmittedNameDegradesToUnknown(t *testing.T) {
	store := newFakeStore()
	model := &fakeModel{responses: []string{
		`{"sugar": {"rating": "unhealthy", "reason": "empty calories"}}`,
	}}

	got, err := newTestResolver(t, store, model).Resolve(context.Background(), []string{"Sugar", "Kale"})
	require.NoError(t, err)

	assert.Equal(t, ingredients.RatingUnknown, got["Kale"].Rating)
	assert.Contains(t, got["Kale"].Reason, "no rating returned")
}

func TestResolver_EmptyInput(t *testing.T) {
	store := newFakeStore()
	model := &fakeModel{}

	got, err := newTestResolver(t, store, model).Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, model.calls)
}

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantRating ingredients.Rating
		wantReason string
	}{
		{
			name:       "valid entry",
			raw:        `{"rating": "healthy", "reason": "fiber"}`,
			wantRating: ingredients.RatingHealthy,
			wantReason: "fiber",
		},
		{
			name:       "rating normalized",
			raw:        `{"rating": " Healthy ", "reason": "fiber"}`,
			wantRating: ingredients.RatingHealthy,
			wantReason: "fiber",
		},
		{
			name:       "missing rating",
			raw:        `{"reason": "fiber"}`,
			wantRating: ingredients.RatingUnknown,
			wantReason: `Parsing failed: missing field "rating"`,
		},
		{
			name:       "unexpected rating value",
			raw:        `{"rating": "delicious", "reason": "tasty"}`,
			wantRating: ingredients.RatingUnknown,
			wantReason: `Parsing failed: unexpected rating "delicious"`,
		},
		{
			name:       "model may not answer unknown",
			raw:        `{"rating": "unknown", "reason": "no idea"}`,
			wantRating: ingredients.RatingUnknown,
			wantReason: `Parsing failed: unexpected rating "unknown"`,
		},
		{
			name:       "entry not an object",
			raw:        `"unhealthy"`,
			wantRating: ingredients.RatingUnknown,
			wantReason: "Parsing failed: malformed entry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseEntry([]byte(tt.raw))
			assert.Equal(t, tt.wantRating, got.Rating)
			assert.Equal(t, tt.wantReason, got.Reason)
		})
	}
}
