package analysis

import (
	"context"
	"sync"

	"github.com/allamta/informed/internal/domain/ingredients"
	domocr "github.com/allamta/informed/internal/domain/ocr"
)

// fakeModel queues canned completions and records every call.
type fakeModel struct {
	mu         sync.Mutex
	responses  []string
	err        error
	calls      int
	lastSystem string
	lastUser   string
	structured []bool
}

func (f *fakeModel) Complete(ctx context.Context, system, user string, structured bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastSystem = system
	f.lastUser = user
	f.structured = append(f.structured, structured)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

// fakeStore is an in-memory CacheStore with first-writer-wins inserts.
type fakeStore struct {
	mu       sync.Mutex
	records  map[string]ingredients.CacheRecord
	getErr   error
	putErr   error
	getCalls int
	putCalls int
	lastPut  []ingredients.CacheRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]ingredients.CacheRecord)}
}

func (f *fakeStore) BatchGet(ctx context.Context, keys []string) (map[string]ingredients.CacheRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := make(map[string]ingredients.CacheRecord)
	for _, k := range keys {
		if rec, ok := f.records[k]; ok {
			out[k] = rec
		}
	}
	return out, nil
}

func (f *fakeStore) BatchInsertIfAbsent(ctx context.Context, records []ingredients.CacheRecord) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls++
	f.lastPut = records
	if f.putErr != nil {
		return 0, f.putErr
	}
	inserted := 0
	for _, rec := range records {
		key := ingredients.CacheKey(rec.Name)
		if _, ok := f.records[key]; ok {
			continue
		}
		f.records[key] = rec
		inserted++
	}
	return inserted, nil
}

// fakeEngine returns canned spans or an error.
type fakeEngine struct {
	spans []domocr.Span
	err   error
	calls int
}

func (f *fakeEngine) ReadText(ctx context.Context, image []byte) ([]domocr.Span, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.spans, nil
}
