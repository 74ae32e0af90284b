// Package harness collects mutant execution outcomes from external test
// workers. The engine never executes mutants itself; workers run them in
// arbitrary order, possibly concurrently and under a time budget, and
// report one Result per mutant. This package provides durable and
// in-memory stores for those results plus a collector that merges
// concurrent result streams into scorer input.
package harness

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/playproof/playproof/mutation"
)

// ErrResultNotFound is returned when no outcome exists for a mutant id.
var ErrResultNotFound = errors.New("harness: result not found")

// Store persists mutant outcomes keyed by mutant id. A second Put for the
// same mutant overwrites the first, so a retried worker wins over its own
// earlier timeout.
type Store interface {
	// Put records one outcome.
	Put(ctx context.Context, result mutation.Result) error

	// Get retrieves the outcome for a mutant id.
	Get(ctx context.Context, mutantID string) (mutation.Result, error)

	// List returns all recorded outcomes sorted by mutant id.
	List(ctx context.Context) ([]mutation.Result, error)

	// Close releases any underlying resources.
	Close() error
}

// MemoryStore is a mutex-guarded in-process Store, suitable for tests and
// single-process runs.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]mutation.Result
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{results: make(map[string]mutation.Result)}
}

// Put records one outcome.
func (s *MemoryStore) Put(_ context.Context, result mutation.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.MutantID] = result
	return nil
}

// Get retrieves the outcome for a mutant id.
func (s *MemoryStore) Get(_ context.Context, mutantID string) (mutation.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[mutantID]
	if !ok {
		return mutation.Result{}, ErrResultNotFound
	}
	return r, nil
}

// List returns all recorded outcomes sorted by mutant id.
func (s *MemoryStore) List(_ context.Context) ([]mutation.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]mutation.Result, 0, len(s.results))
	for _, r := range s.results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MutantID < out[j].MutantID })
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
