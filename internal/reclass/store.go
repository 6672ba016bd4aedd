// Package reclass holds user category overrides, keyed by transaction
// identity. Overrides live independently of the transaction set: a reload
// replaces every transaction, then re-applies the full override map before any
// aggregation, so user corrections are never lost.
package reclass

import (
	"context"
	"sync"

	"github.com/clearspend-dev/clearspend/internal/identity"
	"github.com/clearspend-dev/clearspend/internal/model"
)

// Store persists category overrides keyed by identity tuple.
type Store interface {
	// Set writes or replaces the override for a key.
	Set(ctx context.Context, key identity.Key, category string) error
	// Get returns the override for a key, or false.
	Get(ctx context.Context, key identity.Key) (string, bool, error)
	// All returns every override.
	All(ctx context.Context) (map[identity.Key]string, error)
	// Delete removes the override for a key. Missing keys are not an error.
	Delete(ctx context.Context, key identity.Key) error
	Close() error
}

// Apply rewrites transaction categories from the override map. Applying the
// same map to the same set any number of times yields identical categories.
func Apply(txs []model.Transaction, overrides map[identity.Key]string) []model.Transaction {
	if len(overrides) == 0 {
		return txs
	}
	for i := range txs {
		if cat, ok := overrides[identity.ForTransaction(txs[i])]; ok {
			txs[i].Category = cat
		}
	}
	return txs
}

// MemoryStore is an in-memory Store for tests and ephemeral sessions.
type MemoryStore struct {
	mu        sync.RWMutex
	overrides map[identity.Key]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{overrides: make(map[identity.Key]string)}
}

func (s *MemoryStore) Set(_ context.Context, key identity.Key, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[key] = category
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key identity.Key) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cat, ok := s.overrides[key]
	return cat, ok, nil
}

func (s *MemoryStore) All(_ context.Context) (map[identity.Key]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[identity.Key]string, len(s.overrides))
	for k, v := range s.overrides {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, key identity.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, key)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
