// Package store wraps a plain key-value store with typed, versioned collection
// persistence. The store itself only guarantees Get/Set/Delete on strings; no
// multi-key transactionality exists, so each collection lives under one key and
// every save rewrites it wholesale.
package store

import (
	"context"
	"fmt"
	"sync"

	"workboard-service/models"
)

// Store is the minimal contract the persistence backends expose. Get reports a
// missing key as models.ErrNotFound; Set and Delete failures mean the mutation
// is in an unknown state and must not be treated as applied.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps everything in process memory. It is the default backend
// and the one the tests run against.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return "", fmt.Errorf("key %q: %w", key, models.ErrNotFound)
	}
	return value, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
