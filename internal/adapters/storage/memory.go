package storage

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-process ports.KeyValueStore.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get returns a copy of the value at key.
func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.data[key]), nil
}

// Update runs fn under the write lock.
func (m *MemoryStore) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := fn(slices.Clone(m.data[key]))
	if err != nil {
		return err
	}

	if next == nil {
		delete(m.data, key)
		return nil
	}

	m.data[key] = slices.Clone(next)

	return nil
}

// Delete removes key.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)

	return nil
}

// Name implements ports.HealthChecker.
func (m *MemoryStore) Name() string { return "storage" }

// Check implements ports.HealthChecker. Memory is always available.
func (m *MemoryStore) Check(ctx context.Context) error { return ctx.Err() }
