package store

import (
	"context"
	"sync"
)

// MemoryStore is a process-local backend for tests and throwaway sessions.
type MemoryStore struct {
	mu  sync.RWMutex
	rec *Record
	// saves counts successful Save calls.
	saves int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWith seeds the store as if rec had been persisted earlier.
func NewMemoryStoreWith(rec *Record) *MemoryStore {
	return &MemoryStore{rec: rec.clone()}
}

func (m *MemoryStore) Load(_ context.Context) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rec.clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = rec.clone()
	m.saves++
	return nil
}

func (m *MemoryStore) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = nil
	return nil
}

func (m *MemoryStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func (m *MemoryStore) Close() error { return nil }
