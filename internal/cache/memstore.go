package cache

import (
	"bytes"
	"fmt"
	"sync"
)

// MemoryStore is a map-backed Store for tests and short-lived processes.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[Key][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[Key][]byte)}
}

// Has reports whether an entry exists for the key.
func (s *MemoryStore) Has(key Key) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok, nil
}

// Get returns a copy of the stored payload, or ErrNotFound.
func (s *MemoryStore) Get(key Key) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Put stores a copy of the payload with write-once semantics.
func (s *MemoryStore) Put(key Key, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.entries[key]; ok {
		if bytes.Equal(existing, data) {
			return nil
		}
		return fmt.Errorf("%w: key %s", ErrKeyConflict, key)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.entries[key] = stored
	return nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
