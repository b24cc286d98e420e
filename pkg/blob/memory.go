// ABOUTME: In-memory blob store implementation
// ABOUTME: Used by tests and examples in place of a durable backend

package blob

import "sync"

// MemStore keeps blobs in a process-local map.
type MemStore struct {
	mu    sync.RWMutex
	blobs map[string]string
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{blobs: make(map[string]string)}
}

// Get retrieves a blob by key.
func (m *MemStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.blobs[key]
	return val, ok, nil
}

// Set stores a blob under key, replacing any existing value.
func (m *MemStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = value
	return nil
}

// Delete removes a blob; deleting a missing key is a no-op.
func (m *MemStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

// Close releases the map.
func (m *MemStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs = nil
	return nil
}
