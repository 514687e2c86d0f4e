package storage

import (
	"context"
	"sync"
)

// MemoryBackend keeps values in a process-local map. Useful for tests and
// for session-lifetime state that should not outlive the process.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

// GetValue returns the stored bytes for key, or (nil, nil) when absent.
func (m *MemoryBackend) GetValue(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.values[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// SetValue stores data under key, removing the key when data is nil.
func (m *MemoryBackend) SetValue(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if data == nil {
		delete(m.values, key)
		return nil
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.values[key] = stored
	return nil
}

// Len reports how many keys are stored.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

var _ Backend = (*MemoryBackend)(nil)
