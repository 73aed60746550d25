package medium

import (
	"sync"

	"github.com/mesh-intelligence/kpitrack/pkg/types"
)

// Memory is a process-local medium. Values are lost on Close.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// NewMemory returns an empty in-memory medium.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", false, types.ErrMediumClosed
	}
	v, ok := m.values[key]
	return v, ok, nil
}

// Set overwrites the value stored under key.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return types.ErrMediumClosed
	}
	m.values[key] = value
	return nil
}

// Remove deletes key. A missing key is not an error.
func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return types.ErrMediumClosed
	}
	delete(m.values, key)
	return nil
}

// Close drops all values. Idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.values = nil
	return nil
}
