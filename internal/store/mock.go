package store

import (
	"sync"

	"fjacquet/ledgerdash/internal/ledgererror"
)

// MockStore is an in-memory KeyValueStore for tests with injectable errors
// and a record of writes.
type MockStore struct {
	*MemoryStore

	// Error flags for testing error conditions
	GetError  error
	PutError  error
	KeysError error
	// FailKeys makes Put fail only for the listed keys.
	FailKeys map[string]error

	mu   sync.Mutex
	puts []string
}

// NewMockStore returns an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{MemoryStore: NewMemoryStore()}
}

// Get returns the stored value or GetError.
func (m *MockStore) Get(key string) ([]byte, bool, error) {
	if m.GetError != nil {
		return nil, false, &ledgererror.StorageError{Op: "get", Key: key, Err: m.GetError}
	}
	return m.MemoryStore.Get(key)
}

// Put records the write, then stores it unless an error is injected.
func (m *MockStore) Put(key string, value []byte) error {
	m.mu.Lock()
	m.puts = append(m.puts, key)
	m.mu.Unlock()

	if err, ok := m.FailKeys[key]; ok {
		return &ledgererror.StorageError{Op: "put", Key: key, Err: err}
	}
	if m.PutError != nil {
		return &ledgererror.StorageError{Op: "put", Key: key, Err: m.PutError}
	}
	return m.MemoryStore.Put(key, value)
}

// Keys lists the stored keys or returns KeysError.
func (m *MockStore) Keys() ([]string, error) {
	if m.KeysError != nil {
		return nil, m.KeysError
	}
	return m.MemoryStore.Keys()
}

// Puts returns the keys written so far, in order.
func (m *MockStore) Puts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.puts...)
}

// CountPuts returns how many times key was written.
func (m *MockStore) CountPuts(key string) int {
	n := 0
	for _, k := range m.Puts() {
		if k == key {
			n++
		}
	}
	return n
}
