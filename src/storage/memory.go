package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore keeps JSON-encoded documents in process memory. It is used for
// local runs and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
	puts int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (m *MemoryStore) Put(ctx context.Context, key Key, doc interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key.String()] = raw
	m.puts++
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, key Key, out interface{}) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.RLock()
	raw, ok := m.docs[key.String()]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Delete removes a document. Missing keys are ignored.
func (m *MemoryStore) Delete(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, key.String())
}

// Puts returns the number of successful Put calls.
func (m *MemoryStore) Puts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts
}
