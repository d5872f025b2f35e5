package store

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"paywall-go/internal/paywall"
)

// MemoryStore is an in-memory implementation of the ContentStore interface.
// It keeps all blobs in memory, making it useful for testing.
// Safe for concurrent use.
type MemoryStore struct {
	name    string
	content map[string][]byte // handle -> blob
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory content store with the given name.
func NewMemoryStore(name string) *MemoryStore {
	return &MemoryStore{
		name:    name,
		content: make(map[string][]byte),
	}
}

// Put stores a blob under its handle.
func (m *MemoryStore) Put(handle string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Idempotent: storing the same handle multiple times is safe
	m.content[handle] = data
	return nil
}

// Get retrieves a blob by handle.
func (m *MemoryStore) Get(handle string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.content[handle]
	if !ok {
		return fmt.Errorf("content not found: %s", handle)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}

	return nil
}

// KeyRef returns "" — memory stores keep blobs as given.
func (m *MemoryStore) KeyRef() string { return "" }

// ValidateSetup always succeeds for the in-memory store.
func (m *MemoryStore) ValidateSetup() error {
	return nil
}

// Compile-time check that MemoryStore implements the ContentStore interface.
var _ paywall.ContentStore = (*MemoryStore)(nil)
