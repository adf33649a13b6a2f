package storage

import (
	"context"
	"sync"

	"gamebank/internal/core"
)

// MemoryStore keeps the serialized blob in process memory. It is the default
// backend and the one used by tests. The blob is held in encoded form so that
// the load path exercises the same decode-and-recover logic as the durable
// backends.
type MemoryStore struct {
	mu  sync.Mutex
	raw []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (core.StoreData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return decodeStore(ctx, m.raw), nil
}

func (m *MemoryStore) Save(_ context.Context, data core.StoreData) error {
	raw, err := encodeStore(data)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.raw = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Reset drops the blob entirely, as if nothing had ever been persisted.
func (m *MemoryStore) Reset(_ context.Context) error {
	m.mu.Lock()
	m.raw = nil
	m.mu.Unlock()
	return nil
}

// Corrupt overwrites the blob with arbitrary bytes. Test hook for the
// lossy-recovery path.
func (m *MemoryStore) Corrupt(raw []byte) {
	m.mu.Lock()
	m.raw = append([]byte(nil), raw...)
	m.mu.Unlock()
}
