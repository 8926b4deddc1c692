package draft

import (
	"context"
	"sync"
)

// Backend stores raw draft payloads by key. Get returns ErrNoDraft when the
// key has never been written.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
}

// MemoryBackend keeps payloads in process memory.
type MemoryBackend struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: make(map[string][]byte)}
}

func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	payload, ok := m.items[key]
	if !ok {
		return nil, ErrNoDraft
	}
	return append([]byte(nil), payload...), nil
}

func (m *MemoryBackend) Put(ctx context.Context, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = make(map[string][]byte)
	}
	m.items[key] = append([]byte(nil), payload...)
	return nil
}
