package cart

import (
	"context"
	"sync"

	"github.com/noventicred/constrular/internal/domain"
)

// MemorySnapshots implements SnapshotStore in process memory. It backs
// deployments without Redis and most of the tests.
type MemorySnapshots struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

func NewMemorySnapshots() *MemorySnapshots {
	return &MemorySnapshots{snapshots: make(map[string][]byte)}
}

func (m *MemorySnapshots) Load(_ context.Context, sessionID string) ([]domain.LineItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.snapshots[sessionID]
	if !ok {
		return nil, ErrNoSnapshot
	}
	return decodeSnapshot(data)
}

func (m *MemorySnapshots) Save(_ context.Context, sessionID string, items []domain.LineItem) error {
	data, err := encodeSnapshot(items)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[sessionID] = data
	return nil
}

func (m *MemorySnapshots) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, sessionID)
	return nil
}
