package repository

import (
	"context"
	"sync"

	"github.com/curtaincall/curtaincall-server-go/internal/game"
)

// MemoryStore keeps snapshots in a map. Stored values are copies.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string][]byte)}
}

var _ SnapshotStore = (*MemoryStore)(nil)

// Save implements SnapshotStore.
func (m *MemoryStore) Save(_ context.Context, sessionID string, snap *game.Snapshot) error {
	data, err := snap.MarshalBinary()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[sessionID] = data
	return nil
}

// Load implements SnapshotStore.
func (m *MemoryStore) Load(_ context.Context, sessionID string) (*game.Snapshot, error) {
	m.mu.RLock()
	data, ok := m.snapshots[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	var snap game.Snapshot
	if err := snap.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Delete implements SnapshotStore.
func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, sessionID)
	return nil
}

// Len returns the number of stored snapshots.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.snapshots)
}

// Close implements SnapshotStore.
func (m *MemoryStore) Close() error { return nil }
