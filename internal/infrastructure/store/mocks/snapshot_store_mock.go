package mocks

import (
	"context"
	"sync"

	"github.com/example/ec-orders/internal/model"
)

// MockSnapshotStore is a mock implementation of store.SnapshotStore for testing
type MockSnapshotStore struct {
	mu       sync.Mutex
	snapshot *model.Snapshot

	// For tracking calls in tests
	LoadCalls int
	SaveCalls []*model.Snapshot
	LoadErr   error
	SaveErr   error
}

// NewMockSnapshotStore creates a MockSnapshotStore holding a copy of seed
func NewMockSnapshotStore(seed *model.Snapshot) *MockSnapshotStore {
	return &MockSnapshotStore{
		snapshot:  seed.Clone(),
		SaveCalls: make([]*model.Snapshot, 0),
	}
}

// Load returns a copy of the stored snapshot, or LoadErr if set
func (m *MockSnapshotStore) Load(ctx context.Context) (*model.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LoadCalls++
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.snapshot.Clone(), nil
}

// Save records the call and stores a copy of snapshot, or returns SaveErr if set
func (m *MockSnapshotStore) Save(ctx context.Context, snapshot *model.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls = append(m.SaveCalls, snapshot.Clone())
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.snapshot = snapshot.Clone()
	return nil
}

// Snapshot returns a copy of what is currently stored
func (m *MockSnapshotStore) Snapshot() *model.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot.Clone()
}

// SetSnapshot replaces the stored snapshot directly for testing
func (m *MockSnapshotStore) SetSnapshot(snapshot *model.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = snapshot.Clone()
}

// Reset clears recorded calls and injected errors
func (m *MockSnapshotStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls = 0
	m.SaveCalls = make([]*model.Snapshot, 0)
	m.LoadErr = nil
	m.SaveErr = nil
}
