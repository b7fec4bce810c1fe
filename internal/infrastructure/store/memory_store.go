package store

import (
	"context"
	"sync"

	"github.com/example/ec-orders/internal/model"
)

// MemoryStore keeps the snapshot in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	snapshot *model.Snapshot
}

// NewMemoryStore creates a store seeded with a copy of seed (nil means empty).
func NewMemoryStore(seed *model.Snapshot) *MemoryStore {
	return &MemoryStore{snapshot: seed.Clone()}
}

// Load returns a copy of the current snapshot
func (ms *MemoryStore) Load(ctx context.Context) (*model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.snapshot.Clone(), nil
}

// Save replaces the current snapshot with a copy of snapshot
func (ms *MemoryStore) Save(ctx context.Context, snapshot *model.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.snapshot = snapshot.Clone()
	return nil
}
