package store

import (
	"context"

	"github.com/example/ec-orders/internal/model"
)

// SnapshotStore is the persistence gateway: whole-document load and replace.
type SnapshotStore interface {
	// Load returns the full snapshot. Callers own the returned value.
	Load(ctx context.Context) (*model.Snapshot, error)

	// Save replaces the stored snapshot wholesale.
	Save(ctx context.Context, snapshot *model.Snapshot) error
}
