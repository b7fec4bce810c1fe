package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/ec-orders/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "ecshop.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ss := NewSQLiteStore(db)
	require.NoError(t, ss.EnsureSchema(context.Background()))
	return ss
}

func TestSQLStore_EmptyDatabase(t *testing.T) {
	ss := newSQLiteStore(t)

	snapshot, err := ss.Load(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, snapshot.Products)
	assert.NotNil(t, snapshot.Orders)
	assert.Empty(t, snapshot.Products)
	assert.Empty(t, snapshot.Orders)
}

func TestSQLStore_SaveThenLoad(t *testing.T) {
	ss := newSQLiteStore(t)
	ctx := context.Background()

	snapshot := SampleSnapshot()
	snapshot.Orders = []*model.Order{
		{ID: 2, ProductID: 5, Quantity: 3, TotalAmount: decimal.RequireFromString("119.85"), Status: model.StatusPlaced, CreatedAt: "2026-10-14"},
		{ID: 1, ProductID: 1, Quantity: 1, TotalAmount: decimal.RequireFromString("999.99"), Status: model.StatusDelivered, CreatedAt: "2026-10-13"},
	}
	require.NoError(t, ss.Save(ctx, snapshot))

	loaded, err := ss.Load(ctx)
	require.NoError(t, err)

	require.Len(t, loaded.Products, 5)
	for i, p := range snapshot.Products {
		assert.Equal(t, p.ID, loaded.Products[i].ID)
		assert.Equal(t, p.Name, loaded.Products[i].Name)
		assert.True(t, p.Price.Equal(loaded.Products[i].Price), p.Name)
		assert.Equal(t, p.Stock, loaded.Products[i].Stock)
	}

	// stored order, not id order
	require.Len(t, loaded.Orders, 2)
	assert.Equal(t, 2, loaded.Orders[0].ID)
	assert.Equal(t, 1, loaded.Orders[1].ID)
	assert.True(t, decimal.RequireFromString("119.85").Equal(loaded.Orders[0].TotalAmount))
	assert.Equal(t, model.StatusDelivered, loaded.Orders[1].Status)
	assert.Equal(t, "2026-10-13", loaded.Orders[1].CreatedAt)
}

func TestSQLStore_SaveReplacesEverything(t *testing.T) {
	ss := newSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, ss.Save(ctx, SampleSnapshot()))

	require.NoError(t, ss.Save(ctx, &model.Snapshot{
		Products: []*model.Product{{ID: 7, Name: "Desk", Price: decimal.NewFromInt(300), Stock: 1}},
		Orders:   []*model.Order{},
	}))

	loaded, err := ss.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Products, 1)
	assert.Equal(t, "Desk", loaded.Products[0].Name)
}

func TestSQLStore_FailedSaveRollsBack(t *testing.T) {
	ss := newSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, ss.Save(ctx, SampleSnapshot()))

	// duplicate primary key aborts the transaction
	bad := SampleSnapshot()
	bad.Products = append(bad.Products, &model.Product{ID: 1, Name: "Dup", Price: decimal.NewFromInt(1), Stock: 1})
	err := ss.Save(ctx, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert product 1")

	loaded, err := ss.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Products, 5)
}

func TestDialect_Placeholders(t *testing.T) {
	assert.Equal(t, "$1, $2, $3", postgresDialect.values(3))
	assert.Equal(t, "?, ?", sqliteDialect.values(2))
}
