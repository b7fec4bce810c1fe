package store

import (
	"github.com/example/ec-orders/internal/model"
	"github.com/shopspring/decimal"
)

// SampleSnapshot is the catalog shipped in data/db.json, with no orders.
func SampleSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Products: []*model.Product{
			{ID: 1, Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: 10},
			{ID: 2, Name: "Wireless Mouse", Price: decimal.RequireFromString("25.5"), Stock: 50},
			{ID: 3, Name: "Mechanical Keyboard", Price: decimal.RequireFromString("79.99"), Stock: 25},
			{ID: 4, Name: "27-inch Monitor", Price: decimal.NewFromInt(249), Stock: 0},
			{ID: 5, Name: "USB-C Hub", Price: decimal.RequireFromString("39.95"), Stock: 100},
		},
		Orders: []*model.Order{},
	}
}
