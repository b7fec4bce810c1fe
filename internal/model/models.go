package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices and totals go over the wire as JSON numbers, as db.json stores them.
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the calendar-date format used for Order.CreatedAt.
const DateLayout = "2006-01-02"

// DateOf returns the UTC calendar date of t in DateLayout.
func DateOf(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

type Status string

const (
	StatusPlaced    Status = "placed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every order status in lifecycle order.
var Statuses = []Status{StatusPlaced, StatusShipped, StatusDelivered, StatusCancelled}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Product is a catalog entry. Only Stock changes after creation.
type Product struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// Order is a single-product purchase. TotalAmount is frozen at creation.
type Order struct {
	ID          int             `json:"id"`
	ProductID   int             `json:"productId"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      Status          `json:"status"`
	CreatedAt   string          `json:"createdAt"` // DateLayout
}

// Snapshot is the whole datastore document.
type Snapshot struct {
	Products []*Product `json:"products"`
	Orders   []*Order   `json:"orders"`
}

// Clone returns a deep copy so callers can mutate without touching the source.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return &Snapshot{Products: []*Product{}, Orders: []*Order{}}
	}
	out := &Snapshot{
		Products: make([]*Product, 0, len(s.Products)),
		Orders:   make([]*Order, 0, len(s.Orders)),
	}
	for _, p := range s.Products {
		cp := *p
		out.Products = append(out.Products, &cp)
	}
	for _, o := range s.Orders {
		cp := *o
		out.Orders = append(out.Orders, &cp)
	}
	return out
}
