package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/ec-orders/internal/domain/product"
	"github.com/example/ec-orders/internal/infrastructure/store"
	"github.com/example/ec-orders/internal/model"
	"github.com/shopspring/decimal"
)

// ErrProductIDRequired is returned by callers when the request names no product at all.
// Ids that name no product, zero and negatives included, are ErrProductNotFound.
var ErrProductIDRequired = errors.New("product id is required")

// Handler serves read-only views over a fresh snapshot per call. It never saves.
type Handler struct {
	store store.SnapshotStore
}

func NewHandler(s store.SnapshotStore) *Handler {
	return &Handler{store: s}
}

// OrderList is a set of orders with its size
type OrderList struct {
	Count  int
	Orders []*model.Order
}

// ProductRevenue is the revenue of one product at its current price
type ProductRevenue struct {
	ProductID    int
	ProductName  string
	ProductPrice decimal.Decimal
	TotalRevenue decimal.Decimal
}

func (h *Handler) load(ctx context.Context) (*model.Snapshot, error) {
	snapshot, err := h.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return snapshot, nil
}

// Products

func (h *Handler) ListProducts(ctx context.Context) ([]*model.Product, error) {
	snapshot, err := h.load(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Products, nil
}

func (h *Handler) GetProduct(ctx context.Context, id int) (*model.Product, error) {
	snapshot, err := h.load(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := product.NewCatalog(snapshot).Find(id)
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return p, nil
}

// Analytics

// AllOrders returns every order and the total count
func (h *Handler) AllOrders(ctx context.Context) (*OrderList, error) {
	snapshot, err := h.load(ctx)
	if err != nil {
		return nil, err
	}
	return &OrderList{Count: len(snapshot.Orders), Orders: snapshot.Orders}, nil
}

// OrdersByStatus returns the orders currently in status
func (h *Handler) OrdersByStatus(ctx context.Context, status model.Status) (*OrderList, error) {
	snapshot, err := h.load(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]*model.Order, 0)
	for _, o := range snapshot.Orders {
		if o.Status == status {
			matched = append(matched, o)
		}
	}
	return &OrderList{Count: len(matched), Orders: matched}, nil
}

// RevenueForProduct sums quantity x current price over the product's non-cancelled orders.
// Frozen order totals are not used here; OverallRevenue sums those.
func (h *Handler) RevenueForProduct(ctx context.Context, productID int) (*ProductRevenue, error) {
	snapshot, err := h.load(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := product.NewCatalog(snapshot).Find(productID)
	if !ok {
		return nil, product.ErrProductNotFound
	}

	total := decimal.Zero
	for _, o := range snapshot.Orders {
		if o.ProductID != productID || o.Status == model.StatusCancelled {
			continue
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(o.Quantity))))
	}

	return &ProductRevenue{
		ProductID:    p.ID,
		ProductName:  p.Name,
		ProductPrice: p.Price,
		TotalRevenue: total,
	}, nil
}

// OverallRevenue sums the frozen totalAmount of every non-cancelled order
func (h *Handler) OverallRevenue(ctx context.Context) (decimal.Decimal, error) {
	snapshot, err := h.load(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, o := range snapshot.Orders {
		if o.Status != model.StatusCancelled {
			total = total.Add(o.TotalAmount)
		}
	}
	return total, nil
}
