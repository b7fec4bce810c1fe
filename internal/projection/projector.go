package projection

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/example/ec-orders/internal/domain/order"
	"github.com/example/ec-orders/internal/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderView is the consumer-side picture of one order, rebuilt from events.
type OrderView struct {
	OrderID     int
	ProductID   int
	Quantity    int
	TotalAmount decimal.Decimal
	Status      model.Status
}

// Projector folds order lifecycle events into per-order views and logs each one.
type Projector struct {
	mu     sync.RWMutex
	orders map[int]*OrderView
	seen   map[string]int
	logger *zap.Logger
}

func NewProjector(logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{
		orders: make(map[int]*OrderView),
		seen:   make(map[string]int),
		logger: logger,
	}
}

// HandleEvent matches kafka.MessageHandler.
func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event order.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var v *OrderView
	switch event.Type {
	case order.EventOrderPlaced:
		var e order.OrderPlaced
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("decode %s: %w", event.Type, err)
		}
		v = &OrderView{
			OrderID:     e.OrderID,
			ProductID:   e.ProductID,
			Quantity:    e.Quantity,
			TotalAmount: e.TotalAmount,
			Status:      model.StatusPlaced,
		}
		p.orders[e.OrderID] = v

	case order.EventOrderCancelled:
		var e order.OrderCancelled
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("decode %s: %w", event.Type, err)
		}
		v = p.view(e.OrderID, e.ProductID, e.Quantity)
		v.Status = model.StatusCancelled

	case order.EventOrderStatusChanged:
		var e order.OrderStatusChanged
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("decode %s: %w", event.Type, err)
		}
		v = p.view(e.OrderID, 0, 0)
		v.Status = e.To

	default:
		p.logger.Warn("unknown event type", zap.String("event_type", event.Type), zap.String("event_id", event.ID))
		return nil
	}

	p.seen[event.Type]++
	p.logger.Info("order event",
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
		zap.Int("order_id", v.OrderID),
		zap.Time("occurred_at", event.OccurredAt),
		zap.String("status", string(v.Status)),
		zap.ByteString("key", key),
	)
	return nil
}

// view returns the order's view, creating a partial one when the placement event was missed
func (p *Projector) view(orderID, productID, quantity int) *OrderView {
	v, ok := p.orders[orderID]
	if !ok {
		v = &OrderView{OrderID: orderID, ProductID: productID, Quantity: quantity}
		p.orders[orderID] = v
	}
	return v
}

// Order returns a copy of the view for orderID
func (p *Projector) Order(orderID int) (OrderView, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.orders[orderID]
	if !ok {
		return OrderView{}, false
	}
	return *v, true
}

// Orders returns every view ordered by id
func (p *Projector) Orders() []OrderView {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]OrderView, 0, len(p.orders))
	for _, v := range p.orders {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out
}

// Seen returns how many events of eventType were applied
func (p *Projector) Seen(eventType string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.seen[eventType]
}
