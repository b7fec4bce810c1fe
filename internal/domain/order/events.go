package order

import (
	"encoding/json"
	"time"

	"github.com/example/ec-orders/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderCancelled     = "OrderCancelled"
	EventOrderStatusChanged = "OrderStatusChanged"
)

// Event is the envelope published for every persisted lifecycle change
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OrderID    int             `json:"orderId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

type OrderPlaced struct {
	OrderID     int             `json:"orderId"`
	ProductID   int             `json:"productId"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   string          `json:"createdAt"`
}

type OrderCancelled struct {
	OrderID   int `json:"orderId"`
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type OrderStatusChanged struct {
	OrderID int          `json:"orderId"`
	From    model.Status `json:"from"`
	To      model.Status `json:"to"`
}

// NewEvent wraps payload in an envelope with a fresh id
func NewEvent(eventType string, orderID int, payload any, at time.Time) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		OrderID:    orderID,
		OccurredAt: at,
		Data:       data,
	}, nil
}

func PlacedEvent(o *model.Order, at time.Time) (Event, error) {
	return NewEvent(EventOrderPlaced, o.ID, OrderPlaced{
		OrderID:     o.ID,
		ProductID:   o.ProductID,
		Quantity:    o.Quantity,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
	}, at)
}

func CancelledEvent(o *model.Order, at time.Time) (Event, error) {
	return NewEvent(EventOrderCancelled, o.ID, OrderCancelled{
		OrderID:   o.ID,
		ProductID: o.ProductID,
		Quantity:  o.Quantity,
	}, at)
}

func StatusChangedEvent(o *model.Order, from model.Status, at time.Time) (Event, error) {
	return NewEvent(EventOrderStatusChanged, o.ID, OrderStatusChanged{
		OrderID: o.ID,
		From:    from,
		To:      o.Status,
	}, at)
}
