package command

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/example/ec-orders/internal/domain/order"
	"github.com/example/ec-orders/internal/domain/product"
	"github.com/example/ec-orders/internal/logging"
	"github.com/example/ec-orders/internal/metrics"
	"github.com/example/ec-orders/internal/model"
	"go.uber.org/zap"
)

// Publisher delivers lifecycle events. kafka.Producer implements it.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type Handler struct {
	orderSvc  *order.Service
	publisher Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewHandler wires the order service to an optional publisher (nil disables events).
func NewHandler(orderSvc *order.Service, publisher Publisher, m *metrics.Metrics) *Handler {
	if m == nil {
		m = metrics.NewNop()
	}
	return &Handler{
		orderSvc:  orderSvc,
		publisher: publisher,
		metrics:   m,
		now:       time.Now,
	}
}

// CreateOrder places an order and publishes OrderPlaced
func (h *Handler) CreateOrder(ctx context.Context, cmd CreateOrder) (*model.Order, error) {
	if cmd.ProductID == nil || cmd.Quantity == nil {
		h.record("create", order.ErrInvalidOrderInput)
		return nil, order.ErrInvalidOrderInput
	}

	o, err := h.orderSvc.Place(ctx, *cmd.ProductID, *cmd.Quantity)
	h.record("create", err)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("order placed",
		zap.Int("order_id", o.ID),
		zap.Int("product_id", o.ProductID),
		zap.Int("quantity", o.Quantity),
		zap.String("total_amount", o.TotalAmount.String()),
	)
	h.publish(ctx, o.ID, func(at time.Time) (order.Event, error) { return order.PlacedEvent(o, at) })
	return o, nil
}

// CancelOrder cancels a same-day order and publishes OrderCancelled
func (h *Handler) CancelOrder(ctx context.Context, cmd CancelOrder) (*model.Order, error) {
	o, err := h.orderSvc.Cancel(ctx, cmd.OrderID)
	h.record("cancel", err)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("order cancelled",
		zap.Int("order_id", o.ID),
		zap.Int("restocked", o.Quantity),
	)
	h.publish(ctx, o.ID, func(at time.Time) (order.Event, error) { return order.CancelledEvent(o, at) })
	return o, nil
}

// ChangeOrderStatus advances an order and publishes OrderStatusChanged
func (h *Handler) ChangeOrderStatus(ctx context.Context, cmd ChangeOrderStatus) (*model.Order, error) {
	o, from, err := h.orderSvc.ChangeStatus(ctx, cmd.OrderID, model.Status(cmd.Status))
	h.record("change_status", err)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("order status changed",
		zap.Int("order_id", o.ID),
		zap.String("from", string(from)),
		zap.String("to", string(o.Status)),
	)
	h.publish(ctx, o.ID, func(at time.Time) (order.Event, error) { return order.StatusChangedEvent(o, from, at) })
	return o, nil
}

// ListOrders returns every order in append order
func (h *Handler) ListOrders(ctx context.Context) ([]*model.Order, error) {
	return h.orderSvc.List(ctx)
}

// publish is best effort: the snapshot is already saved, so failures are only logged and counted.
func (h *Handler) publish(ctx context.Context, orderID int, build func(time.Time) (order.Event, error)) {
	if h.publisher == nil {
		return
	}
	logger := logging.FromContext(ctx)

	event, err := build(h.now())
	if err != nil {
		h.metrics.PublishFailures.Inc()
		logger.Error("encode event failed", zap.Int("order_id", orderID), zap.Error(err))
		return
	}
	if err := h.publisher.Publish(ctx, strconv.Itoa(orderID), event); err != nil {
		h.metrics.PublishFailures.Inc()
		logger.Error("publish event failed",
			zap.String("event_type", event.Type),
			zap.Int("order_id", orderID),
			zap.Error(err),
		)
	}
}

func (h *Handler) record(operation string, err error) {
	h.metrics.Orders.WithLabelValues(operation, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case IsRejection(err):
		return "rejected"
	default:
		return "error"
	}
}

var rejections = []error{
	order.ErrInvalidOrderInput,
	order.ErrStatusRequired,
	order.ErrInvalidStatus,
	order.ErrOrderNotFound,
	order.ErrOutOfStock,
	order.ErrInsufficientStock,
	order.ErrAlreadyCancelled,
	order.ErrCancellationWindowExpired,
	order.ErrTerminalState,
	order.ErrInvalidTransition,
	product.ErrProductNotFound,
}

// IsRejection reports whether err is a validation, lookup or business-rule failure
// rather than an infrastructure fault.
func IsRejection(err error) bool {
	for _, target := range rejections {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
