package command

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/ec-orders/internal/domain/order"
	"github.com/example/ec-orders/internal/domain/product"
	"github.com/example/ec-orders/internal/infrastructure/store/mocks"
	"github.com/example/ec-orders/internal/metrics"
	"github.com/example/ec-orders/internal/model"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishCall struct {
	Key   string
	Event order.Event
}

type mockPublisher struct {
	mu    sync.Mutex
	calls []publishCall
	err   error
}

func (p *mockPublisher) Publish(ctx context.Context, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, publishCall{Key: key, Event: event.(order.Event)})
	return p.err
}

func intPtr(v int) *int { return &v }

func newTestHandler() (*Handler, *mocks.MockSnapshotStore, *mockPublisher, *metrics.Metrics) {
	st := mocks.NewMockSnapshotStore(&model.Snapshot{
		Products: []*model.Product{
			{ID: 1, Name: "Keyboard", Price: decimal.NewFromInt(10), Stock: 5},
		},
	})
	now := func() time.Time { return time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC) }
	svc := order.NewService(st, now)
	pub := &mockPublisher{}
	m := metrics.NewNop()
	return NewHandler(svc, pub, m), st, pub, m
}

// ============================================
// Create Order Tests
// ============================================

func TestHandler_CreateOrder_Success(t *testing.T) {
	handler, _, pub, m := newTestHandler()

	o, err := handler.CreateOrder(context.Background(), CreateOrder{ProductID: intPtr(1), Quantity: intPtr(3)})

	require.NoError(t, err)
	assert.Equal(t, 1, o.ID)

	require.Len(t, pub.calls, 1)
	assert.Equal(t, "1", pub.calls[0].Key)
	assert.Equal(t, order.EventOrderPlaced, pub.calls[0].Event.Type)
	assert.Equal(t, 1, pub.calls[0].Event.OrderID)
	assert.NotEmpty(t, pub.calls[0].Event.ID)

	var payload order.OrderPlaced
	require.NoError(t, json.Unmarshal(pub.calls[0].Event.Data, &payload))
	assert.Equal(t, 3, payload.Quantity)
	assert.True(t, decimal.NewFromInt(30).Equal(payload.TotalAmount))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Orders.WithLabelValues("create", "success")))
}

func TestHandler_CreateOrder_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		cmd  CreateOrder
	}{
		{"missing product", CreateOrder{Quantity: intPtr(1)}},
		{"missing quantity", CreateOrder{ProductID: intPtr(1)}},
		{"empty", CreateOrder{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, st, pub, m := newTestHandler()

			o, err := handler.CreateOrder(context.Background(), tt.cmd)

			assert.ErrorIs(t, err, order.ErrInvalidOrderInput)
			assert.Nil(t, o)
			assert.Zero(t, st.LoadCalls)
			assert.Empty(t, pub.calls)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.Orders.WithLabelValues("create", "rejected")))
		})
	}
}

func TestHandler_CreateOrder_InsufficientStock_NoEvent(t *testing.T) {
	handler, _, pub, _ := newTestHandler()

	_, err := handler.CreateOrder(context.Background(), CreateOrder{ProductID: intPtr(1), Quantity: intPtr(10)})

	assert.ErrorIs(t, err, order.ErrInsufficientStock)
	assert.Empty(t, pub.calls)
}

func TestHandler_CreateOrder_PublishFailureIsNotFatal(t *testing.T) {
	handler, st, pub, m := newTestHandler()
	pub.err = errors.New("broker unavailable")

	o, err := handler.CreateOrder(context.Background(), CreateOrder{ProductID: intPtr(1), Quantity: intPtr(1)})

	require.NoError(t, err)
	assert.NotNil(t, o)
	assert.Len(t, st.Snapshot().Orders, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PublishFailures))
}

func TestHandler_CreateOrder_StoreFailure(t *testing.T) {
	handler, st, pub, m := newTestHandler()
	st.SaveErr = errors.New("disk full")

	_, err := handler.CreateOrder(context.Background(), CreateOrder{ProductID: intPtr(1), Quantity: intPtr(1)})

	assert.ErrorContains(t, err, "disk full")
	assert.False(t, IsRejection(err))
	assert.Empty(t, pub.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Orders.WithLabelValues("create", "error")))
}

func TestHandler_NilPublisher(t *testing.T) {
	st := mocks.NewMockSnapshotStore(&model.Snapshot{
		Products: []*model.Product{{ID: 1, Name: "Keyboard", Price: decimal.NewFromInt(10), Stock: 5}},
	})
	handler := NewHandler(order.NewService(st, nil), nil, nil)

	_, err := handler.CreateOrder(context.Background(), CreateOrder{ProductID: intPtr(1), Quantity: intPtr(1)})

	assert.NoError(t, err)
}

// ============================================
// Cancel / Change Status Tests
// ============================================

func TestHandler_CancelOrder_PublishesEvent(t *testing.T) {
	handler, _, pub, _ := newTestHandler()
	ctx := context.Background()

	o, err := handler.CreateOrder(ctx, CreateOrder{ProductID: intPtr(1), Quantity: intPtr(2)})
	require.NoError(t, err)

	cancelled, err := handler.CancelOrder(ctx, CancelOrder{OrderID: o.ID})

	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	require.Len(t, pub.calls, 2)
	assert.Equal(t, order.EventOrderCancelled, pub.calls[1].Event.Type)
}

func TestHandler_CancelOrder_NotFound(t *testing.T) {
	handler, _, pub, m := newTestHandler()

	_, err := handler.CancelOrder(context.Background(), CancelOrder{OrderID: 9})

	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	assert.Empty(t, pub.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Orders.WithLabelValues("cancel", "rejected")))
}

func TestHandler_ChangeOrderStatus_PublishesTransition(t *testing.T) {
	handler, _, pub, _ := newTestHandler()
	ctx := context.Background()

	o, err := handler.CreateOrder(ctx, CreateOrder{ProductID: intPtr(1), Quantity: intPtr(1)})
	require.NoError(t, err)

	updated, err := handler.ChangeOrderStatus(ctx, ChangeOrderStatus{OrderID: o.ID, Status: "shipped"})

	require.NoError(t, err)
	assert.Equal(t, model.StatusShipped, updated.Status)
	require.Len(t, pub.calls, 2)

	var payload order.OrderStatusChanged
	require.NoError(t, json.Unmarshal(pub.calls[1].Event.Data, &payload))
	assert.Equal(t, model.StatusPlaced, payload.From)
	assert.Equal(t, model.StatusShipped, payload.To)
}

func TestHandler_ChangeOrderStatus_Invalid(t *testing.T) {
	handler, _, _, _ := newTestHandler()

	_, err := handler.ChangeOrderStatus(context.Background(), ChangeOrderStatus{OrderID: 1, Status: "teleported"})

	assert.ErrorIs(t, err, order.ErrInvalidStatus)
}

func TestHandler_ListOrders(t *testing.T) {
	handler, _, _, _ := newTestHandler()
	ctx := context.Background()

	_, err := handler.CreateOrder(ctx, CreateOrder{ProductID: intPtr(1), Quantity: intPtr(1)})
	require.NoError(t, err)
	_, err = handler.CreateOrder(ctx, CreateOrder{ProductID: intPtr(1), Quantity: intPtr(1)})
	require.NoError(t, err)

	orders, err := handler.ListOrders(ctx)

	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestIsRejection(t *testing.T) {
	assert.True(t, IsRejection(product.ErrProductNotFound))
	assert.True(t, IsRejection(&order.InsufficientStockError{Available: 1, Requested: 2}))
	assert.True(t, IsRejection(&order.TransitionError{From: model.StatusPlaced, To: model.StatusDelivered}))
	assert.False(t, IsRejection(errors.New("boom")))
}
