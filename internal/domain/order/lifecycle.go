package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/ec-orders/internal/domain/product"
	"github.com/example/ec-orders/internal/infrastructure/store"
	"github.com/example/ec-orders/internal/model"
	"github.com/shopspring/decimal"
)

// validTransitions defines allowed state transitions for ChangeStatus.
// Cancellation is a separate operation and is not listed here.
var validTransitions = map[model.Status][]model.Status{
	model.StatusPlaced:    {model.StatusShipped},
	model.StatusShipped:   {model.StatusDelivered},
	model.StatusDelivered: {}, // terminal state
	model.StatusCancelled: {}, // terminal state
}

// AllowedNext returns the statuses reachable from s through ChangeStatus
func AllowedNext(s model.Status) []model.Status {
	return validTransitions[s]
}

// CanTransition checks if an order in status from may move to status to
func CanTransition(from, to model.Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status change is possible
func IsTerminal(s model.Status) bool {
	return s == model.StatusDelivered || s == model.StatusCancelled
}

// Clock returns the current time. Tests inject a fixed clock to move across day boundaries.
type Clock func() time.Time

// Service applies one validated transition per call: load the snapshot, mutate it, save it back.
// Calls are serialized so concurrent requests cannot oversell a product.
type Service struct {
	mu    sync.Mutex
	store store.SnapshotStore
	now   Clock
}

func NewService(s store.SnapshotStore, now Clock) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: s, now: now}
}

func (s *Service) today() string {
	return model.DateOf(s.now())
}

func (s *Service) load(ctx context.Context) (*model.Snapshot, error) {
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return snapshot, nil
}

func (s *Service) save(ctx context.Context, snapshot *model.Snapshot) error {
	if err := s.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Place creates an order in status placed and takes quantity out of the product's stock.
// A zero productID means none was given; negative ids are looked up like any other.
func (s *Service) Place(ctx context.Context, productID, quantity int) (*model.Order, error) {
	if productID == 0 || quantity <= 0 {
		return nil, ErrInvalidOrderInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	catalog := product.NewCatalog(snapshot)

	p, ok := catalog.Find(productID)
	if !ok {
		return nil, product.ErrProductNotFound
	}
	if p.Stock == 0 {
		return nil, ErrOutOfStock
	}
	if quantity > p.Stock {
		return nil, &InsufficientStockError{Available: p.Stock, Requested: quantity}
	}

	o := &model.Order{
		ID:          nextID(snapshot.Orders),
		ProductID:   productID,
		Quantity:    quantity,
		TotalAmount: p.Price.Mul(decimal.NewFromInt(int64(quantity))),
		Status:      model.StatusPlaced,
		CreatedAt:   s.today(),
	}

	if err := catalog.AdjustStock(productID, -quantity); err != nil {
		return nil, err
	}
	snapshot.Orders = append(snapshot.Orders, o)

	if err := s.save(ctx, snapshot); err != nil {
		return nil, err
	}
	return o, nil
}

// Cancel marks a placed order as cancelled and returns its quantity to stock.
// Only orders created today can be cancelled. A product that no longer exists is skipped.
func (s *Service) Cancel(ctx context.Context, orderID int) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	o, ok := findOrder(snapshot.Orders, orderID)
	if !ok {
		return nil, ErrOrderNotFound
	}
	if o.Status == model.StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if IsTerminal(o.Status) {
		return nil, &NotCancellableError{Status: o.Status}
	}
	if o.Status != model.StatusPlaced {
		return nil, &TransitionError{From: o.Status, To: model.StatusCancelled, Allowed: AllowedNext(o.Status)}
	}
	if o.CreatedAt != s.today() {
		return nil, ErrCancellationWindowExpired
	}

	catalog := product.NewCatalog(snapshot)
	if _, ok := catalog.Find(o.ProductID); ok {
		if err := catalog.AdjustStock(o.ProductID, o.Quantity); err != nil {
			return nil, err
		}
	}
	o.Status = model.StatusCancelled

	if err := s.save(ctx, snapshot); err != nil {
		return nil, err
	}
	return o, nil
}

// ChangeStatus moves an order one step forward along placed -> shipped -> delivered.
// It returns the updated order and the status it left.
func (s *Service) ChangeStatus(ctx context.Context, orderID int, status model.Status) (*model.Order, model.Status, error) {
	if status == "" {
		return nil, "", ErrStatusRequired
	}
	if !status.Valid() {
		return nil, "", ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.load(ctx)
	if err != nil {
		return nil, "", err
	}

	o, ok := findOrder(snapshot.Orders, orderID)
	if !ok {
		return nil, "", ErrOrderNotFound
	}
	if IsTerminal(o.Status) {
		return nil, "", &TerminalStateError{Status: o.Status}
	}
	if !CanTransition(o.Status, status) {
		return nil, "", &TransitionError{From: o.Status, To: status, Allowed: AllowedNext(o.Status)}
	}

	from := o.Status
	o.Status = status

	if err := s.save(ctx, snapshot); err != nil {
		return nil, "", err
	}
	return o, from, nil
}

// List returns every order in append order
func (s *Service) List(ctx context.Context) ([]*model.Order, error) {
	snapshot, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Orders, nil
}

func findOrder(orders []*model.Order, id int) (*model.Order, bool) {
	for _, o := range orders {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

// nextID is max existing id + 1, or 1 for an empty order set
func nextID(orders []*model.Order) int {
	maxID := 0
	for _, o := range orders {
		if o.ID > maxID {
			maxID = o.ID
		}
	}
	return maxID + 1
}
