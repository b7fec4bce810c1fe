package order

import (
	"errors"
	"fmt"

	"github.com/example/ec-orders/internal/model"
)

var (
	ErrInvalidOrderInput         = errors.New("invalid productId or quantity")
	ErrStatusRequired            = errors.New("order id and status are required")
	ErrInvalidStatus             = errors.New("invalid order status")
	ErrOrderNotFound             = errors.New("order not found")
	ErrOutOfStock                = errors.New("product out of stock")
	ErrInsufficientStock         = errors.New("insufficient stock")
	ErrAlreadyCancelled          = errors.New("order is already cancelled")
	ErrCancellationWindowExpired = errors.New("order can only be cancelled on the day it was created")
	ErrTerminalState             = errors.New("order status can no longer change")
	ErrInvalidTransition         = errors.New("invalid order status transition")
)

// InsufficientStockError reports a quantity larger than the remaining stock.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%v: available %d, requested %d", ErrInsufficientStock, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// TerminalStateError reports a status change requested on a delivered or cancelled order.
type TerminalStateError struct {
	Status model.Status
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("%v: order is %s", ErrTerminalState, e.Status)
}

func (e *TerminalStateError) Is(target error) bool { return target == ErrTerminalState }

// NotCancellableError reports a cancellation requested on an order that reached a
// terminal status other than cancelled. It also matches ErrTerminalState.
type NotCancellableError struct {
	Status model.Status
}

func (e *NotCancellableError) Error() string {
	return fmt.Sprintf("%v: %s orders cannot be cancelled", ErrTerminalState, e.Status)
}

func (e *NotCancellableError) Is(target error) bool { return target == ErrTerminalState }

// TransitionError reports a target status outside the allowed next set.
type TransitionError struct {
	From    model.Status
	To      model.Status
	Allowed []model.Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: cannot transition from %s to %s", ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }
