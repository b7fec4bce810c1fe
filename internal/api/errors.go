package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/example/ec-orders/internal/domain/order"
	"github.com/example/ec-orders/internal/domain/product"
	"github.com/example/ec-orders/internal/logging"
	"github.com/example/ec-orders/internal/model"
	"github.com/example/ec-orders/internal/query"
	"go.uber.org/zap"
)

var errRouteNotFound = errors.New("route not found")

// errorResponses maps sentinel errors to a status code and client message.
// Anything not listed is an internal failure.
var errorResponses = []struct {
	target  error
	status  int
	message string
}{
	{order.ErrInvalidOrderInput, http.StatusBadRequest, "Invalid productId or quantity"},
	{order.ErrStatusRequired, http.StatusBadRequest, "Order ID and status are required"},
	{order.ErrInvalidStatus, http.StatusBadRequest, "Invalid status. Valid statuses are: " + joinStatuses(model.Statuses)},
	{query.ErrProductIDRequired, http.StatusBadRequest, "Product ID is required"},
	{order.ErrOrderNotFound, http.StatusNotFound, "Order not found"},
	{product.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{errRouteNotFound, http.StatusNotFound, "Route not found"},
	{order.ErrOutOfStock, http.StatusBadRequest, "Product out of stock"},
	{order.ErrAlreadyCancelled, http.StatusBadRequest, "Order is already cancelled"},
	{order.ErrCancellationWindowExpired, http.StatusBadRequest, "Order can only be cancelled on the day it was created"},
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// respondError writes {success:false, message} with the status err maps to
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)
	resp := errorResponse{Message: message}

	if status == http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("request failed", zap.Error(err))
		resp.Error = err.Error()
	}
	respondJSON(w, status, resp)
}

func classify(err error) (int, string) {
	var (
		stockErr      *order.InsufficientStockError
		terminalErr   *order.TerminalStateError
		cancelErr     *order.NotCancellableError
		transitionErr *order.TransitionError
	)
	switch {
	case errors.As(err, &stockErr):
		return http.StatusBadRequest, fmt.Sprintf("Insufficient stock. Available: %d, Requested: %d", stockErr.Available, stockErr.Requested)
	case errors.As(err, &cancelErr):
		return http.StatusBadRequest, fmt.Sprintf("Cannot cancel %s order", cancelErr.Status)
	case errors.As(err, &terminalErr):
		return http.StatusBadRequest, fmt.Sprintf("Cannot change status of %s order", terminalErr.Status)
	case errors.As(err, &transitionErr):
		return http.StatusBadRequest, fmt.Sprintf("Cannot change status from %s to %s. Valid next status: %s",
			transitionErr.From, transitionErr.To, joinStatuses(transitionErr.Allowed))
	}

	for _, candidate := range errorResponses {
		if errors.Is(err, candidate.target) {
			return candidate.status, candidate.message
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

func joinStatuses(statuses []model.Status) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
