package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/example/ec-orders/internal/command"
	"github.com/example/ec-orders/internal/domain/order"
	"github.com/example/ec-orders/internal/domain/product"
	"github.com/example/ec-orders/internal/model"
	"github.com/example/ec-orders/internal/query"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
	}
}

type orderResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Order   *model.Order `json:"order"`
}

// Root

func (h *Handlers) Welcome(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to E-commerce Orders & Analytics API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"products":  "/products",
			"orders":    "/orders",
			"analytics": "/analytics",
		},
	})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "status": "ok"})
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, errRouteNotFound)
}

// Product Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.queryHandler.ListProducts(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success       bool             `json:"success"`
		TotalProducts int              `json:"totalProducts"`
		Products      []*model.Product `json:"products"`
	}{true, len(products), products})
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "productId")
	if !ok {
		respondError(w, r, product.ErrProductNotFound)
		return
	}
	p, err := h.queryHandler.GetProduct(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success bool           `json:"success"`
		Product *model.Product `json:"product"`
	}{true, p})
}

// Order Handlers

func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateOrder
	if err := decodeBody(r, &cmd); err != nil {
		respondError(w, r, order.ErrInvalidOrderInput)
		return
	}

	o, err := h.cmdHandler.CreateOrder(r.Context(), cmd)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, orderResponse{true, "Order created successfully", o})
}

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.cmdHandler.ListOrders(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success     bool           `json:"success"`
		TotalOrders int            `json:"totalOrders"`
		Orders      []*model.Order `json:"orders"`
	}{true, len(orders), orders})
}

func (h *Handlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "orderId")
	if !ok {
		respondError(w, r, order.ErrOrderNotFound)
		return
	}

	o, err := h.cmdHandler.CancelOrder(r.Context(), command.CancelOrder{OrderID: id})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orderResponse{true, "Order cancelled successfully", o})
}

func (h *Handlers) ChangeOrderStatus(w http.ResponseWriter, r *http.Request) {
	var cmd command.ChangeOrderStatus
	if err := decodeBody(r, &cmd); err != nil {
		respondError(w, r, order.ErrStatusRequired)
		return
	}
	if cmd.Status == "" {
		respondError(w, r, order.ErrStatusRequired)
		return
	}
	id, ok := pathID(r, "orderId")
	if !ok {
		if model.Status(cmd.Status).Valid() {
			respondError(w, r, order.ErrOrderNotFound)
		} else {
			respondError(w, r, order.ErrInvalidStatus)
		}
		return
	}
	cmd.OrderID = id

	o, err := h.cmdHandler.ChangeOrderStatus(r.Context(), cmd)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orderResponse{true, "Order status updated successfully", o})
}

// Analytics Handlers

func (h *Handlers) AllOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.queryHandler.AllOrders(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success    bool           `json:"success"`
		TotalCount int            `json:"totalCount"`
		Orders     []*model.Order `json:"orders"`
	}{true, list.Count, list.Orders})
}

func (h *Handlers) CancelledOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.queryHandler.OrdersByStatus(r.Context(), model.StatusCancelled)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success             bool           `json:"success"`
		TotalCancelledCount int            `json:"totalCancelledCount"`
		CancelledOrders     []*model.Order `json:"cancelledOrders"`
	}{true, list.Count, list.Orders})
}

func (h *Handlers) ShippedOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.queryHandler.OrdersByStatus(r.Context(), model.StatusShipped)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success           bool           `json:"success"`
		TotalShippedCount int            `json:"totalShippedCount"`
		ShippedOrders     []*model.Order `json:"shippedOrders"`
	}{true, list.Count, list.Orders})
}

func (h *Handlers) ProductRevenue(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "productId")
	if raw == "" {
		respondError(w, r, query.ErrProductIDRequired)
		return
	}
	id, ok := pathID(r, "productId")
	if !ok {
		respondError(w, r, product.ErrProductNotFound)
		return
	}

	revenue, err := h.queryHandler.RevenueForProduct(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success      bool            `json:"success"`
		ProductID    int             `json:"productId"`
		ProductName  string          `json:"productName"`
		ProductPrice decimal.Decimal `json:"productPrice"`
		TotalRevenue decimal.Decimal `json:"totalRevenue"`
	}{true, revenue.ProductID, revenue.ProductName, revenue.ProductPrice, revenue.TotalRevenue})
}

func (h *Handlers) OverallRevenue(w http.ResponseWriter, r *http.Request) {
	total, err := h.queryHandler.OverallRevenue(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success      bool            `json:"success"`
		TotalRevenue decimal.Decimal `json:"totalRevenue"`
		Description  string          `json:"description"`
	}{true, total, "Total revenue from all non-cancelled orders"})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeBody decodes a JSON body into dst. An empty body leaves dst untouched.
// decodeBody reads a single JSON value into dst. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// pathID parses a numeric path parameter. Ids that do not parse match nothing.
func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, false
	}
	return id, true
}
