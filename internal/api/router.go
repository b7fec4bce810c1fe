package api

import (
	"net/http"

	"github.com/example/ec-orders/internal/api/middleware"
	"github.com/example/ec-orders/internal/metrics"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Handlers *Handlers
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	h := cfg.Handlers
	m := cfg.Metrics
	if m == nil {
		m = metrics.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.Observability(cfg.Logger, m))
	r.Use(middleware.Recover)
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.NotFound)

	r.Get("/", h.Welcome)
	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	// Products
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.GetProducts)
		r.Get("/{productId}", h.GetProduct)
	})

	// Orders
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.GetOrders)
		r.Delete("/{orderId}", h.CancelOrder)
		r.Patch("/change-status/{orderId}", h.ChangeOrderStatus)
	})

	// Analytics
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/allorders", h.AllOrders)
		r.Get("/cancelled-orders", h.CancelledOrders)
		r.Get("/shipped", h.ShippedOrders)
		r.Get("/total-revenue/", h.ProductRevenue)
		r.Get("/total-revenue/{productId}", h.ProductRevenue)
		r.Get("/alltotalrevenue", h.OverallRevenue)
	})

	return r
}
