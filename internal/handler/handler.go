package handler

import (
	"net/http"
	"time"

	"github.com/xenking/coffee-orders/internal/domain/order"
)

// Handler serves the coffee ordering HTTP API, delegating business logic to
// the order service.
type Handler struct {
	orders *order.Service
	now    func() time.Time
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(orders *order.Service) *Handler {
	return &Handler{
		orders: orders,
		now:    time.Now,
	}
}

type route struct {
	pattern string
	handler http.HandlerFunc
	// documented routes are described in the OpenAPI document.
	documented bool
}

func (h *Handler) routes() []route {
	return []route{
		{"GET /{$}", h.Root, true},
		{"GET /menu", h.GetMenu, true},
		{"GET /health", h.Health, true},

		{"POST /orders", h.CreateOrder, true},
		{"GET /orders", h.ListOrders, true},
		{"GET /orders/{id}", h.GetOrder, true},
		{"PATCH /orders/{id}/status", h.UpdateOrderStatus, true},
		{"DELETE /orders/{id}", h.CancelOrder, true},

		{"GET /openapi.yaml", h.OpenAPI, false},
		{"GET /docs", h.SwaggerUI, false},
		{"GET /redoc", h.ReDoc, false},
	}
}

// Register adds all API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	for _, rt := range h.routes() {
		mux.HandleFunc(rt.pattern, rt.handler)
	}
}
