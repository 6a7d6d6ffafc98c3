package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/coffee-orders/internal/domain/order"
)

// CreateOrder decodes an order request, delegates to the order service, and
// responds with the created order.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	req, fields, err := decodeOrderRequest(body)
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	if len(fields) > 0 {
		writeError(w, r, mergeFieldErrors(fields, req.Validate()))
		return
	}

	o, err := h.orders.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeOrder(e, *o)
	})
}

// ListOrders returns every order.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeOrders(e, orders)
	})
}

// GetOrder returns a single order by ID.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeOrder(e, *o)
	})
}

// UpdateOrderStatus changes the status of an order.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	status, fields, err := decodeStatusRequest(body)
	if err != nil {
		writeBadRequest(w, r, err)
		return
	}
	if len(fields) > 0 {
		writeError(w, r, &order.ValidationError{Fields: fields})
		return
	}

	res, err := h.orders.UpdateStatus(r.Context(), r.PathValue("id"), status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeStatusUpdate(e, res)
	})
}

// CancelOrder removes an order that is not ready or completed yet.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.orders.Cancel(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeMessage(e, "message", "Order "+id+" has been cancelled")
	})
}

// GetMenu returns every orderable option.
func (h *Handler) GetMenu(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeMenu(e, order.GetMenu())
	})
}
