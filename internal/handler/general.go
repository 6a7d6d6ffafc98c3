package handler

import (
	"net/http"

	"github.com/go-faster/jx"
)

// Root greets the client and points at the docs and the menu.
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeMessage(e,
			"message", "Welcome to the Coffee Shop API!",
			"docs", "/docs",
			"menu", "/menu",
		)
	})
}

// Health reports service status with the current time and order count.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	total, err := h.orders.Count(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	now := h.now()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeHealth(e, now, total)
	})
}
