package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/coffee-orders/internal/domain/order"
)

// writeError maps domain errors to HTTP error responses. Unknown errors are
// logged and reported as 500 without details.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *order.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusUnprocessableEntity, func(e *jx.Encoder) {
			encodeError(e, http.StatusUnprocessableEntity, vErr.Error(), vErr.Fields)
		})
	case errors.Is(err, order.ErrNotFound):
		writeJSON(w, http.StatusNotFound, func(e *jx.Encoder) {
			encodeError(e, http.StatusNotFound, "Order "+r.PathValue("id")+" not found", nil)
		})
	case errors.Is(err, order.ErrNotCancellable):
		writeJSON(w, http.StatusConflict, func(e *jx.Encoder) {
			encodeError(e, http.StatusConflict, "Cannot cancel order that is ready or completed", nil)
		})
	default:
		zctx.From(r.Context()).Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, func(e *jx.Encoder) {
			encodeError(e, http.StatusInternalServerError, "internal server error", nil)
		})
	}
}

// writeBadRequest reports an unreadable or malformed request body. The
// decoder detail is logged, not returned.
func writeBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := http.StatusBadRequest, "Request body must be valid JSON"
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		code, msg = http.StatusRequestEntityTooLarge, "Request body is too large"
	case errors.Is(err, errEmptyBody):
		msg = "Request body is empty"
	}

	zctx.From(r.Context()).Debug("Bad request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeJSON(w, code, func(e *jx.Encoder) {
		encodeError(e, code, msg, nil)
	})
}
