package handler

import (
	"net/http"

	"github.com/xenking/coffee-orders/api"
)

// OpenAPI serves the OpenAPI document of this API.
func (h *Handler) OpenAPI(w http.ResponseWriter, _ *http.Request) {
	writeStatic(w, "application/yaml", api.OpenAPI)
}

// SwaggerUI serves the interactive API documentation.
func (h *Handler) SwaggerUI(w http.ResponseWriter, _ *http.Request) {
	writeStatic(w, "text/html; charset=utf-8", api.SwaggerUI)
}

// ReDoc serves the reference API documentation.
func (h *Handler) ReDoc(w http.ResponseWriter, _ *http.Request) {
	writeStatic(w, "text/html; charset=utf-8", api.ReDoc)
}

func writeStatic(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
