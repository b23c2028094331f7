// Package api provides HTTP handlers for the onboarding API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/onboard-hub/onboard/internal/catalog"
	"github.com/onboard-hub/onboard/internal/chat"
	"github.com/onboard-hub/onboard/internal/store"
)

// maxRequestBodySize caps request bodies at 1MB.
const maxRequestBodySize = 1 << 20

// Handler provides common handler dependencies and utilities.
type Handler struct {
	repo      store.Repository
	catalog   *catalog.Catalog
	chat      chat.Client
	aiEnabled bool
}

// NewHandler creates a new Handler with common dependencies. chatClient
// may be nil when no provider is configured; chat requests then fail
// with a generic error and the config endpoint reports ai_enabled=false.
func NewHandler(repo store.Repository, cat *catalog.Catalog, chatClient chat.Client) *Handler {
	return &Handler{
		repo:      repo,
		catalog:   cat,
		chat:      chatClient,
		aiEnabled: chatClient != nil,
	}
}

// Health reports whether the server and its store are usable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Ping(r.Context()); err != nil {
		JSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"ai_enabled": h.aiEnabled,
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError writes a 400 response with a field-level error list.
// Validation failures are rejected before any state is touched.
func ValidationError(w http.ResponseWriter, details []FieldError) {
	JSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":   "Invalid request data",
		"details": details,
	})
}

// decodeBody parses a JSON request body into v, enforcing the size cap.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		ValidationError(w, []FieldError{{Field: "body", Message: "invalid JSON"}})
		return false
	}
	return true
}
