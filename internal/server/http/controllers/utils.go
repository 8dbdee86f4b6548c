package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ZeroFairy/kuenyawz-api/internal/entity"
	accountsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/accounts"
	cartsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/carts"
	catalogsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/catalog"
	imagesvc "github.com/ZeroFairy/kuenyawz-api/internal/services/images"
	transactionsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/transactions"
	"github.com/ZeroFairy/kuenyawz-api/pkg/snowflake"
)

// Helper functions for common HTTP responses

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes a JSON response with the given data.
func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

// writeCreated writes a 201 Created response carrying the new resource.
func writeCreated(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(data)
}

// writeNoContent writes a 204 No Content response.
func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps service sentinels to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accountsvc.ErrNotFound),
		errors.Is(err, catalogsvc.ErrNotFound),
		errors.Is(err, cartsvc.ErrNotFound),
		errors.Is(err, transactionsvc.ErrNotFound),
		errors.Is(err, imagesvc.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, accountsvc.ErrInvalidInput),
		errors.Is(err, catalogsvc.ErrInvalidInput),
		errors.Is(err, catalogsvc.ErrBadFilter),
		errors.Is(err, cartsvc.ErrInvalidInput),
		errors.Is(err, transactionsvc.ErrInvalidInput),
		errors.Is(err, imagesvc.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, accountsvc.ErrEmailTaken),
		errors.Is(err, transactionsvc.ErrFinalized),
		errors.Is(err, imagesvc.ErrTooMany):
		writeError(w, http.StatusConflict, err.Error())
	case snowflake.IsClockRegression(err):
		// Key assignment refused; nothing was written. Retryable.
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// pathID parses a decimal ID path segment.
func pathID(r *http.Request, name string) (entity.ID, bool) {
	id, err := entity.ParseID(r.PathValue(name))
	return id, err == nil
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
