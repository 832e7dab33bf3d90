// Package httpapi exposes the HTTP API layer of the service.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/edit"
	"github.com/fairyhunter13/warehouse-inventory-simulator/internal/store"
)

// jsonError represents a JSON error payload.
type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: message, Details: details})
}

// writeStoreError maps domain errors onto HTTP statuses: unknown products
// are 404, invariant violations 400, malformed files 500.
func writeStoreError(w http.ResponseWriter, err error) {
	var nf *store.NotFoundError
	var ve *store.ValidationError
	var se *store.SchemaError
	switch {
	case errors.As(err, &nf):
		WriteJSONError(w, http.StatusNotFound, "not_found", nf.Error())
	case errors.As(err, &ve):
		WriteJSONError(w, http.StatusBadRequest, "validation_error", ve.Error())
	case errors.As(err, &se):
		WriteJSONError(w, http.StatusInternalServerError, "schema_error", se.Error())
	case errors.Is(err, edit.ErrNoTarget), errors.Is(err, edit.ErrNoFields):
		WriteJSONError(w, http.StatusBadRequest, "unparseable_command", err.Error())
	default:
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
