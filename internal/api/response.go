package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fernandezvara/catalogd/internal/store"
)

// ErrorResponse is the error body shape shared by every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError translates repository outcomes into response codes. This
// is the only place request-facing error codes are assigned: the
// absent-record signal becomes 404; everything else is a server-side
// failure with a generic body so internals never leak to clients.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if store.IsNotFound(err) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Item not found",
		})
		return
	}

	logger.Error("request failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// writeValidation rejects malformed input before any repository call.
func writeValidation(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: message,
	})
}
