package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/poolup/poolup/internal/auth"
	"github.com/poolup/poolup/internal/models"
)

// All responses share one envelope:
//
//	{"status": "success", "data": ...}
//	{"status": "error", "message": "..."}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"status": "success",
		"data":   data,
	}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "error",
		"message": message,
	})
}

// writeDomainError maps a domain error kind to an HTTP status. Unrecognized
// errors become opaque 500s so storage details never leak to clients.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case models.IsValidation(err),
		errors.Is(err, models.ErrAlreadyMember),
		errors.Is(err, models.ErrLastAdmin),
		errors.Is(err, models.ErrInsufficientFunds),
		errors.Is(err, models.ErrNotWithdrawal),
		errors.Is(err, models.ErrAlreadyDecided),
		errors.Is(err, models.ErrDuplicate),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrUsernameExists),
		errors.Is(err, auth.ErrEmailExists):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrNotMember), errors.Is(err, models.ErrNotAdmin):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("Unhandled error reached transport", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON parses the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
