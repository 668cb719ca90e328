package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/knova-inc/knova-engine/pkg/apperrors"
)

// ApiResponse is the standard success envelope.
type ApiResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// ErrorResponseWithDetails writes a JSON error response carrying extra
// structured detail (e.g. the missing tag categories on a failed submit).
func ErrorResponseWithDetails(w http.ResponseWriter, statusCode int, errorCode, message string, details any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]any{
		"error":   errorCode,
		"message": message,
		"details": details,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// RespondError maps the service error taxonomy to HTTP statuses:
// NotFound 404, Forbidden 403, invalid credentials 401, invalid transition
// 409 (the guard recheck lost a race or the caller is out of step), failed
// submission validation 400 with the missing categories, everything else 500.
func RespondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var ite *apperrors.InvalidTransitionError
	var ve *apperrors.ValidationError

	var writeErr error
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		writeErr = ErrorResponse(w, http.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, apperrors.ErrForbidden):
		writeErr = ErrorResponse(w, http.StatusForbidden, "forbidden", "Not allowed")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		writeErr = ErrorResponse(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
	case errors.Is(err, apperrors.ErrEmailTaken):
		writeErr = ErrorResponse(w, http.StatusBadRequest, "email_taken", "Email already registered")
	case errors.As(err, &ite):
		writeErr = ErrorResponseWithDetails(w, http.StatusConflict, "invalid_transition", ite.Error(),
			map[string]string{"current_status": ite.Current})
	case errors.As(err, &ve):
		writeErr = ErrorResponseWithDetails(w, http.StatusBadRequest, "required_metadata_missing", ve.Error(),
			map[string]any{"missing": ve.Missing})
	default:
		logger.Error("Request failed", zap.Error(err))
		writeErr = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Server error")
	}

	if writeErr != nil {
		logger.Error("Failed to write error response", zap.Error(writeErr))
	}
}
