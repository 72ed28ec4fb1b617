package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/adapter/http/middleware"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrCreditCardNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrReferenceNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrEntityInUse):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidTransactionType),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrMissingReference),
		errors.Is(err, domain.ErrUnexpectedReference),
		errors.Is(err, domain.ErrInvalidTransferTarget),
		errors.Is(err, domain.ErrCategoryKindMismatch),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrPasswordTooWeak),
		errors.Is(err, domain.ErrInvalidDay):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// ownerID extracts the authenticated user id, writing 401 when absent.
func ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return "", false
	}

	return id, true
}
