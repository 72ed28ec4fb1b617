package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iho/fintrack/internal/adapter/http/middleware"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

const testOwnerID = "user-1"

func authedRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := context.WithValue(req.Context(), middleware.UserIDContextKey, testOwnerID)
	return req.WithContext(ctx)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"transaction not found", domain.ErrTransactionNotFound, http.StatusNotFound},
		{"reference not found", domain.ErrReferenceNotFound, http.StatusUnprocessableEntity},
		{"entity in use", domain.ErrEntityInUse, http.StatusConflict},
		{"invalid type", domain.ErrInvalidTransactionType, http.StatusBadRequest},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"kind mismatch", domain.ErrCategoryKindMismatch, http.StatusBadRequest},
		{"email taken", usecase.ErrEmailTaken, http.StatusConflict},
		{"bad credentials", usecase.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestOwnerID_MissingAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	rec := httptest.NewRecorder()

	if _, ok := ownerID(rec, req); ok {
		t.Fatal("expected ownerID to fail without auth context")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/accounts?limit=25&offset=junk", nil)

	if got := parseIntQuery(req, "limit", 0); got != 25 {
		t.Fatalf("expected 25, got %d", got)
	}
	if got := parseIntQuery(req, "offset", 10); got != 10 {
		t.Fatalf("expected fallback 10, got %d", got)
	}
	if got := parseIntQuery(req, "missing", 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
}
