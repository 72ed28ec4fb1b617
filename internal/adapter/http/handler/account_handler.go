package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
	"github.com/iho/fintrack/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, ownerID string, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, ownerID, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error)
	RenameAccount(ctx context.Context, ownerID, id, name string) (*domain.Account, error)
	DeleteAccount(ctx context.Context, ownerID, id string) (bool, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
	metrics   *metrics.Metrics
}

// NewAccountHandler creates a new AccountHandler. metrics may be nil.
func NewAccountHandler(accountUC AccountService, m *metrics.Metrics) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, metrics: m}
}

// Create creates a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), owner, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create account", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.AccountsCreated.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists the user's accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	accounts, err := h.accountUC.ListAccounts(r.Context(), owner,
		parseIntQuery(r, "limit", 0), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// Update renames an account.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.RenameAccount(r.Context(), owner, chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Delete removes an account unless transactions still reference it.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	if _, err := h.accountUC.DeleteAccount(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, domain.ErrEntityInUse) && h.metrics != nil {
			h.metrics.GuardRejections.WithLabelValues("account").Inc()
		}
		writeError(w, mapDomainError(err), "failed to delete account", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
