package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
	"github.com/iho/fintrack/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	CreateTransaction(ctx context.Context, ownerID string, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, ownerID, id string, input usecase.UpdateTransactionInput) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, ownerID, id string) (bool, error)
	GetTransaction(ctx context.Context, ownerID, id string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, ownerID string, input usecase.ListTransactionsInput) ([]*domain.Transaction, error)
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	transactionUC TransactionService
	metrics       *metrics.Metrics
}

// NewTransactionHandler creates a new TransactionHandler. metrics may be
// nil.
func NewTransactionHandler(transactionUC TransactionService, m *metrics.Metrics) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC, metrics: m}
}

// Create creates a new transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transaction, err := h.transactionUC.CreateTransaction(r.Context(), owner, req.ToUseCaseInput())
	if err != nil {
		h.countError(err)
		writeError(w, mapDomainError(err), "failed to create transaction", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.TransactionsCreated.Inc()
		amount, _ := transaction.Amount.Float64()
		h.metrics.TransactionAmount.Observe(amount)
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(transaction))
}

// Update applies a partial update to a transaction.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")

	var req dto.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transaction, err := h.transactionUC.UpdateTransaction(r.Context(), owner, id, req.ToUseCaseInput())
	if err != nil {
		h.countError(err)
		writeError(w, mapDomainError(err), "failed to update transaction", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.TransactionsUpdated.Inc()
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction))
}

// Delete removes a transaction. Deleting a missing transaction responds 204
// as well, matching the no-op semantics of the operation.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")

	deleted, err := h.transactionUC.DeleteTransaction(r.Context(), owner, id)
	if err != nil {
		h.countError(err)
		writeError(w, mapDomainError(err), "failed to delete transaction", err.Error())
		return
	}

	if deleted && h.metrics != nil {
		h.metrics.TransactionsDeleted.Inc()
	}

	w.WriteHeader(http.StatusNoContent)
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")

	transaction, err := h.transactionUC.GetTransaction(r.Context(), owner, id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction))
}

// List lists transactions with optional filters.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	input := usecase.ListTransactionsInput{
		Limit:  parseIntQuery(r, "limit", 0),
		Offset: parseIntQuery(r, "offset", 0),
		Filter: parseTransactionFilter(r),
	}

	transactions, err := h.transactionUC.ListTransactions(r.Context(), owner, input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(transactions))
}

func (h *TransactionHandler) countError(err error) {
	if h.metrics == nil {
		return
	}

	h.metrics.TransactionErrors.WithLabelValues(errorLabel(err)).Inc()
}

func errorLabel(err error) string {
	switch mapDomainError(err) {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnprocessableEntity:
		return "bad_reference"
	case http.StatusBadRequest:
		return "validation"
	default:
		return "internal"
	}
}

func parseTransactionFilter(r *http.Request) domain.TransactionFilter {
	var filter domain.TransactionFilter

	q := r.URL.Query()

	if v := q.Get("type"); v != "" {
		t := domain.TransactionType(v)
		filter.Type = &t
	}

	if v := q.Get("account_id"); v != "" {
		filter.AccountID = &v
	}

	if v := q.Get("category_id"); v != "" {
		filter.CategoryID = &v
	}

	if v := q.Get("settled"); v != "" {
		settled := v == "true"
		filter.Settled = &settled
	}

	if v := q.Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.From = &t
		}
	}

	if v := q.Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.To = &t
		}
	}

	return filter
}
