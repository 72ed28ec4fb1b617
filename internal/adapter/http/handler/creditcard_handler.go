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

// CreditCardService defines the behavior needed by CreditCardHandler.
type CreditCardService interface {
	CreateCreditCard(ctx context.Context, ownerID string, input usecase.CreateCreditCardInput) (*domain.CreditCard, error)
	GetCreditCard(ctx context.Context, ownerID, id string) (*domain.CreditCard, error)
	ListCreditCards(ctx context.Context, ownerID string, limit, offset int) ([]*domain.CreditCard, error)
	UpdateCreditCard(ctx context.Context, ownerID, id string, input usecase.UpdateCreditCardInput) (*domain.CreditCard, error)
	DeleteCreditCard(ctx context.Context, ownerID, id string) (bool, error)
}

// CreditCardHandler handles credit card HTTP requests.
type CreditCardHandler struct {
	creditCardUC CreditCardService
	metrics      *metrics.Metrics
}

// NewCreditCardHandler creates a new CreditCardHandler. metrics may be nil.
func NewCreditCardHandler(creditCardUC CreditCardService, m *metrics.Metrics) *CreditCardHandler {
	return &CreditCardHandler{creditCardUC: creditCardUC, metrics: m}
}

// Create creates a new credit card.
func (h *CreditCardHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.CreateCreditCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	card, err := h.creditCardUC.CreateCreditCard(r.Context(), owner, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create credit card", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.CreditCardsCreated.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.CreditCardFromDomain(card))
}

// Get retrieves a credit card by ID.
func (h *CreditCardHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	card, err := h.creditCardUC.GetCreditCard(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get credit card", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CreditCardFromDomain(card))
}

// List lists the user's credit cards.
func (h *CreditCardHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	cards, err := h.creditCardUC.ListCreditCards(r.Context(), owner,
		parseIntQuery(r, "limit", 0), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list credit cards", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CreditCardsFromDomain(cards))
}

// Update applies a partial update to a credit card.
func (h *CreditCardHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateCreditCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	card, err := h.creditCardUC.UpdateCreditCard(r.Context(), owner, chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update credit card", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CreditCardFromDomain(card))
}

// Delete removes a credit card unless transactions still reference it.
func (h *CreditCardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	if _, err := h.creditCardUC.DeleteCreditCard(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, domain.ErrEntityInUse) && h.metrics != nil {
			h.metrics.GuardRejections.WithLabelValues("credit_card").Inc()
		}
		writeError(w, mapDomainError(err), "failed to delete credit card", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
