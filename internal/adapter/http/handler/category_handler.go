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

// CategoryService defines the behavior needed by CategoryHandler.
type CategoryService interface {
	CreateCategory(ctx context.Context, ownerID string, input usecase.CreateCategoryInput) (*domain.Category, error)
	GetCategory(ctx context.Context, ownerID, id string) (*domain.Category, error)
	ListCategories(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, ownerID, id string, input usecase.UpdateCategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, ownerID, id string) (bool, error)
}

// CategoryHandler handles category HTTP requests.
type CategoryHandler struct {
	categoryUC CategoryService
	metrics    *metrics.Metrics
}

// NewCategoryHandler creates a new CategoryHandler. metrics may be nil.
func NewCategoryHandler(categoryUC CategoryService, m *metrics.Metrics) *CategoryHandler {
	return &CategoryHandler{categoryUC: categoryUC, metrics: m}
}

// Create creates a new category.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	category, err := h.categoryUC.CreateCategory(r.Context(), owner, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create category", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.CategoriesCreated.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.CategoryFromDomain(category))
}

// Get retrieves a category by ID.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	category, err := h.categoryUC.GetCategory(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get category", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoryFromDomain(category))
}

// List lists the user's categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	categories, err := h.categoryUC.ListCategories(r.Context(), owner,
		parseIntQuery(r, "limit", 0), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list categories", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoriesFromDomain(categories))
}

// Update applies a partial update to a category. The category kind is
// immutable.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	category, err := h.categoryUC.UpdateCategory(r.Context(), owner, chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update category", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoryFromDomain(category))
}

// Delete removes a category unless transactions still reference it.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	if _, err := h.categoryUC.DeleteCategory(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, domain.ErrEntityInUse) && h.metrics != nil {
			h.metrics.GuardRejections.WithLabelValues("category").Inc()
		}
		writeError(w, mapDomainError(err), "failed to delete category", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
