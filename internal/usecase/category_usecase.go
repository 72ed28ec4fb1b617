package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/fintrack/internal/domain"
)

// CategoryUseCase handles category business logic.
type CategoryUseCase struct {
	txManager    TransactionManager
	categoryRepo CategoryRepository
	txRepo       TransactionRepository
	idGen        IDGenerator
}

// NewCategoryUseCase creates a new CategoryUseCase.
func NewCategoryUseCase(txManager TransactionManager, categoryRepo CategoryRepository, txRepo TransactionRepository, idGen IDGenerator) *CategoryUseCase {
	return &CategoryUseCase{
		txManager:    txManager,
		categoryRepo: categoryRepo,
		txRepo:       txRepo,
		idGen:        idGen,
	}
}

// CreateCategoryInput represents input for creating a category.
type CreateCategoryInput struct {
	Name    string
	Kind    domain.CategoryKind
	Visible bool
}

// CreateCategory creates a new category.
func (uc *CategoryUseCase) CreateCategory(ctx context.Context, ownerID string, input CreateCategoryInput) (*domain.Category, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	if !input.Kind.IsValid() {
		return nil, domain.ErrInvalidTransactionType
	}

	now := time.Now().UTC()

	category := &domain.Category{
		ID:        uc.idGen.Generate(),
		OwnerID:   ownerID,
		Name:      input.Name,
		Kind:      input.Kind,
		Visible:   input.Visible,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// GetCategory retrieves a category scoped to its owner.
func (uc *CategoryUseCase) GetCategory(ctx context.Context, ownerID, id string) (*domain.Category, error) {
	return uc.categoryRepo.GetByID(ctx, id, ownerID)
}

// ListCategories lists the owner's categories with pagination.
func (uc *CategoryUseCase) ListCategories(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Category, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.categoryRepo.List(ctx, ownerID, limit, offset)
}

// UpdateCategoryInput is a partial update of category attributes. The kind
// is fixed after creation: changing it would silently break the kind match
// of every transaction referencing the category.
type UpdateCategoryInput struct {
	Name    *string
	Visible *bool
}

// UpdateCategory updates category attributes.
func (uc *CategoryUseCase) UpdateCategory(ctx context.Context, ownerID, id string, input UpdateCategoryInput) (*domain.Category, error) {
	category, err := uc.categoryRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := domain.ValidateName(*input.Name); err != nil {
			return nil, err
		}

		category.Name = *input.Name
	}

	if input.Visible != nil {
		category.Visible = *input.Visible
	}

	category.UpdatedAt = time.Now().UTC()

	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory deletes the category unless any transaction still
// references it. A missing category is a no-op, and so is another owner's
// category: the guard resolves the category owner-scoped first, so the
// in-use check never reveals a foreign category's existence.
func (uc *CategoryUseCase) DeleteCategory(ctx context.Context, ownerID, id string) (bool, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	if _, err := uc.categoryRepo.GetByIDTx(ctx, tx, id, ownerID); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return false, nil
		}

		return false, err
	}

	count, err := uc.txRepo.CountByCategory(ctx, tx, id)
	if err != nil {
		return false, err
	}

	if count > 0 {
		return false, domain.ErrEntityInUse
	}

	deleted, err := uc.categoryRepo.Delete(ctx, tx, id, ownerID)
	if err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}

	return deleted, nil
}
