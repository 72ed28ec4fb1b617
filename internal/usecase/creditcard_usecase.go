package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// CreditCardUseCase handles credit card business logic.
type CreditCardUseCase struct {
	txManager TransactionManager
	cardRepo  CreditCardRepository
	txRepo    TransactionRepository
	idGen     IDGenerator
}

// NewCreditCardUseCase creates a new CreditCardUseCase.
func NewCreditCardUseCase(txManager TransactionManager, cardRepo CreditCardRepository, txRepo TransactionRepository, idGen IDGenerator) *CreditCardUseCase {
	return &CreditCardUseCase{
		txManager: txManager,
		cardRepo:  cardRepo,
		txRepo:    txRepo,
		idGen:     idGen,
	}
}

// CreateCreditCardInput represents input for creating a credit card.
type CreateCreditCardInput struct {
	Name       string
	LimitValue decimal.Decimal
	DueDay     int
	ClosingDay int
}

// CreateCreditCard creates a new credit card with a zero balance.
func (uc *CreditCardUseCase) CreateCreditCard(ctx context.Context, ownerID string, input CreateCreditCardInput) (*domain.CreditCard, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	if input.LimitValue.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	if err := domain.ValidateDayOfMonth(input.DueDay); err != nil {
		return nil, err
	}

	if err := domain.ValidateDayOfMonth(input.ClosingDay); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	card := &domain.CreditCard{
		ID:           uc.idGen.Generate(),
		OwnerID:      ownerID,
		Name:         input.Name,
		CurrentValue: decimal.Zero,
		LimitValue:   domain.NormalizeAmount(input.LimitValue),
		DueDay:       input.DueDay,
		ClosingDay:   input.ClosingDay,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}

	return card, nil
}

// GetCreditCard retrieves a credit card scoped to its owner.
func (uc *CreditCardUseCase) GetCreditCard(ctx context.Context, ownerID, id string) (*domain.CreditCard, error) {
	return uc.cardRepo.GetByID(ctx, id, ownerID)
}

// ListCreditCards lists the owner's credit cards with pagination.
func (uc *CreditCardUseCase) ListCreditCards(ctx context.Context, ownerID string, limit, offset int) ([]*domain.CreditCard, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.cardRepo.List(ctx, ownerID, limit, offset)
}

// UpdateCreditCardInput is a partial update of card attributes. The cached
// balance is never written here.
type UpdateCreditCardInput struct {
	Name       *string
	LimitValue *decimal.Decimal
	DueDay     *int
	ClosingDay *int
	Paid       *bool
}

// UpdateCreditCard updates card attributes.
func (uc *CreditCardUseCase) UpdateCreditCard(ctx context.Context, ownerID, id string, input UpdateCreditCardInput) (*domain.CreditCard, error) {
	card, err := uc.cardRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := domain.ValidateName(*input.Name); err != nil {
			return nil, err
		}

		card.Name = *input.Name
	}

	if input.LimitValue != nil {
		if input.LimitValue.IsNegative() {
			return nil, domain.ErrInvalidAmount
		}

		card.LimitValue = domain.NormalizeAmount(*input.LimitValue)
	}

	if input.DueDay != nil {
		if err := domain.ValidateDayOfMonth(*input.DueDay); err != nil {
			return nil, err
		}

		card.DueDay = *input.DueDay
	}

	if input.ClosingDay != nil {
		if err := domain.ValidateDayOfMonth(*input.ClosingDay); err != nil {
			return nil, err
		}

		card.ClosingDay = *input.ClosingDay
	}

	if input.Paid != nil {
		card.Paid = *input.Paid
	}

	card.UpdatedAt = time.Now().UTC()

	if err := uc.cardRepo.Update(ctx, card); err != nil {
		return nil, err
	}

	return card, nil
}

// DeleteCreditCard deletes the card unless any transaction still references
// it. A missing card is a no-op, and so is another owner's card: the guard
// resolves the card owner-scoped first, so the in-use check never reveals a
// foreign card's existence.
func (uc *CreditCardUseCase) DeleteCreditCard(ctx context.Context, ownerID, id string) (bool, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	if _, err := uc.cardRepo.GetByIDTx(ctx, tx, id, ownerID); err != nil {
		if errors.Is(err, domain.ErrCreditCardNotFound) {
			return false, nil
		}

		return false, err
	}

	count, err := uc.txRepo.CountByAccount(ctx, tx, id)
	if err != nil {
		return false, err
	}

	if count > 0 {
		return false, domain.ErrEntityInUse
	}

	deleted, err := uc.cardRepo.Delete(ctx, tx, id, ownerID)
	if err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}

	return deleted, nil
}
