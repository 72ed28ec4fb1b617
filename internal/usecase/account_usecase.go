package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// AccountUseCase handles account business logic. Balances are written only
// by the transaction lifecycle; user edits touch the name.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txRepo      TransactionRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(txManager TransactionManager, accountRepo AccountRepository, txRepo TransactionRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txRepo:      txRepo,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name string
}

// CreateAccount creates a new account with a zero balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, ownerID string, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:           uc.idGen.Generate(),
		OwnerID:      ownerID,
		Name:         input.Name,
		CurrentValue: decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account scoped to its owner.
func (uc *AccountUseCase) GetAccount(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id, ownerID)
}

// ListAccounts lists the owner's accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.accountRepo.List(ctx, ownerID, limit, offset)
}

// RenameAccount updates the account name.
func (uc *AccountUseCase) RenameAccount(ctx context.Context, ownerID, id, name string) (*domain.Account, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	account.Name = name
	account.UpdatedAt = time.Now().UTC()

	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// DeleteAccount deletes the account unless any transaction still references
// it as source or transfer target. A missing account is a no-op, and so is
// another owner's account: the guard resolves the account owner-scoped
// first, so the in-use check never reveals a foreign account's existence.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, ownerID, id string) (bool, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	if _, err := uc.accountRepo.GetByIDTx(ctx, tx, id, ownerID); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
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

	deleted, err := uc.accountRepo.Delete(ctx, tx, id, ownerID)
	if err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}

	return deleted, nil
}
