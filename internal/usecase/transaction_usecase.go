package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// TransactionUseCase orchestrates the transaction lifecycle. Each operation
// runs as one atomic unit: referential validation, balance reversal and
// application, and row persistence commit or abort together, so a
// transaction never exists without its effect on account balances and vice
// versa.
type TransactionUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	cardRepo     CreditCardRepository
	categoryRepo CategoryRepository
	txRepo       TransactionRepository
	idGen        IDGenerator
	cache        Cache
	retrier      Retrier
}

// NewTransactionUseCase creates a new TransactionUseCase. cache may be nil.
func NewTransactionUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	cardRepo CreditCardRepository,
	categoryRepo CategoryRepository,
	txRepo TransactionRepository,
	idGen IDGenerator,
	cache Cache,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		cardRepo:     cardRepo,
		categoryRepo: categoryRepo,
		txRepo:       txRepo,
		idGen:        idGen,
		cache:        cache,
	}
}

// WithRetrier makes every atomic unit re-run through the retrier on
// transient store conflicts. The whole unit restarts, never a single
// statement.
func (uc *TransactionUseCase) WithRetrier(retrier Retrier) *TransactionUseCase {
	uc.retrier = retrier
	return uc
}

// runAtomic executes one begin-to-commit section, through the retrier when
// one is configured.
func (uc *TransactionUseCase) runAtomic(ctx context.Context, fn func() error) error {
	if uc.retrier == nil {
		return fn()
	}

	return uc.retrier.Retry(ctx, fn)
}

// holderKind tells which table a balance-holding reference resolved to.
// Accounts and credit cards share the effect model but live in separate
// tables.
type holderKind int

const (
	holderAccount holderKind = iota
	holderCreditCard
)

// CreateTransactionInput represents input for creating a transaction.
type CreateTransactionInput struct {
	Type              domain.TransactionType
	Amount            decimal.Decimal
	OccurredAt        *time.Time
	Settled           *bool
	Note              string
	AccountID         string
	CategoryID        *string
	TransferAccountID *string
}

// UpdateTransactionInput is a partial update: nil fields keep the stored
// value. Clearing a nullable reference is explicit, so "unset" and
// "set to null" stay distinguishable.
type UpdateTransactionInput struct {
	Type                 *domain.TransactionType
	Amount               *decimal.Decimal
	OccurredAt           *time.Time
	Settled              *bool
	Note                 *string
	AccountID            *string
	CategoryID           *string
	ClearCategory        bool
	TransferAccountID    *string
	ClearTransferAccount bool
}

// CreateTransaction validates the request, inserts the transaction row and
// applies its balance effects, all inside one atomic unit.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, ownerID string, input CreateTransactionInput) (*domain.Transaction, error) {
	now := time.Now().UTC()

	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}

	settled := false
	if input.Settled != nil {
		settled = *input.Settled
	}

	t := &domain.Transaction{
		ID:                uc.idGen.Generate(),
		OwnerID:           ownerID,
		Type:              input.Type,
		Amount:            domain.NormalizeAmount(input.Amount),
		OccurredAt:        occurredAt,
		Settled:           settled,
		Note:              input.Note,
		AccountID:         input.AccountID,
		CategoryID:        input.CategoryID,
		TransferAccountID: input.TransferAccountID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := domain.ValidateAmount(t.Amount); err != nil {
		return nil, err
	}

	if err := t.ValidateShape(); err != nil {
		return nil, err
	}

	err := uc.runAtomic(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		holders, err := uc.validateRefs(ctx, tx, t)
		if err != nil {
			return err
		}

		if err := uc.txRepo.Create(ctx, tx, t); err != nil {
			return err
		}

		if err := uc.applyEffects(ctx, tx, holders, domain.EffectsOf(t), now); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateOverview(ctx, ownerID)

	return t, nil
}

// UpdateTransaction merges the partial input onto the stored transaction,
// re-validates the merged image in full, reverses the old balance effects,
// applies the new ones and persists the row, atomically.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, ownerID, id string, input UpdateTransactionInput) (*domain.Transaction, error) {
	now := time.Now().UTC()

	var merged *domain.Transaction

	err := uc.runAtomic(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		existing, err := uc.txRepo.GetByIDTx(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}

		merged = mergeTransaction(existing, input)
		merged.UpdatedAt = now

		if err := domain.ValidateAmount(merged.Amount); err != nil {
			return err
		}

		if err := merged.ValidateShape(); err != nil {
			return err
		}

		newHolders, err := uc.validateRefs(ctx, tx, merged)
		if err != nil {
			return err
		}

		oldEffects := domain.EffectsOf(existing)

		oldHolders, err := uc.resolveEffectHolders(ctx, tx, ownerID, oldEffects)
		if err != nil {
			return err
		}

		// Reverse the stored pre-image, then apply the merged image. When the
		// account reference changed the two steps touch different holders; the
		// calculator needs no special case for that.
		if err := uc.applyEffects(ctx, tx, oldHolders, domain.NegatedEffects(oldEffects), now); err != nil {
			return err
		}

		if err := uc.applyEffects(ctx, tx, newHolders, domain.EffectsOf(merged), now); err != nil {
			return err
		}

		if err := uc.txRepo.Update(ctx, tx, merged); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateOverview(ctx, ownerID)

	return merged, nil
}

// DeleteTransaction reverses the transaction's balance effects and removes
// the row. Deleting an id that does not exist for this owner is a no-op,
// not an error.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, ownerID, id string) (bool, error) {
	now := time.Now().UTC()

	found := false

	err := uc.runAtomic(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		existing, err := uc.txRepo.GetByIDTx(ctx, tx, id, ownerID)
		if err != nil {
			if errors.Is(err, domain.ErrTransactionNotFound) {
				found = false
				return nil
			}

			return err
		}

		found = true

		effects := domain.EffectsOf(existing)

		holders, err := uc.resolveEffectHolders(ctx, tx, ownerID, effects)
		if err != nil {
			return err
		}

		if err := uc.applyEffects(ctx, tx, holders, domain.NegatedEffects(effects), now); err != nil {
			return err
		}

		deleted, err := uc.txRepo.Delete(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}

		if !deleted {
			return fmt.Errorf("transaction %s vanished inside atomic unit", id)
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return false, err
	}

	if !found {
		return false, nil
	}

	uc.invalidateOverview(ctx, ownerID)

	return true, nil
}

// GetTransaction retrieves a transaction scoped to its owner.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	return uc.txRepo.GetByID(ctx, id, ownerID)
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	Filter domain.TransactionFilter
	Limit  int
	Offset int
}

// ListTransactions lists the owner's transactions with filters and
// pagination.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, ownerID string, input ListTransactionsInput) ([]*domain.Transaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.txRepo.List(ctx, ownerID, input.Filter, limit, offset)
}

// validateRefs resolves every reference of the transaction against the
// store inside the atomic unit: the account (and transfer target) must be a
// balance holder owned by the acting user, and the category must exist and
// match the transaction type. Read-only.
func (uc *TransactionUseCase) validateRefs(ctx context.Context, tx Transaction, t *domain.Transaction) (map[string]holderKind, error) {
	holders := make(map[string]holderKind, 2)

	kind, err := uc.resolveHolder(ctx, tx, t.AccountID, t.OwnerID)
	if err != nil {
		return nil, err
	}

	holders[t.AccountID] = kind

	if t.TransferAccountID != nil {
		kind, err := uc.resolveHolder(ctx, tx, *t.TransferAccountID, t.OwnerID)
		if err != nil {
			return nil, err
		}

		holders[*t.TransferAccountID] = kind
	}

	if t.CategoryID != nil {
		category, err := uc.categoryRepo.GetByIDTx(ctx, tx, *t.CategoryID, t.OwnerID)
		if err != nil {
			if errors.Is(err, domain.ErrCategoryNotFound) {
				return nil, domain.ErrReferenceNotFound
			}

			return nil, err
		}

		if !category.MatchesType(t.Type) {
			return nil, domain.ErrCategoryKindMismatch
		}
	}

	return holders, nil
}

// resolveHolder finds which table the reference lives in. An id owned by a
// different user resolves exactly like a missing one.
func (uc *TransactionUseCase) resolveHolder(ctx context.Context, tx Transaction, id, ownerID string) (holderKind, error) {
	_, err := uc.accountRepo.GetByIDTx(ctx, tx, id, ownerID)
	if err == nil {
		return holderAccount, nil
	}

	if !errors.Is(err, domain.ErrAccountNotFound) {
		return 0, err
	}

	_, err = uc.cardRepo.GetByIDTx(ctx, tx, id, ownerID)
	if err == nil {
		return holderCreditCard, nil
	}

	if errors.Is(err, domain.ErrCreditCardNotFound) {
		return 0, domain.ErrReferenceNotFound
	}

	return 0, err
}

// resolveEffectHolders resolves the holders referenced by an effect list.
// Used for reversal, where the refs come from the stored pre-image.
func (uc *TransactionUseCase) resolveEffectHolders(ctx context.Context, tx Transaction, ownerID string, effects []domain.Effect) (map[string]holderKind, error) {
	holders := make(map[string]holderKind, len(effects))

	for _, e := range effects {
		if _, ok := holders[e.AccountID]; ok {
			continue
		}

		kind, err := uc.resolveHolder(ctx, tx, e.AccountID, ownerID)
		if err != nil {
			return nil, err
		}

		holders[e.AccountID] = kind
	}

	return holders, nil
}

// applyEffects applies each signed delta through the atomic-increment
// accessor of the holder's table.
func (uc *TransactionUseCase) applyEffects(ctx context.Context, tx Transaction, holders map[string]holderKind, effects []domain.Effect, now time.Time) error {
	for _, e := range effects {
		var (
			matched bool
			err     error
		)

		switch holders[e.AccountID] {
		case holderCreditCard:
			matched, err = uc.cardRepo.AdjustBalance(ctx, tx, e.AccountID, e.Delta, now)
		default:
			matched, err = uc.accountRepo.AdjustBalance(ctx, tx, e.AccountID, e.Delta, now)
		}

		if err != nil {
			return err
		}

		if !matched {
			return fmt.Errorf("balance holder %s vanished inside atomic unit: %w", e.AccountID, domain.ErrReferenceNotFound)
		}
	}

	return nil
}

// invalidateOverview drops the cached overview after a committed mutation.
// Best effort: a failed invalidation only shortens cache accuracy, the TTL
// still bounds staleness.
func (uc *TransactionUseCase) invalidateOverview(ctx context.Context, ownerID string) {
	if uc.cache == nil {
		return
	}

	_ = uc.cache.Delete(ctx, overviewCacheKey(ownerID))
}

// mergeTransaction overlays the partial input on a copy of the stored
// transaction. Unspecified fields keep their prior values.
func mergeTransaction(existing *domain.Transaction, input UpdateTransactionInput) *domain.Transaction {
	merged := *existing

	if input.Type != nil {
		merged.Type = *input.Type
	}

	if input.Amount != nil {
		merged.Amount = domain.NormalizeAmount(*input.Amount)
	}

	if input.OccurredAt != nil {
		merged.OccurredAt = *input.OccurredAt
	}

	if input.Settled != nil {
		merged.Settled = *input.Settled
	}

	if input.Note != nil {
		merged.Note = *input.Note
	}

	if input.AccountID != nil {
		merged.AccountID = *input.AccountID
	}

	switch {
	case input.ClearCategory:
		merged.CategoryID = nil
	case input.CategoryID != nil:
		merged.CategoryID = input.CategoryID
	}

	switch {
	case input.ClearTransferAccount:
		merged.TransferAccountID = nil
	case input.TransferAccountID != nil:
		merged.TransferAccountID = input.TransferAccountID
	}

	return &merged
}
