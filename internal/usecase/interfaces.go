package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// AccountRepository defines data access for accounts. Every read and write
// is scoped by the owning user's id.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id, ownerID string) (*domain.Account, error)
	GetByIDTx(ctx context.Context, tx Transaction, id, ownerID string) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, tx Transaction, id, ownerID string) (bool, error)
	List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error)
	// AdjustBalance applies a signed delta as a single atomic increment
	// (balance = balance + delta). It reports whether a row was matched.
	AdjustBalance(ctx context.Context, tx Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (bool, error)
	SumBalances(ctx context.Context, ownerID string) (decimal.Decimal, error)
}

// CreditCardRepository defines data access for credit cards.
type CreditCardRepository interface {
	Create(ctx context.Context, card *domain.CreditCard) error
	GetByID(ctx context.Context, id, ownerID string) (*domain.CreditCard, error)
	GetByIDTx(ctx context.Context, tx Transaction, id, ownerID string) (*domain.CreditCard, error)
	Update(ctx context.Context, card *domain.CreditCard) error
	Delete(ctx context.Context, tx Transaction, id, ownerID string) (bool, error)
	List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.CreditCard, error)
	AdjustBalance(ctx context.Context, tx Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (bool, error)
	// SumDebtAndLimit returns the total outstanding debt and the total
	// limit across the owner's cards.
	SumDebtAndLimit(ctx context.Context, ownerID string) (debt, limit decimal.Decimal, err error)
}

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id, ownerID string) (*domain.Category, error)
	GetByIDTx(ctx context.Context, tx Transaction, id, ownerID string) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, tx Transaction, id, ownerID string) (bool, error)
	List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Category, error)
}

// KindTotal is one row of a per-type transaction aggregation.
type KindTotal struct {
	Type  domain.TransactionType
	Total decimal.Decimal
	Count int64
}

// TransactionRepository defines data access for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, t *domain.Transaction) error
	GetByID(ctx context.Context, id, ownerID string) (*domain.Transaction, error)
	// GetByIDTx loads the transaction inside the atomic unit with a row
	// lock, so concurrent updates of the same transaction serialize.
	GetByIDTx(ctx context.Context, tx Transaction, id, ownerID string) (*domain.Transaction, error)
	Update(ctx context.Context, tx Transaction, t *domain.Transaction) error
	Delete(ctx context.Context, tx Transaction, id, ownerID string) (bool, error)
	List(ctx context.Context, ownerID string, filter domain.TransactionFilter, limit, offset int) ([]*domain.Transaction, error)
	// CountByAccount counts transactions referencing the account as source
	// or transfer target. It runs inside the atomic unit so a deletion guard
	// and the deletion it protects see the same snapshot.
	CountByAccount(ctx context.Context, tx Transaction, accountID string) (int64, error)
	CountByCategory(ctx context.Context, tx Transaction, categoryID string) (int64, error)
	SumByType(ctx context.Context, ownerID string, from, to *time.Time) ([]KindTotal, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Transaction represents one atomic unit against the store: all statements
// issued through it commit or roll back together.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles atomic unit lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation when the store reports a transient conflict,
// such as a deadlock between two atomic units.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore remembers responses keyed by client-supplied
// idempotency keys, so retried mutations replay instead of re-executing.
type IdempotencyStore interface {
	CheckAndSet(ctx context.Context, key string, ttl time.Duration) (seen bool, response []byte, err error)
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
