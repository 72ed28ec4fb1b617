package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, owner_id, name, current_value, created_at, updated_at`

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, owner_id, name, current_value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.OwnerID,
		account.Name,
		decimalToNumeric(account.CurrentValue),
		account.CreatedAt,
		account.UpdatedAt,
	)

	return err
}

// GetByID retrieves an account by ID, scoped to its owner.
func (r *AccountRepository) GetByID(ctx context.Context, id, ownerID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND owner_id = $2`

	return scanAccount(r.pool.QueryRow(ctx, query, id, ownerID))
}

// GetByIDTx retrieves an account inside the atomic unit.
func (r *AccountRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id, ownerID string) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND owner_id = $2`

	return scanAccount(pgxTx.QueryRow(ctx, query, id, ownerID))
}

// Update updates account attributes. The cached balance is only written
// through AdjustBalance.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $3, updated_at = $4
		WHERE id = $1 AND owner_id = $2
	`

	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.OwnerID,
		account.Name,
		account.UpdatedAt,
	)

	return err
}

// Delete removes the account. It reports whether a row was deleted.
func (r *AccountRepository) Delete(ctx context.Context, tx usecase.Transaction, id, ownerID string) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `DELETE FROM accounts WHERE id = $1 AND owner_id = $2`

	tag, err := pgxTx.Exec(ctx, query, id, ownerID)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// List retrieves the owner's accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// AdjustBalance applies a signed delta as a single atomic increment. The
// read-modify-write happens inside the database, so concurrent adjustments
// never lose an update.
func (r *AccountRepository) AdjustBalance(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `
		UPDATE accounts
		SET current_value = current_value + $2, updated_at = $3
		WHERE id = $1
	`

	tag, err := pgxTx.Exec(ctx, query, id, decimalToNumeric(delta), updatedAt)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// SumBalances returns the total cached balance across the owner's accounts.
func (r *AccountRepository) SumBalances(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(current_value), 0) FROM accounts WHERE owner_id = $1`

	var sum pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, ownerID).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account domain.Account
		value   pgtype.Numeric
	)

	err := row.Scan(
		&account.ID,
		&account.OwnerID,
		&account.Name,
		&value,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	account.CurrentValue = numericToDecimal(value)

	return &account, nil
}
