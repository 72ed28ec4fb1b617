package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, owner_id, type, amount, occurred_at, settled, note, account_id, category_id, transfer_account_id, created_at, updated_at`

// Create inserts a new transaction inside the atomic unit.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()
	query := `
		INSERT INTO transactions (id, owner_id, type, amount, occurred_at, settled, note, account_id, category_id, transfer_account_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := pgxTx.Exec(ctx, query,
		t.ID,
		t.OwnerID,
		string(t.Type),
		decimalToNumeric(t.Amount),
		t.OccurredAt,
		t.Settled,
		t.Note,
		t.AccountID,
		t.CategoryID,
		t.TransferAccountID,
		t.CreatedAt,
		t.UpdatedAt,
	)

	return err
}

// GetByID retrieves a transaction by ID, scoped to its owner.
func (r *TransactionRepository) GetByID(ctx context.Context, id, ownerID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND owner_id = $2`

	return scanTransaction(r.pool.QueryRow(ctx, query, id, ownerID))
}

// GetByIDTx retrieves a transaction inside the atomic unit with a row lock,
// so two concurrent lifecycles of the same transaction serialize.
func (r *TransactionRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id, ownerID string) (*domain.Transaction, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND owner_id = $2 FOR UPDATE`

	return scanTransaction(pgxTx.QueryRow(ctx, query, id, ownerID))
}

// Update rewrites the transaction row inside the atomic unit.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()
	query := `
		UPDATE transactions
		SET type = $3, amount = $4, occurred_at = $5, settled = $6, note = $7,
		    account_id = $8, category_id = $9, transfer_account_id = $10, updated_at = $11
		WHERE id = $1 AND owner_id = $2
	`

	_, err := pgxTx.Exec(ctx, query,
		t.ID,
		t.OwnerID,
		string(t.Type),
		decimalToNumeric(t.Amount),
		t.OccurredAt,
		t.Settled,
		t.Note,
		t.AccountID,
		t.CategoryID,
		t.TransferAccountID,
		t.UpdatedAt,
	)

	return err
}

// Delete removes the transaction row. It reports whether a row was deleted.
func (r *TransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id, ownerID string) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `DELETE FROM transactions WHERE id = $1 AND owner_id = $2`

	tag, err := pgxTx.Exec(ctx, query, id, ownerID)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// List retrieves the owner's transactions with optional filters, newest
// occurrence first.
func (r *TransactionRepository) List(ctx context.Context, ownerID string, filter domain.TransactionFilter, limit, offset int) ([]*domain.Transaction, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + transactionColumns + ` FROM transactions WHERE owner_id = $1`)

	args := []any{ownerID}

	appendCond := func(cond string, value any) {
		args = append(args, value)
		fmt.Fprintf(&sb, " AND %s $%d", cond, len(args))
	}

	if filter.Type != nil {
		appendCond("type =", string(*filter.Type))
	}

	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		fmt.Fprintf(&sb, " AND (account_id = $%d OR transfer_account_id = $%d)", len(args), len(args))
	}

	if filter.CategoryID != nil {
		appendCond("category_id =", *filter.CategoryID)
	}

	if filter.Settled != nil {
		appendCond("settled =", *filter.Settled)
	}

	if filter.From != nil {
		appendCond("occurred_at >=", *filter.From)
	}

	if filter.To != nil {
		appendCond("occurred_at <", *filter.To)
	}

	args = append(args, limit, offset)
	fmt.Fprintf(&sb, " ORDER BY occurred_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}

		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

// CountByAccount counts transactions referencing the account as source or
// transfer target. Deletion guards depend on both sides being counted, so
// the query runs inside the same atomic unit as the delete.
func (r *TransactionRepository) CountByAccount(ctx context.Context, tx usecase.Transaction, accountID string) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT COUNT(*) FROM transactions WHERE account_id = $1 OR transfer_account_id = $1`

	var count int64
	err := pgxTx.QueryRow(ctx, query, accountID).Scan(&count)

	return count, err
}

// CountByCategory counts transactions referencing the category.
func (r *TransactionRepository) CountByCategory(ctx context.Context, tx usecase.Transaction, categoryID string) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT COUNT(*) FROM transactions WHERE category_id = $1`

	var count int64
	err := pgxTx.QueryRow(ctx, query, categoryID).Scan(&count)

	return count, err
}

// SumByType aggregates transaction amounts per type in the optional date
// range.
func (r *TransactionRepository) SumByType(ctx context.Context, ownerID string, from, to *time.Time) ([]usecase.KindTotal, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT type, COALESCE(SUM(amount), 0), COUNT(*) FROM transactions WHERE owner_id = $1`)

	args := []any{ownerID}

	if from != nil {
		args = append(args, *from)
		fmt.Fprintf(&sb, " AND occurred_at >= $%d", len(args))
	}

	if to != nil {
		args = append(args, *to)
		fmt.Fprintf(&sb, " AND occurred_at < $%d", len(args))
	}

	sb.WriteString(" GROUP BY type")

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []usecase.KindTotal
	for rows.Next() {
		var (
			kind  string
			total pgtype.Numeric
			kt    usecase.KindTotal
		)

		if err := rows.Scan(&kind, &total, &kt.Count); err != nil {
			return nil, err
		}

		kt.Type = domain.TransactionType(kind)
		kt.Total = numericToDecimal(total)

		totals = append(totals, kt)
	}

	return totals, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t      domain.Transaction
		kind   string
		amount pgtype.Numeric
	)

	err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&kind,
		&amount,
		&t.OccurredAt,
		&t.Settled,
		&t.Note,
		&t.AccountID,
		&t.CategoryID,
		&t.TransferAccountID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	t.Type = domain.TransactionType(kind)
	t.Amount = numericToDecimal(amount)

	return &t, nil
}
