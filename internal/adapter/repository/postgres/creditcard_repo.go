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

// CreditCardRepository implements usecase.CreditCardRepository.
type CreditCardRepository struct {
	pool *pgxpool.Pool
}

// NewCreditCardRepository creates a new CreditCardRepository.
func NewCreditCardRepository(pool *pgxpool.Pool) *CreditCardRepository {
	return &CreditCardRepository{pool: pool}
}

const creditCardColumns = `id, owner_id, name, current_value, limit_value, due_day, closing_day, paid, created_at, updated_at`

// Create inserts a new credit card.
func (r *CreditCardRepository) Create(ctx context.Context, card *domain.CreditCard) error {
	query := `
		INSERT INTO credit_cards (id, owner_id, name, current_value, limit_value, due_day, closing_day, paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		card.ID,
		card.OwnerID,
		card.Name,
		decimalToNumeric(card.CurrentValue),
		decimalToNumeric(card.LimitValue),
		card.DueDay,
		card.ClosingDay,
		card.Paid,
		card.CreatedAt,
		card.UpdatedAt,
	)

	return err
}

// GetByID retrieves a credit card by ID, scoped to its owner.
func (r *CreditCardRepository) GetByID(ctx context.Context, id, ownerID string) (*domain.CreditCard, error) {
	query := `SELECT ` + creditCardColumns + ` FROM credit_cards WHERE id = $1 AND owner_id = $2`

	return scanCreditCard(r.pool.QueryRow(ctx, query, id, ownerID))
}

// GetByIDTx retrieves a credit card inside the atomic unit.
func (r *CreditCardRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id, ownerID string) (*domain.CreditCard, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT ` + creditCardColumns + ` FROM credit_cards WHERE id = $1 AND owner_id = $2`

	return scanCreditCard(pgxTx.QueryRow(ctx, query, id, ownerID))
}

// Update updates card attributes. The cached balance is only written
// through AdjustBalance.
func (r *CreditCardRepository) Update(ctx context.Context, card *domain.CreditCard) error {
	query := `
		UPDATE credit_cards
		SET name = $3, limit_value = $4, due_day = $5, closing_day = $6, paid = $7, updated_at = $8
		WHERE id = $1 AND owner_id = $2
	`

	_, err := r.pool.Exec(ctx, query,
		card.ID,
		card.OwnerID,
		card.Name,
		decimalToNumeric(card.LimitValue),
		card.DueDay,
		card.ClosingDay,
		card.Paid,
		card.UpdatedAt,
	)

	return err
}

// Delete removes the credit card. It reports whether a row was deleted.
func (r *CreditCardRepository) Delete(ctx context.Context, tx usecase.Transaction, id, ownerID string) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `DELETE FROM credit_cards WHERE id = $1 AND owner_id = $2`

	tag, err := pgxTx.Exec(ctx, query, id, ownerID)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// List retrieves the owner's credit cards with pagination.
func (r *CreditCardRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.CreditCard, error) {
	query := `
		SELECT ` + creditCardColumns + `
		FROM credit_cards
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*domain.CreditCard
	for rows.Next() {
		card, err := scanCreditCard(rows)
		if err != nil {
			return nil, err
		}

		cards = append(cards, card)
	}

	return cards, rows.Err()
}

// AdjustBalance applies a signed delta as a single atomic increment.
func (r *CreditCardRepository) AdjustBalance(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `
		UPDATE credit_cards
		SET current_value = current_value + $2, updated_at = $3
		WHERE id = $1
	`

	tag, err := pgxTx.Exec(ctx, query, id, decimalToNumeric(delta), updatedAt)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// SumDebtAndLimit returns the total outstanding debt and the total limit
// across the owner's cards. Debt is the negated sum of negative balances.
func (r *CreditCardRepository) SumDebtAndLimit(ctx context.Context, ownerID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN current_value < 0 THEN -current_value ELSE 0 END), 0),
			COALESCE(SUM(limit_value), 0)
		FROM credit_cards
		WHERE owner_id = $1
	`

	var debt, limit pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, ownerID).Scan(&debt, &limit); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(debt), numericToDecimal(limit), nil
}

func scanCreditCard(row pgx.Row) (*domain.CreditCard, error) {
	var (
		card  domain.CreditCard
		value pgtype.Numeric
		limit pgtype.Numeric
	)

	err := row.Scan(
		&card.ID,
		&card.OwnerID,
		&card.Name,
		&value,
		&limit,
		&card.DueDay,
		&card.ClosingDay,
		&card.Paid,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCreditCardNotFound
		}

		return nil, err
	}

	card.CurrentValue = numericToDecimal(value)
	card.LimitValue = numericToDecimal(limit)

	return &card, nil
}
