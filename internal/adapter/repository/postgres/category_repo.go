package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, owner_id, name, kind, visible, created_at, updated_at`

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (id, owner_id, name, kind, visible, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		category.ID,
		category.OwnerID,
		category.Name,
		string(category.Kind),
		category.Visible,
		category.CreatedAt,
		category.UpdatedAt,
	)

	return err
}

// GetByID retrieves a category by ID, scoped to its owner.
func (r *CategoryRepository) GetByID(ctx context.Context, id, ownerID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND owner_id = $2`

	return scanCategory(r.pool.QueryRow(ctx, query, id, ownerID))
}

// GetByIDTx retrieves a category inside the atomic unit.
func (r *CategoryRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id, ownerID string) (*domain.Category, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND owner_id = $2`

	return scanCategory(pgxTx.QueryRow(ctx, query, id, ownerID))
}

// Update updates category attributes. The kind column is never rewritten.
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET name = $3, visible = $4, updated_at = $5
		WHERE id = $1 AND owner_id = $2
	`

	_, err := r.pool.Exec(ctx, query,
		category.ID,
		category.OwnerID,
		category.Name,
		category.Visible,
		category.UpdatedAt,
	)

	return err
}

// Delete removes the category. It reports whether a row was deleted.
func (r *CategoryRepository) Delete(ctx context.Context, tx usecase.Transaction, id, ownerID string) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `DELETE FROM categories WHERE id = $1 AND owner_id = $2`

	tag, err := pgxTx.Exec(ctx, query, id, ownerID)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// List retrieves the owner's categories with pagination.
func (r *CategoryRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE owner_id = $1
		ORDER BY name
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}

		categories = append(categories, category)
	}

	return categories, rows.Err()
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		category domain.Category
		kind     string
	)

	err := row.Scan(
		&category.ID,
		&category.OwnerID,
		&category.Name,
		&kind,
		&category.Visible,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}

		return nil, err
	}

	category.Kind = domain.CategoryKind(kind)

	return &category, nil
}
