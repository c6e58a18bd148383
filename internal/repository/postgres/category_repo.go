package postgres

import (
	"context"
	"fmt"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoriesQuery = `
SELECT id, name, color_code, category_icon, budget
FROM categories
WHERE userid = $1
ORDER BY id`

// CategoryRepository implements domain.CategorySource over the categories table
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// GetCategories returns the user's categories in id order
func (r *CategoryRepository) GetCategories(ctx context.Context, session domain.Session) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, categoriesQuery, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Category, error) {
		var (
			c         domain.Category
			colorCode pgtype.Text
			icon      pgtype.Int4
			budget    pgtype.Numeric
		)
		if err := row.Scan(&c.ID, &c.Name, &colorCode, &icon, &budget); err != nil {
			return domain.Category{}, err
		}
		c.ColorCode = colorCode.String
		c.CategoryIcon = int(icon.Int32)
		c.Budget = pgNumericToDecimalPtr(budget)
		return c, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan categories: %w", err)
	}
	return categories, nil
}
