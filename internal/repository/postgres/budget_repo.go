package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/dafibh/fortuna/insights-api/internal/util"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const budgetsQuery = `
SELECT b.id, b.month, b.amount, b.currency, b.rollover_enabled,
	c.id, c.name, c.color_code, c.category_icon
FROM budgets b
LEFT JOIN categories c ON c.id = b.category_id
WHERE b.userid = $1 AND b.month = $2
ORDER BY b.id`

// BudgetRepository implements domain.BudgetSource over the budgets table
type BudgetRepository struct {
	pool     *pgxpool.Pool
	location *time.Location
	now      func() time.Time
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool, loc *time.Location) *BudgetRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &BudgetRepository{
		pool:     pool,
		location: loc,
		now:      time.Now,
	}
}

// GetBudgets returns the budgets labelled with the current month, e.g. "October 2026"
func (r *BudgetRepository) GetBudgets(ctx context.Context, session domain.Session) ([]domain.Budget, error) {
	month := util.BudgetMonthLabel(r.now().In(r.location))
	rows, err := r.pool.Query(ctx, budgetsQuery, session.UserID, month)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}

	budgets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Budget, error) {
		var (
			b            domain.Budget
			amount       pgtype.Numeric
			currency     pgtype.Text
			rollOver     pgtype.Bool
			categoryID   pgtype.Int8
			categoryName pgtype.Text
			colorCode    pgtype.Text
			categoryIcon pgtype.Int4
		)
		if err := row.Scan(&b.ID, &b.Month, &amount, &currency, &rollOver,
			&categoryID, &categoryName, &colorCode, &categoryIcon); err != nil {
			return domain.Budget{}, err
		}
		b.Amount = pgNumericToDecimal(amount)
		b.Currency = currency.String
		b.RollOverEnabled = rollOver.Valid && rollOver.Bool
		b.Category = domain.CategoryRef{
			ID:           categoryID.Int64,
			Name:         categoryName.String,
			ColorCode:    colorCode.String,
			CategoryIcon: int(categoryIcon.Int32),
		}
		return b, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan budgets: %w", err)
	}
	return budgets, nil
}
