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

const expenseColumns = `
	e.id, e.amount, e.currency, e.date, e.payment_method, e.notes, e.is_recurring,
	c.id, c.name, c.color_code, c.category_icon`

const expensesBetweenQuery = `
SELECT` + expenseColumns + `
FROM expenses e
LEFT JOIN categories c ON c.id = e.category_id
WHERE e.userid = $1 AND e.date >= $2 AND e.date < $3
ORDER BY e.date, e.id`

const expensesAfterQuery = `
SELECT` + expenseColumns + `
FROM expenses e
LEFT JOIN categories c ON c.id = e.category_id
WHERE e.userid = $1 AND e.date > $2
ORDER BY e.date, e.id`

// ExpenseRepository implements domain.ExpenseSource over the backend's expenses table
type ExpenseRepository struct {
	pool     *pgxpool.Pool
	location *time.Location
	now      func() time.Time
}

// NewExpenseRepository creates a new ExpenseRepository.
// loc is the zone the zone-less date column is written in.
func NewExpenseRepository(pool *pgxpool.Pool, loc *time.Location) *ExpenseRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &ExpenseRepository{
		pool:     pool,
		location: loc,
		now:      time.Now,
	}
}

// GetSixMonthsExpenses returns expenses dated after the same instant six months ago
func (r *ExpenseRepository) GetSixMonthsExpenses(ctx context.Context, session domain.Session) ([]domain.Expense, error) {
	since := r.now().In(r.location).AddDate(0, -6, 0)
	rows, err := r.pool.Query(ctx, expensesAfterQuery, session.UserID, localTimestamp(since, r.location))
	if err != nil {
		return nil, fmt.Errorf("query six months expenses: %w", err)
	}
	return r.collect(rows)
}

// GetCustomExpenses returns expenses in [first of month-months, first of current month)
func (r *ExpenseRepository) GetCustomExpenses(ctx context.Context, session domain.Session, months int) ([]domain.Expense, error) {
	end := util.MonthStart(r.now(), r.location)
	start := end.AddDate(0, -months, 0)
	return r.between(ctx, session.UserID, start, end)
}

// GetCurrentExpenses returns expenses in the current calendar month
func (r *ExpenseRepository) GetCurrentExpenses(ctx context.Context, session domain.Session) ([]domain.Expense, error) {
	start := util.MonthStart(r.now(), r.location)
	return r.between(ctx, session.UserID, start, start.AddDate(0, 1, 0))
}

func (r *ExpenseRepository) between(ctx context.Context, userID string, start, end time.Time) ([]domain.Expense, error) {
	rows, err := r.pool.Query(ctx, expensesBetweenQuery, userID,
		localTimestamp(start, r.location), localTimestamp(end, r.location))
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	return r.collect(rows)
}

func (r *ExpenseRepository) collect(rows pgx.Rows) ([]domain.Expense, error) {
	expenses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Expense, error) {
		var (
			e             domain.Expense
			amount        pgtype.Numeric
			currency      pgtype.Text
			date          pgtype.Timestamp
			paymentMethod pgtype.Text
			notes         pgtype.Text
			isRecurring   pgtype.Bool
			categoryID    pgtype.Int8
			categoryName  pgtype.Text
			colorCode     pgtype.Text
			categoryIcon  pgtype.Int4
		)
		if err := row.Scan(&e.ID, &amount, &currency, &date, &paymentMethod, &notes, &isRecurring,
			&categoryID, &categoryName, &colorCode, &categoryIcon); err != nil {
			return domain.Expense{}, err
		}

		e.Amount = pgNumericToDecimal(amount)
		e.Currency = currency.String
		e.Date = pgLocalTimestamp(date, r.location)
		e.PaymentMethod = domain.PaymentMethod(paymentMethod.String)
		e.Notes = notes.String
		e.IsRecurring = isRecurring.Valid && isRecurring.Bool
		e.Category = domain.CategoryRef{
			ID:           categoryID.Int64,
			Name:         categoryName.String,
			ColorCode:    colorCode.String,
			CategoryIcon: int(categoryIcon.Int32),
		}
		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan expenses: %w", err)
	}
	return expenses, nil
}
