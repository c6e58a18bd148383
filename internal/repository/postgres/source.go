package postgres

import (
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Source reads directly from the expense backend's database
type Source struct {
	*ExpenseRepository
	*CategoryRepository
	*BudgetRepository
}

var _ domain.DataSource = (*Source)(nil)

// NewSource creates a Source over pool
func NewSource(pool *pgxpool.Pool, loc *time.Location) *Source {
	return &Source{
		ExpenseRepository:  NewExpenseRepository(pool, loc),
		CategoryRepository: NewCategoryRepository(pool),
		BudgetRepository:   NewBudgetRepository(pool, loc),
	}
}
