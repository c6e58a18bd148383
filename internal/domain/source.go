package domain

import "context"

// ExpenseSource fetches expense records for a user
type ExpenseSource interface {
	// GetSixMonthsExpenses returns expenses dated within the last six months
	GetSixMonthsExpenses(ctx context.Context, session Session) ([]Expense, error)
	// GetCustomExpenses returns expenses for the given number of completed months
	// before the current one
	GetCustomExpenses(ctx context.Context, session Session, months int) ([]Expense, error)
	// GetCurrentExpenses returns expenses for the current calendar month
	GetCurrentExpenses(ctx context.Context, session Session) ([]Expense, error)
}

// CategorySource fetches the category catalog for a user
type CategorySource interface {
	GetCategories(ctx context.Context, session Session) ([]Category, error)
}

// BudgetSource fetches the current month's budgets for a user
type BudgetSource interface {
	GetBudgets(ctx context.Context, session Session) ([]Budget, error)
}

// DataSource is the complete read contract the insights services consume
type DataSource interface {
	ExpenseSource
	CategorySource
	BudgetSource
}

// CacheInvalidator drops cached reads for a user
type CacheInvalidator interface {
	Invalidate(userID string)
}
