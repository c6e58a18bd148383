package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyTrendPoint is one calendar month bucket of a trend series
type MonthlyTrendPoint struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// CategoryBreakdownEntry is one category's share of a period's spending
type CategoryBreakdownEntry struct {
	CategoryID int64           `json:"categoryId"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Color      string          `json:"color"`
	Percentage int64           `json:"percentage"`
}

// PaymentMethodEntry is spending grouped by payment method
type PaymentMethodEntry struct {
	Method PaymentMethod   `json:"method"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// BudgetProgressEntry compares a budget limit with actual spend
type BudgetProgressEntry struct {
	BudgetID     int64           `json:"budgetId"`
	CategoryID   int64           `json:"categoryId"`
	Name         string          `json:"name"`
	Icon         int             `json:"icon"`
	Month        string          `json:"month"`
	Limit        decimal.Decimal `json:"limit"`
	Spent        decimal.Decimal `json:"spent"`
	Remaining    decimal.Decimal `json:"remaining"`
	Percentage   decimal.Decimal `json:"percentage"`
	IsOverBudget bool            `json:"isOverBudget"`
	IsNearLimit  bool            `json:"isNearLimit"`
	Status       BudgetStatus    `json:"status"`
}

// BudgetOverview sums budget progress across all budgets of a month
type BudgetOverview struct {
	TotalBudget       decimal.Decimal `json:"totalBudget"`
	TotalSpent        decimal.Decimal `json:"totalSpent"`
	Remaining         decimal.Decimal `json:"remaining"`
	OverallPercentage decimal.Decimal `json:"overallPercentage"`
	IsOverBudget      bool            `json:"isOverBudget"`
}

// SummaryStats are the headline numbers for a period
type SummaryStats struct {
	Total            decimal.Decimal `json:"total"`
	Average          decimal.Decimal `json:"average"`
	Highest          decimal.Decimal `json:"highest"`
	Lowest           decimal.Decimal `json:"lowest"`
	TransactionCount int             `json:"transactionCount"`
}

// DashboardStats are the stat cards shown on the dashboard
type DashboardStats struct {
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	MonthlyChange    decimal.Decimal `json:"monthlyChange"`
	HighestCategory  string          `json:"highestCategory"`
	DailyAverage     decimal.Decimal `json:"dailyAverage"`
	BudgetUsed       decimal.Decimal `json:"budgetUsed"`
	TransactionCount int             `json:"transactionCount"`
}

// InsightType tags a generated insight
type InsightType string

const (
	InsightTypeIncrease InsightType = "increase"
	InsightTypeDecrease InsightType = "decrease"
	InsightTypeWarning  InsightType = "warning"
	InsightTypeTip      InsightType = "tip"
)

// Insight is a short generated observation about spending
type Insight struct {
	Type       InsightType     `json:"type"`
	Category   string          `json:"category,omitempty"`
	Percentage decimal.Decimal `json:"percentage"`
	Amount     decimal.Decimal `json:"amount"`
	Message    string          `json:"message"`
}

// EmptyState tells the presentation layer which empty-state hint applies
type EmptyState struct {
	NoCategories        bool `json:"noCategories"`
	NoBudgets           bool `json:"noBudgets"`
	NoExpensesThisMonth bool `json:"noExpensesThisMonth"`
}

// DashboardReport is everything the dashboard renders for one refresh
type DashboardReport struct {
	GeneratedAt        time.Time                `json:"generatedAt"`
	Month              string                   `json:"month"`
	Summary            SummaryStats             `json:"summary"`
	Stats              DashboardStats           `json:"stats"`
	Trend              []MonthlyTrendPoint      `json:"trend"`
	CategoryBreakdown  []CategoryBreakdownEntry `json:"categoryBreakdown"`
	BudgetProgress     []BudgetProgressEntry    `json:"budgetProgress"`
	RecentTransactions []Expense                `json:"recentTransactions"`
	Insights           []Insight                `json:"insights"`
	Empty              EmptyState               `json:"empty"`
}

// AnalyticsReport is the analytics page for a range of completed months
type AnalyticsReport struct {
	GeneratedAt       time.Time                `json:"generatedAt"`
	RangeMonths       int                      `json:"rangeMonths"`
	From              time.Time                `json:"from"`
	To                time.Time                `json:"to"`
	Summary           SummaryStats             `json:"summary"`
	Trend             []MonthlyTrendPoint      `json:"trend"`
	CategoryBreakdown []CategoryBreakdownEntry `json:"categoryBreakdown"`
	PaymentMethods    []PaymentMethodEntry     `json:"paymentMethods"`
	Empty             EmptyState               `json:"empty"`
}

// BudgetsReport is the budgets page for the current month
type BudgetsReport struct {
	GeneratedAt time.Time             `json:"generatedAt"`
	Month       string                `json:"month"`
	Overview    BudgetOverview        `json:"overview"`
	Budgets     []BudgetProgressEntry `json:"budgets"`
	Empty       EmptyState            `json:"empty"`
}
