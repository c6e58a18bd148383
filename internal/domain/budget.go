package domain

import "github.com/shopspring/decimal"

// Budget is a monthly spending limit for one category.
// Month uses the backend's "January 2006" label.
type Budget struct {
	ID              int64           `json:"id"`
	Category        CategoryRef     `json:"category"`
	Month           string          `json:"month"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency,omitempty"`
	RollOverEnabled bool            `json:"rollOverEnabled"`
}

// BudgetStatus classifies spend against a budget limit
type BudgetStatus string

const (
	BudgetStatusOnTrack    BudgetStatus = "on_track"
	BudgetStatusNearLimit  BudgetStatus = "near_limit"
	BudgetStatusOverBudget BudgetStatus = "over_budget"
)

// NearLimitThreshold is the percentage of a limit at which a budget is near its limit
const NearLimitThreshold = 80
