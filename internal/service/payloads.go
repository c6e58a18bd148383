package service

import "github.com/dafibh/fortuna/insights-api/internal/domain"

// RefreshedPayload is the body of a dashboard.refreshed event
type RefreshedPayload struct {
	Month            string `json:"month"`
	Total            string `json:"total"`
	TransactionCount int    `json:"transactionCount"`
	BudgetUsed       string `json:"budgetUsed"`
	HighestCategory  string `json:"highestCategory"`
}

// NewRefreshedPayload summarises a dashboard for push notification
func NewRefreshedPayload(r *domain.DashboardReport) RefreshedPayload {
	return RefreshedPayload{
		Month:            r.Month,
		Total:            r.Summary.Total.StringFixed(2),
		TransactionCount: r.Summary.TransactionCount,
		BudgetUsed:       r.Stats.BudgetUsed.StringFixed(2),
		HighestCategory:  r.Stats.HighestCategory,
	}
}

// BudgetAlertPayload is the body of budget.exceeded and budget.near_limit events
type BudgetAlertPayload struct {
	BudgetID   int64  `json:"budgetId"`
	CategoryID int64  `json:"categoryId"`
	Name       string `json:"name"`
	Limit      string `json:"limit"`
	Spent      string `json:"spent"`
	Percentage string `json:"percentage"`
}

// NewBudgetAlertPayload builds an alert from a progress entry
func NewBudgetAlertPayload(b domain.BudgetProgressEntry) BudgetAlertPayload {
	return BudgetAlertPayload{
		BudgetID:   b.BudgetID,
		CategoryID: b.CategoryID,
		Name:       b.Name,
		Limit:      b.Limit.StringFixed(2),
		Spent:      b.Spent.StringFixed(2),
		Percentage: b.Percentage.StringFixed(2),
	}
}
