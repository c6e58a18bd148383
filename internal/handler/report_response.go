package handler

import (
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
)

// SummaryResponse represents period summary stats in API responses.
// Highest and Lowest echo record amounts as stored, without fixed precision.
type SummaryResponse struct {
	Total            string `json:"total"`
	Average          string `json:"average"`
	Highest          string `json:"highest"`
	Lowest           string `json:"lowest"`
	TransactionCount int    `json:"transactionCount"`
}

// TrendPointResponse represents one month of a trend series
type TrendPointResponse struct {
	Month string `json:"month"`
	Total string `json:"total"`
}

// CategoryBreakdownResponse represents one category's share of spending
type CategoryBreakdownResponse struct {
	CategoryID int64  `json:"categoryId"`
	Category   string `json:"category"`
	Amount     string `json:"amount"`
	Color      string `json:"color"`
	Percentage int64  `json:"percentage"`
}

// PaymentMethodResponse represents spending per payment method
type PaymentMethodResponse struct {
	Method string `json:"method"`
	Amount string `json:"amount"`
	Count  int    `json:"count"`
}

// BudgetProgressResponse represents a budget with its spend progress
type BudgetProgressResponse struct {
	BudgetID     int64  `json:"budgetId"`
	CategoryID   int64  `json:"categoryId"`
	Name         string `json:"name"`
	Icon         int    `json:"icon"`
	Month        string `json:"month"`
	Limit        string `json:"limit"`
	Spent        string `json:"spent"`
	Remaining    string `json:"remaining"`
	Percentage   string `json:"percentage"`
	IsOverBudget bool   `json:"isOverBudget"`
	IsNearLimit  bool   `json:"isNearLimit"`
	Status       string `json:"status"`
}

// BudgetOverviewResponse represents the month's budget totals
type BudgetOverviewResponse struct {
	TotalBudget       string `json:"totalBudget"`
	TotalSpent        string `json:"totalSpent"`
	Remaining         string `json:"remaining"`
	OverallPercentage string `json:"overallPercentage"`
	IsOverBudget      bool   `json:"isOverBudget"`
}

// TransactionResponse represents a recent expense
type TransactionResponse struct {
	ID            int64     `json:"id"`
	Amount        string    `json:"amount"`
	CategoryID    int64     `json:"categoryId"`
	Category      string    `json:"category"`
	Color         string    `json:"color"`
	Date          time.Time `json:"date"`
	PaymentMethod string    `json:"paymentMethod"`
	Notes         string    `json:"notes,omitempty"`
	IsRecurring   bool      `json:"isRecurring"`
}

// InsightResponse represents a generated spending insight
type InsightResponse struct {
	Type       string `json:"type"`
	Category   string `json:"category,omitempty"`
	Percentage string `json:"percentage"`
	Amount     string `json:"amount"`
	Message    string `json:"message"`
}

func toSummaryResponse(s domain.SummaryStats) SummaryResponse {
	return SummaryResponse{
		Total:            s.Total.StringFixed(2),
		Average:          s.Average.StringFixed(2),
		Highest:          s.Highest.String(),
		Lowest:           s.Lowest.String(),
		TransactionCount: s.TransactionCount,
	}
}

func toTrendResponse(points []domain.MonthlyTrendPoint) []TrendPointResponse {
	resp := make([]TrendPointResponse, len(points))
	for i, p := range points {
		resp[i] = TrendPointResponse{Month: p.Month, Total: p.Total.StringFixed(2)}
	}
	return resp
}

func toCategoryBreakdownResponse(entries []domain.CategoryBreakdownEntry) []CategoryBreakdownResponse {
	resp := make([]CategoryBreakdownResponse, len(entries))
	for i, e := range entries {
		resp[i] = CategoryBreakdownResponse{
			CategoryID: e.CategoryID,
			Category:   e.Category,
			Amount:     e.Amount.StringFixed(2),
			Color:      e.Color,
			Percentage: e.Percentage,
		}
	}
	return resp
}

func toPaymentMethodResponse(entries []domain.PaymentMethodEntry) []PaymentMethodResponse {
	resp := make([]PaymentMethodResponse, len(entries))
	for i, e := range entries {
		resp[i] = PaymentMethodResponse{
			Method: string(e.Method),
			Amount: e.Amount.StringFixed(2),
			Count:  e.Count,
		}
	}
	return resp
}

func toBudgetProgressResponse(entries []domain.BudgetProgressEntry) []BudgetProgressResponse {
	resp := make([]BudgetProgressResponse, len(entries))
	for i, b := range entries {
		resp[i] = BudgetProgressResponse{
			BudgetID:     b.BudgetID,
			CategoryID:   b.CategoryID,
			Name:         b.Name,
			Icon:         b.Icon,
			Month:        b.Month,
			Limit:        b.Limit.StringFixed(2),
			Spent:        b.Spent.StringFixed(2),
			Remaining:    b.Remaining.StringFixed(2),
			Percentage:   b.Percentage.StringFixed(2),
			IsOverBudget: b.IsOverBudget,
			IsNearLimit:  b.IsNearLimit,
			Status:       string(b.Status),
		}
	}
	return resp
}

func toBudgetOverviewResponse(o domain.BudgetOverview) BudgetOverviewResponse {
	return BudgetOverviewResponse{
		TotalBudget:       o.TotalBudget.StringFixed(2),
		TotalSpent:        o.TotalSpent.StringFixed(2),
		Remaining:         o.Remaining.StringFixed(2),
		OverallPercentage: o.OverallPercentage.StringFixed(2),
		IsOverBudget:      o.IsOverBudget,
	}
}

func toTransactionResponse(expenses []domain.Expense) []TransactionResponse {
	resp := make([]TransactionResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = TransactionResponse{
			ID:            e.ID,
			Amount:        e.Amount.StringFixed(2),
			CategoryID:    e.Category.ID,
			Category:      e.Category.Name,
			Color:         e.Category.ColorCode,
			Date:          e.Date,
			PaymentMethod: string(e.PaymentMethod),
			Notes:         e.Notes,
			IsRecurring:   e.IsRecurring,
		}
	}
	return resp
}

func toInsightResponse(insights []domain.Insight) []InsightResponse {
	resp := make([]InsightResponse, len(insights))
	for i, in := range insights {
		resp[i] = InsightResponse{
			Type:       string(in.Type),
			Category:   in.Category,
			Percentage: in.Percentage.StringFixed(2),
			Amount:     in.Amount.StringFixed(2),
			Message:    in.Message,
		}
	}
	return resp
}
