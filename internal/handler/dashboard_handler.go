package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/analytics"
	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/dafibh/fortuna/insights-api/internal/middleware"
	"github.com/dafibh/fortuna/insights-api/internal/service"
	"github.com/labstack/echo/v4"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	insightsService *service.InsightsService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(insightsService *service.InsightsService) *DashboardHandler {
	return &DashboardHandler{
		insightsService: insightsService,
	}
}

// DashboardStatsResponse represents the dashboard stat cards
type DashboardStatsResponse struct {
	TotalExpenses    string `json:"totalExpenses"`
	MonthlyChange    string `json:"monthlyChange"`
	HighestCategory  string `json:"highestCategory"`
	DailyAverage     string `json:"dailyAverage"`
	BudgetUsed       string `json:"budgetUsed"`
	TransactionCount int    `json:"transactionCount"`
}

// DashboardResponse represents the dashboard API response
type DashboardResponse struct {
	GeneratedAt        time.Time                   `json:"generatedAt"`
	Month              string                      `json:"month"`
	Currency           string                      `json:"currency"`
	CurrencySymbol     string                      `json:"currencySymbol"`
	Summary            SummaryResponse             `json:"summary"`
	Stats              DashboardStatsResponse      `json:"stats"`
	Trend              []TrendPointResponse        `json:"trend"`
	CategoryBreakdown  []CategoryBreakdownResponse `json:"categoryBreakdown"`
	BudgetProgress     []BudgetProgressResponse    `json:"budgetProgress"`
	RecentTransactions []TransactionResponse       `json:"recentTransactions"`
	Insights           []InsightResponse           `json:"insights"`
	Empty              domain.EmptyState           `json:"empty"`
}

// GetDashboard handles GET /api/v1/users/:userId/dashboard
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	session, ok := middleware.GetSession(c)
	if !ok {
		return NewUnauthorizedError(c, "Session required")
	}

	report, err := h.insightsService.Dashboard(c.Request().Context(), session)
	if err != nil {
		return handleServiceError(c, err, "get dashboard")
	}

	return c.JSON(http.StatusOK, toDashboardResponse(report, session.Currency))
}

// Refresh handles POST /api/v1/users/:userId/refresh
// Drops cached reads, recomputes the dashboard and pushes it to open connections
func (h *DashboardHandler) Refresh(c echo.Context) error {
	session, ok := middleware.GetSession(c)
	if !ok {
		return NewUnauthorizedError(c, "Session required")
	}

	report, err := h.insightsService.Refresh(c.Request().Context(), session)
	if err != nil {
		return handleServiceError(c, err, "refresh dashboard")
	}

	return c.JSON(http.StatusOK, toDashboardResponse(report, session.Currency))
}

func toDashboardResponse(r *domain.DashboardReport, currency string) DashboardResponse {
	return DashboardResponse{
		GeneratedAt:    r.GeneratedAt,
		Month:          r.Month,
		Currency:       currency,
		CurrencySymbol: analytics.CurrencySymbol(currency),
		Summary:        toSummaryResponse(r.Summary),
		Stats: DashboardStatsResponse{
			TotalExpenses:    r.Stats.TotalExpenses.StringFixed(2),
			MonthlyChange:    r.Stats.MonthlyChange.StringFixed(2),
			HighestCategory:  r.Stats.HighestCategory,
			DailyAverage:     r.Stats.DailyAverage.StringFixed(2),
			BudgetUsed:       r.Stats.BudgetUsed.StringFixed(2),
			TransactionCount: r.Stats.TransactionCount,
		},
		Trend:              toTrendResponse(r.Trend),
		CategoryBreakdown:  toCategoryBreakdownResponse(r.CategoryBreakdown),
		BudgetProgress:     toBudgetProgressResponse(r.BudgetProgress),
		RecentTransactions: toTransactionResponse(r.RecentTransactions),
		Insights:           toInsightResponse(r.Insights),
		Empty:              r.Empty,
	}
}
