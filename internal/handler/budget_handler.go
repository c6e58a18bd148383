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

// BudgetHandler handles budget progress HTTP requests
type BudgetHandler struct {
	insightsService *service.InsightsService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(insightsService *service.InsightsService) *BudgetHandler {
	return &BudgetHandler{insightsService: insightsService}
}

// BudgetsResponse represents the budget progress for the current month
type BudgetsResponse struct {
	GeneratedAt    time.Time                `json:"generatedAt"`
	Month          string                   `json:"month"`
	Currency       string                   `json:"currency"`
	CurrencySymbol string                   `json:"currencySymbol"`
	Overview       BudgetOverviewResponse   `json:"overview"`
	Budgets        []BudgetProgressResponse `json:"budgets"`
	Empty          domain.EmptyState        `json:"empty"`
}

// GetProgress handles GET /api/v1/users/:userId/budgets/progress
func (h *BudgetHandler) GetProgress(c echo.Context) error {
	session, ok := middleware.GetSession(c)
	if !ok {
		return NewUnauthorizedError(c, "Session required")
	}

	report, err := h.insightsService.Budgets(c.Request().Context(), session)
	if err != nil {
		return handleServiceError(c, err, "get budget progress")
	}

	return c.JSON(http.StatusOK, BudgetsResponse{
		GeneratedAt:    report.GeneratedAt,
		Month:          report.Month,
		Currency:       session.Currency,
		CurrencySymbol: analytics.CurrencySymbol(session.Currency),
		Overview:       toBudgetOverviewResponse(report.Overview),
		Budgets:        toBudgetProgressResponse(report.Budgets),
		Empty:          report.Empty,
	})
}
