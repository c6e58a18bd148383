package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/analytics"
	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/dafibh/fortuna/insights-api/internal/middleware"
	"github.com/dafibh/fortuna/insights-api/internal/service"
	"github.com/labstack/echo/v4"
)

// AnalyticsHandler handles analytics HTTP requests
type AnalyticsHandler struct {
	insightsService *service.InsightsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(insightsService *service.InsightsService) *AnalyticsHandler {
	return &AnalyticsHandler{insightsService: insightsService}
}

// AnalyticsResponse represents the analytics API response
type AnalyticsResponse struct {
	GeneratedAt       time.Time                   `json:"generatedAt"`
	RangeMonths       int                         `json:"rangeMonths"`
	From              time.Time                   `json:"from"`
	To                time.Time                   `json:"to"`
	Currency          string                      `json:"currency"`
	CurrencySymbol    string                      `json:"currencySymbol"`
	Summary           SummaryResponse             `json:"summary"`
	Trend             []TrendPointResponse        `json:"trend"`
	CategoryBreakdown []CategoryBreakdownResponse `json:"categoryBreakdown"`
	PaymentMethods    []PaymentMethodResponse     `json:"paymentMethods"`
	Empty             domain.EmptyState           `json:"empty"`
}

// GetAnalytics handles GET /api/v1/users/:userId/analytics
// Accepts an optional range query param (1, 3, 6 or 12 months, default 6)
func (h *AnalyticsHandler) GetAnalytics(c echo.Context) error {
	session, ok := middleware.GetSession(c)
	if !ok {
		return NewUnauthorizedError(c, "Session required")
	}

	rangeMonths := domain.DefaultAnalyticsRange
	if rangeStr := c.QueryParam("range"); rangeStr != "" {
		parsed, err := strconv.Atoi(rangeStr)
		if err != nil {
			return NewValidationError(c, "Invalid range format", []ValidationError{{Field: "range", Message: "Must be a valid integer"}})
		}
		rangeMonths = parsed
	}

	report, err := h.insightsService.Analytics(c.Request().Context(), session, rangeMonths)
	if err != nil {
		return handleServiceError(c, err, "get analytics")
	}

	return c.JSON(http.StatusOK, AnalyticsResponse{
		GeneratedAt:       report.GeneratedAt,
		RangeMonths:       report.RangeMonths,
		From:              report.From,
		To:                report.To,
		Currency:          session.Currency,
		CurrencySymbol:    analytics.CurrencySymbol(session.Currency),
		Summary:           toSummaryResponse(report.Summary),
		Trend:             toTrendResponse(report.Trend),
		CategoryBreakdown: toCategoryBreakdownResponse(report.CategoryBreakdown),
		PaymentMethods:    toPaymentMethodResponse(report.PaymentMethods),
		Empty:             report.Empty,
	})
}
