package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes.
// userMiddleware runs on every per-user route, in order (session first, then rate limiting).
// refreshMiddleware runs after it on POST /refresh only.
func RegisterRoutes(e *echo.Echo, userMiddleware, refreshMiddleware []echo.MiddlewareFunc, dashboardHandler *DashboardHandler, analyticsHandler *AnalyticsHandler, budgetHandler *BudgetHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Per-user insight routes (session required)
	users := api.Group("/users/:userId", userMiddleware...)
	users.GET("/dashboard", dashboardHandler.GetDashboard)
	users.POST("/refresh", dashboardHandler.Refresh, refreshMiddleware...)
	users.GET("/analytics", analyticsHandler.GetAnalytics)
	users.GET("/budgets/progress", budgetHandler.GetProgress)

	// WebSocket endpoint authenticates via query params
	if wsHandler != nil {
		e.GET("/ws", wsHandler.HandleWS)
	}
}
