package handler

import (
	"errors"
	"net/http"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://insights.fortuna.app/errors/validation"
	ErrorTypeUnauthorized = "https://insights.fortuna.app/errors/unauthorized"
	ErrorTypeBadGateway   = "https://insights.fortuna.app/errors/upstream"
	ErrorTypeInternal     = "https://insights.fortuna.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewBadGatewayError creates a bad gateway error response for upstream failures
func NewBadGatewayError(c echo.Context, detail string) error {
	return c.JSON(http.StatusBadGateway, ProblemDetails{
		Type:     ErrorTypeBadGateway,
		Title:    "Bad Gateway",
		Status:   http.StatusBadGateway,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// handleServiceError maps a service error onto its problem response
func handleServiceError(c echo.Context, err error, action string) error {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return NewUnauthorizedError(c, "Expense backend rejected the session token")
	case errors.Is(err, domain.ErrInvalidRange):
		return NewValidationError(c, "Invalid range", []ValidationError{{Field: "range", Message: "Must be one of 1, 3, 6 or 12"}})
	case errors.Is(err, domain.ErrUserRequired):
		return NewValidationError(c, err.Error(), []ValidationError{{Field: "userId", Message: "Required"}})
	case errors.Is(err, domain.ErrUpstream):
		return NewBadGatewayError(c, "Failed to "+action+": expense backend unavailable")
	default:
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Failed to " + action)
		return NewInternalError(c, "Failed to "+action)
	}
}
