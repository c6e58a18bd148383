package middleware

import (
	"context"
	"strings"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/labstack/echo/v4"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// SessionKey is the context key for the request's domain.Session
	SessionKey contextKey = "session"
)

const (
	// UserIDParam is the path parameter carrying the user id
	UserIDParam = "userId"
	// CurrencyHeader selects the display currency for a request
	CurrencyHeader = "X-Display-Currency"
)

// Session returns an Echo middleware that builds the explicit per-request
// session from the path, the bearer token and the display currency header.
// Token validity is decided by the expense backend on the first read.
func Session(defaultCurrency string) echo.MiddlewareFunc {
	defaultCurrency = strings.ToUpper(strings.TrimSpace(defaultCurrency))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get("Authorization"))
			if !ok {
				return unauthorizedError(c, "Missing or invalid authorization header")
			}

			userID := strings.TrimSpace(c.Param(UserIDParam))
			if userID == "" {
				return validationError(c, domain.ErrUserRequired.Error())
			}

			currency := strings.ToUpper(strings.TrimSpace(c.Request().Header.Get(CurrencyHeader)))
			if currency == "" {
				currency = defaultCurrency
			}

			session := domain.Session{
				UserID:   userID,
				Currency: currency,
				Token:    token,
			}
			ctx := context.WithValue(c.Request().Context(), SessionKey, session)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetSession extracts the session from the context
func GetSession(c echo.Context) (domain.Session, bool) {
	session, ok := c.Request().Context().Value(SessionKey).(domain.Session)
	return session, ok
}

// GetUserID extracts the session's user id from the context
func GetUserID(c echo.Context) string {
	session, _ := GetSession(c)
	return session.UserID
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
