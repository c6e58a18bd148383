package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/dafibh/fortuna/insights-api/internal/metrics"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes caps how much of a backend response is read
const maxBodyBytes = 8 << 20

// Client reads expenses, categories and budgets from the expense backend's REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	location   *time.Location
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLocation sets the zone used for the backend's zone-less date-times
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		if loc != nil {
			c.location = loc
		}
	}
}

// NewClient creates a new Client
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		location:   time.UTC,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetSixMonthsExpenses returns the user's expenses for the last six months
func (c *Client) GetSixMonthsExpenses(ctx context.Context, session domain.Session) ([]domain.Expense, error) {
	var raw []expenseWire
	if err := c.get(ctx, session, "getSixMonthsExpenses", "/expenses/getSixMonthsExpenses/"+url.PathEscape(session.UserID), &raw); err != nil {
		return nil, err
	}
	return decodeExpenses(raw, c.location)
}

// GetCustomExpenses returns the user's expenses for the given number of completed months
func (c *Client) GetCustomExpenses(ctx context.Context, session domain.Session, months int) ([]domain.Expense, error) {
	var raw []expenseWire
	path := "/expenses/getCustomExpenses/" + url.PathEscape(session.UserID) + "/" + strconv.Itoa(months)
	if err := c.get(ctx, session, "getCustomExpenses", path, &raw); err != nil {
		return nil, err
	}
	return decodeExpenses(raw, c.location)
}

// GetCurrentExpenses returns the user's expenses for the current month
func (c *Client) GetCurrentExpenses(ctx context.Context, session domain.Session) ([]domain.Expense, error) {
	var raw []expenseWire
	if err := c.get(ctx, session, "getCurrentExpenses", "/expenses/getCurrentExpenses/"+url.PathEscape(session.UserID), &raw); err != nil {
		return nil, err
	}
	return decodeExpenses(raw, c.location)
}

// GetCategories returns the user's category catalog
func (c *Client) GetCategories(ctx context.Context, session domain.Session) ([]domain.Category, error) {
	var raw []categoryWire
	if err := c.get(ctx, session, "getCategories", "/category/getCategories/"+url.PathEscape(session.UserID), &raw); err != nil {
		return nil, err
	}
	return decodeCategories(raw), nil
}

// GetBudgets returns the user's budgets for the current month
func (c *Client) GetBudgets(ctx context.Context, session domain.Session) ([]domain.Budget, error) {
	var raw []budgetWire
	if err := c.get(ctx, session, "getBudgets", "/budgets/getBudgets/"+url.PathEscape(session.UserID), &raw); err != nil {
		return nil, err
	}
	return decodeBudgets(raw), nil
}

// VerifyToken checks a bearer token against the backend's secured probe endpoint
func (c *Client) VerifyToken(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrUnauthorized
	}
	resp, err := c.do(ctx, domain.Session{Token: token}, "me", "/auth/me")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	return nil
}

// get fetches path and decodes the envelope's data into out
func (c *Client) get(ctx context.Context, session domain.Session, endpoint, path string, out any) error {
	resp, err := c.do(ctx, session, endpoint, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&env); err != nil {
		return fmt.Errorf("%w: %s: decode response: %v", domain.ErrUpstream, endpoint, err)
	}
	if env.Errors != "" {
		return fmt.Errorf("%w: %s: %s", domain.ErrUpstream, endpoint, env.Errors)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %s: decode data: %v", domain.ErrUpstream, endpoint, err)
	}
	return nil
}

// do issues an authenticated GET and maps transport and status failures to domain errors.
// On success the caller owns the response body.
func (c *Client) do(ctx context.Context, session domain.Session, endpoint, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUpstream, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(endpoint, "error", time.Since(start))
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		log.Warn().Err(err).Str("endpoint", endpoint).Msg("Upstream request failed")
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUpstream, endpoint, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		metrics.ObserveUpstream(endpoint, "unauthorized", time.Since(start))
		resp.Body.Close()
		return nil, domain.ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		metrics.ObserveUpstream(endpoint, "status_"+strconv.Itoa(resp.StatusCode), time.Since(start))
		resp.Body.Close()
		log.Warn().Int("status", resp.StatusCode).Str("endpoint", endpoint).Msg("Upstream returned an error status")
		return nil, fmt.Errorf("%w: %s: status %d", domain.ErrUpstream, endpoint, resp.StatusCode)
	}

	metrics.ObserveUpstream(endpoint, "ok", time.Since(start))
	return resp, nil
}
