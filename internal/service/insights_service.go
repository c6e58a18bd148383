package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/analytics"
	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/dafibh/fortuna/insights-api/internal/metrics"
	"github.com/dafibh/fortuna/insights-api/internal/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// expenseFetch is one of the ExpenseSource reads, bound to its arguments
type expenseFetch func(ctx context.Context, session domain.Session) ([]domain.Expense, error)

// InsightsService resolves a user's data and runs the aggregation engine over it
type InsightsService struct {
	source    domain.DataSource
	engine    *analytics.Engine
	cache     domain.CacheInvalidator
	publisher websocket.EventPublisher
	now       func() time.Time
}

// NewInsightsService creates a new InsightsService.
// cache may be nil when the source is not cached.
func NewInsightsService(
	source domain.DataSource,
	engine *analytics.Engine,
	cache domain.CacheInvalidator,
	publisher websocket.EventPublisher,
) *InsightsService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &InsightsService{
		source:    source,
		engine:    engine,
		cache:     cache,
		publisher: publisher,
		now:       time.Now,
	}
}

// SetClock overrides the clock used as the report reference time
func (s *InsightsService) SetClock(now func() time.Time) {
	s.now = now
}

// Dashboard returns the dashboard for the current month
func (s *InsightsService) Dashboard(ctx context.Context, session domain.Session) (*domain.DashboardReport, error) {
	snapshot, err := s.load(ctx, session, s.source.GetSixMonthsExpenses)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report := s.engine.Dashboard(snapshot, s.now())
	metrics.ObserveReport("dashboard", time.Since(start))
	return report, nil
}

// Analytics returns the analytics page for rangeMonths completed months.
// Enough history is fetched to fill the trend window even for short ranges.
func (s *InsightsService) Analytics(ctx context.Context, session domain.Session, rangeMonths int) (*domain.AnalyticsReport, error) {
	if !domain.IsValidAnalyticsRange(rangeMonths) {
		return nil, domain.ErrInvalidRange
	}

	months := rangeMonths
	if months < analytics.DefaultTrendWindow {
		months = analytics.DefaultTrendWindow
	}
	fetch := func(ctx context.Context, session domain.Session) ([]domain.Expense, error) {
		return s.source.GetCustomExpenses(ctx, session, months)
	}

	snapshot, err := s.load(ctx, session, fetch)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report := s.engine.Analytics(snapshot, s.now(), rangeMonths)
	metrics.ObserveReport("analytics", time.Since(start))
	return report, nil
}

// Budgets returns budget progress for the current month
func (s *InsightsService) Budgets(ctx context.Context, session domain.Session) (*domain.BudgetsReport, error) {
	snapshot, err := s.load(ctx, session, s.source.GetCurrentExpenses)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report := s.engine.Budgets(snapshot, s.now())
	metrics.ObserveReport("budgets", time.Since(start))
	return report, nil
}

// Refresh drops the user's cached reads, recomputes the dashboard and notifies
// the user's open connections
func (s *InsightsService) Refresh(ctx context.Context, session domain.Session) (*domain.DashboardReport, error) {
	if session.UserID == "" {
		return nil, domain.ErrUserRequired
	}
	if s.cache != nil {
		s.cache.Invalidate(session.UserID)
	}

	report, err := s.Dashboard(ctx, session)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(session.UserID, websocket.DashboardRefreshed(NewRefreshedPayload(report)))
	for _, b := range report.BudgetProgress {
		switch b.Status {
		case domain.BudgetStatusOverBudget:
			s.publisher.Publish(session.UserID, websocket.BudgetExceeded(NewBudgetAlertPayload(b)))
		case domain.BudgetStatusNearLimit:
			s.publisher.Publish(session.UserID, websocket.BudgetNearLimit(NewBudgetAlertPayload(b)))
		}
	}

	log.Info().
		Str("user_id", session.UserID).
		Int("transactions", report.Summary.TransactionCount).
		Msg("Dashboard refreshed")

	return report, nil
}

// load fetches expenses, categories and budgets concurrently.
// The engine only ever sees a fully resolved snapshot.
func (s *InsightsService) load(ctx context.Context, session domain.Session, expenses expenseFetch) (analytics.Snapshot, error) {
	if session.UserID == "" {
		return analytics.Snapshot{}, domain.ErrUserRequired
	}

	var snapshot analytics.Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		records, err := expenses(gctx, session)
		if err != nil {
			return fmt.Errorf("fetch expenses: %w", err)
		}
		snapshot.Expenses = records
		return nil
	})
	g.Go(func() error {
		categories, err := s.source.GetCategories(gctx, session)
		if err != nil {
			return fmt.Errorf("fetch categories: %w", err)
		}
		snapshot.Categories = categories
		return nil
	})
	g.Go(func() error {
		budgets, err := s.source.GetBudgets(gctx, session)
		if err != nil {
			return fmt.Errorf("fetch budgets: %w", err)
		}
		snapshot.Budgets = budgets
		return nil
	})

	if err := g.Wait(); err != nil {
		if !errors.Is(err, domain.ErrUnauthorized) {
			log.Error().Err(err).Str("user_id", session.UserID).Msg("Failed to load insights data")
		}
		return analytics.Snapshot{}, err
	}
	return snapshot, nil
}
