package analytics

import (
	"sort"
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/dafibh/fortuna/insights-api/internal/util"
)

const (
	// DefaultTrendWindow is the number of months in a trend series
	DefaultTrendWindow = 6
	// DefaultRecentLimit caps the dashboard's recent transactions list
	DefaultRecentLimit = 5
)

// Snapshot is the immutable input of one engine run
type Snapshot struct {
	Expenses   []domain.Expense
	Categories []domain.Category
	Budgets    []domain.Budget
}

// Options configure an Engine
type Options struct {
	Calendar    Calendar
	Join        CategoryJoin
	TrendWindow int
	RecentLimit int
}

// Engine composes the aggregators into page reports
type Engine struct {
	cal         Calendar
	join        CategoryJoin
	trendWindow int
	recentLimit int
}

// NewEngine creates a new Engine
func NewEngine(opts Options) *Engine {
	e := &Engine{
		cal:         opts.Calendar,
		join:        opts.Join,
		trendWindow: opts.TrendWindow,
		recentLimit: opts.RecentLimit,
	}
	if e.trendWindow <= 0 {
		e.trendWindow = DefaultTrendWindow
	}
	if e.recentLimit <= 0 {
		e.recentLimit = DefaultRecentLimit
	}
	return e
}

// Calendar returns the calendar the engine buckets with
func (e *Engine) Calendar() Calendar {
	return e.cal
}

// Dashboard builds the dashboard for the month containing now.
// s.Expenses is expected to cover at least the trend window.
func (e *Engine) Dashboard(s Snapshot, now time.Time) *domain.DashboardReport {
	monthStart := e.cal.MonthStart(now)
	thisMonth := e.cal.InMonth(s.Expenses, now)
	lastMonth := e.cal.InMonth(s.Expenses, util.AddMonths(monthStart, -1))

	summary := Summarize(thisMonth)
	breakdown := e.join.CategoryBreakdown(thisMonth, s.Categories, &summary.Total)
	progress := e.join.BudgetProgress(s.Budgets, thisMonth)
	overview := BudgetOverview(progress)

	return &domain.DashboardReport{
		GeneratedAt:        now,
		Month:              e.cal.Label(now),
		Summary:            summary,
		Stats:              DashboardStats(summary, Summarize(lastMonth), breakdown, overview, now, now.In(monthStart.Location()).Day()),
		Trend:              e.cal.MonthlyTrend(s.Expenses, now, e.trendWindow),
		CategoryBreakdown:  breakdown,
		BudgetProgress:     progress,
		RecentTransactions: e.recent(thisMonth),
		Insights:           e.join.Insights(thisMonth, lastMonth, s.Categories, overview, breakdown),
		Empty:              emptyState(s, len(thisMonth)),
	}
}

// Analytics builds the analytics page for the rangeMonths completed months before now.
// The trend covers max(trend window, rangeMonths) months ending at the previous month
// and buckets every snapshot record that falls inside it.
func (e *Engine) Analytics(s Snapshot, now time.Time, rangeMonths int) *domain.AnalyticsReport {
	if rangeMonths <= 0 {
		rangeMonths = domain.DefaultAnalyticsRange
	}
	to := e.cal.MonthStart(now)
	from := util.AddMonths(to, -rangeMonths)
	period := InRange(s.Expenses, from, to)

	window := e.trendWindow
	if rangeMonths > window {
		window = rangeMonths
	}

	summary := Summarize(period)
	return &domain.AnalyticsReport{
		GeneratedAt:       now,
		RangeMonths:       rangeMonths,
		From:              from,
		To:                to,
		Summary:           summary,
		Trend:             e.cal.MonthlyTrend(s.Expenses, util.AddMonths(to, -1), window),
		CategoryBreakdown: e.join.CategoryBreakdown(period, s.Categories, &summary.Total),
		PaymentMethods:    PaymentMethods(period),
		Empty:             emptyState(s, len(period)),
	}
}

// Budgets builds the budgets page for the month containing now
func (e *Engine) Budgets(s Snapshot, now time.Time) *domain.BudgetsReport {
	thisMonth := e.cal.InMonth(s.Expenses, now)
	progress := e.join.BudgetProgress(s.Budgets, thisMonth)

	return &domain.BudgetsReport{
		GeneratedAt: now,
		Month:       util.BudgetMonthLabel(e.cal.MonthStart(now)),
		Overview:    BudgetOverview(progress),
		Budgets:     progress,
		Empty:       emptyState(s, len(thisMonth)),
	}
}

// recent returns the month's records newest first, capped at the recent limit
func (e *Engine) recent(records []domain.Expense) []domain.Expense {
	sorted := make([]domain.Expense, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if len(sorted) > e.recentLimit {
		sorted = sorted[:e.recentLimit]
	}
	return sorted
}

func emptyState(s Snapshot, periodCount int) domain.EmptyState {
	return domain.EmptyState{
		NoCategories:        len(s.Categories) == 0,
		NoBudgets:           len(s.Budgets) == 0,
		NoExpensesThisMonth: periodCount == 0,
	}
}
