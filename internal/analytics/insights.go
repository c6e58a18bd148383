package analytics

import (
	"fmt"
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/dafibh/fortuna/insights-api/internal/util"
	"github.com/shopspring/decimal"
)

// DashboardStats builds the stat cards for the month containing ref.
// daysElapsed counts ref's day when ref is inside the month, otherwise the whole month.
func DashboardStats(
	summary domain.SummaryStats,
	lastMonth domain.SummaryStats,
	breakdown []domain.CategoryBreakdownEntry,
	overview domain.BudgetOverview,
	ref time.Time,
	daysElapsed int,
) domain.DashboardStats {
	if daysElapsed <= 0 {
		daysElapsed = util.DaysInMonth(ref)
	}

	return domain.DashboardStats{
		TotalExpenses:    summary.Total,
		MonthlyChange:    ratioPercent(summary.Total.Sub(lastMonth.Total), lastMonth.Total).Round(2),
		HighestCategory:  highestCategory(breakdown),
		DailyAverage:     Round2(summary.Total.Div(decimal.NewFromInt(int64(daysElapsed)))),
		BudgetUsed:       ratioPercent(summary.Total, overview.TotalBudget).Round(2),
		TransactionCount: summary.TransactionCount,
	}
}

// highestCategory returns the name of the largest entry; the first one wins ties
func highestCategory(breakdown []domain.CategoryBreakdownEntry) string {
	var top *domain.CategoryBreakdownEntry
	for i := range breakdown {
		if top == nil || breakdown[i].Amount.GreaterThan(top.Amount) {
			top = &breakdown[i]
		}
	}
	if top == nil {
		return ""
	}
	return top.Category
}

// Insights compares this month with last month per category and against the budget.
// At most one insight of each type is produced, in the order increase, decrease, warning, tip.
func (j CategoryJoin) Insights(
	thisMonth, lastMonth []domain.Expense,
	categories []domain.Category,
	overview domain.BudgetOverview,
	breakdown []domain.CategoryBreakdownEntry,
) []domain.Insight {
	insights := make([]domain.Insight, 0, 4)

	current := j.CategoryTotals(thisMonth, categories, nil)
	previous := j.CategoryTotals(lastMonth, categories, nil)

	var up, down *domain.Insight
	for i := range current {
		before := previous[i].Amount
		now := current[i].Amount
		if !before.IsPositive() || now.Equal(before) {
			continue
		}
		change := ratioPercent(now.Sub(before), before).Abs().Round(0)
		if change.IsZero() {
			continue
		}
		if now.GreaterThan(before) {
			if up == nil || change.GreaterThan(up.Percentage) {
				up = &domain.Insight{
					Type:       domain.InsightTypeIncrease,
					Category:   current[i].Category,
					Percentage: change,
					Amount:     now.Sub(before),
				}
			}
		} else if down == nil || change.GreaterThan(down.Percentage) {
			down = &domain.Insight{
				Type:       domain.InsightTypeDecrease,
				Category:   current[i].Category,
				Percentage: change,
				Amount:     before.Sub(now),
			}
		}
	}

	if up != nil {
		up.Message = fmt.Sprintf("%s spending is up %s%% compared to last month", up.Category, up.Percentage.String())
		insights = append(insights, *up)
	}
	if down != nil {
		down.Message = fmt.Sprintf("%s costs dropped by %s%% this month", down.Category, down.Percentage.String())
		insights = append(insights, *down)
	}

	if overview.TotalBudget.IsPositive() && overview.IsOverBudget {
		over := overview.TotalSpent.Sub(overview.TotalBudget)
		insights = append(insights, domain.Insight{
			Type:       domain.InsightTypeWarning,
			Percentage: overview.OverallPercentage,
			Amount:     over,
			Message:    fmt.Sprintf("Monthly budget exceeded by %s", over.StringFixed(2)),
		})
	}

	if name := highestCategory(breakdown); name != "" {
		for _, e := range breakdown {
			if e.Category != name {
				continue
			}
			insights = append(insights, domain.Insight{
				Type:       domain.InsightTypeTip,
				Category:   e.Category,
				Percentage: decimal.NewFromInt(e.Percentage),
				Amount:     e.Amount,
				Message:    fmt.Sprintf("%s accounts for %d%% of monthly spending", e.Category, e.Percentage),
			})
			break
		}
	}

	return insights
}
