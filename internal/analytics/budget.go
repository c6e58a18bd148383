package analytics

import (
	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/shopspring/decimal"
)

var nearLimit = decimal.NewFromInt(domain.NearLimitThreshold)

// BudgetProgress computes spend against each budget from the period's records.
// One entry per budget, in input order.
func (j CategoryJoin) BudgetProgress(budgets []domain.Budget, records []domain.Expense) []domain.BudgetProgressEntry {
	spentBy := j.totalsByCategory(records)

	entries := make([]domain.BudgetProgressEntry, len(budgets))
	for i, b := range budgets {
		spent, ok := spentBy[j.categoryKey(b.Category.ID, b.Category.Name)]
		if !ok {
			spent = decimal.Zero
		}
		entries[i] = progressEntry(b, spent)
	}
	return entries
}

// BudgetProgress joins by category id
func BudgetProgress(budgets []domain.Budget, records []domain.Expense) []domain.BudgetProgressEntry {
	return JoinByID.BudgetProgress(budgets, records)
}

func progressEntry(b domain.Budget, spent decimal.Decimal) domain.BudgetProgressEntry {
	limit := b.Amount

	// thresholds use the unrounded capped ratio; over-budget uses the raw comparison
	ratio := decimal.Min(ratioPercent(spent, limit), hundred)
	isOver := spent.GreaterThan(limit)
	isNear := !isOver && ratio.GreaterThanOrEqual(nearLimit)

	return domain.BudgetProgressEntry{
		BudgetID:     b.ID,
		CategoryID:   b.Category.ID,
		Name:         b.Category.Name,
		Icon:         b.Category.CategoryIcon,
		Month:        b.Month,
		Limit:        limit,
		Spent:        spent,
		Remaining:    limit.Sub(spent),
		Percentage:   ratio.Round(2),
		IsOverBudget: isOver,
		IsNearLimit:  isNear,
		Status:       classify(isOver, isNear),
	}
}

func classify(isOver, isNear bool) domain.BudgetStatus {
	switch {
	case isOver:
		return domain.BudgetStatusOverBudget
	case isNear:
		return domain.BudgetStatusNearLimit
	default:
		return domain.BudgetStatusOnTrack
	}
}

// BudgetOverview totals limits and spend across entries.
// OverallPercentage is uncapped and is 0 when there is no budget at all.
func BudgetOverview(entries []domain.BudgetProgressEntry) domain.BudgetOverview {
	totalBudget := decimal.Zero
	totalSpent := decimal.Zero
	for _, e := range entries {
		totalBudget = accumulate(totalBudget, e.Limit)
		totalSpent = accumulate(totalSpent, e.Spent)
	}

	return domain.BudgetOverview{
		TotalBudget:       totalBudget,
		TotalSpent:        totalSpent,
		Remaining:         totalBudget.Sub(totalSpent),
		OverallPercentage: ratioPercent(totalSpent, totalBudget).Round(2),
		IsOverBudget:      totalSpent.GreaterThan(totalBudget),
	}
}
