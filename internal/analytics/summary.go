package analytics

import (
	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Summarize computes total, average, highest and lowest for a period.
// An empty period yields all zeros; callers check TransactionCount for the empty state.
func Summarize(records []domain.Expense) domain.SummaryStats {
	if len(records) == 0 {
		return domain.SummaryStats{
			Total:   decimal.Zero,
			Average: decimal.Zero,
			Highest: decimal.Zero,
			Lowest:  decimal.Zero,
		}
	}

	sum := decimal.Zero
	highest := records[0].Amount
	lowest := records[0].Amount
	for _, r := range records {
		sum = sum.Add(r.Amount)
		if r.Amount.GreaterThan(highest) {
			highest = r.Amount
		}
		if r.Amount.LessThan(lowest) {
			lowest = r.Amount
		}
	}

	count := len(records)
	total := Round2(sum)
	return domain.SummaryStats{
		Total:            total,
		Average:          Round2(total.Div(decimal.NewFromInt(int64(count)))),
		Highest:          highest,
		Lowest:           lowest,
		TransactionCount: count,
	}
}
