package analytics

import (
	"testing"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSummarize_Basic(t *testing.T) {
	records := []domain.Expense{
		expense(1, food, "100.00", day(2026, 10, 2), domain.PaymentMethodCash),
		expense(2, food, "250.50", day(2026, 10, 5), domain.PaymentMethodCard),
		expense(3, food, "49.50", day(2026, 10, 9), domain.PaymentMethodUPI),
	}

	s := Summarize(records)

	assert.True(t, s.Total.Equal(amount("400.00")), "total = %s", s.Total)
	assert.True(t, s.Average.Equal(amount("133.33")), "average = %s", s.Average)
	assert.True(t, s.Highest.Equal(amount("250.50")), "highest = %s", s.Highest)
	assert.True(t, s.Lowest.Equal(amount("49.50")), "lowest = %s", s.Lowest)
	assert.Equal(t, 3, s.TransactionCount)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.True(t, s.Total.IsZero())
	assert.True(t, s.Average.IsZero())
	assert.True(t, s.Highest.IsZero())
	assert.True(t, s.Lowest.IsZero())
	assert.Equal(t, 0, s.TransactionCount)
}

func TestSummarize_SingleRecord(t *testing.T) {
	s := Summarize([]domain.Expense{expense(1, travel, "75.25", day(2026, 10, 1), domain.PaymentMethodCard)})

	assert.True(t, s.Total.Equal(amount("75.25")))
	assert.True(t, s.Average.Equal(amount("75.25")))
	assert.True(t, s.Highest.Equal(s.Lowest))
	assert.Equal(t, 1, s.TransactionCount)
}

func TestSummarize_RoundsTotalOnce(t *testing.T) {
	records := []domain.Expense{
		expense(1, food, "0.005", day(2026, 10, 1), domain.PaymentMethodCash),
		expense(2, food, "0.005", day(2026, 10, 2), domain.PaymentMethodCash),
	}

	s := Summarize(records)
	assert.True(t, s.Total.Equal(amount("0.01")), "total = %s", s.Total)

	// category totals round after every addition
	totals := JoinByID.CategoryTotals(records, []domain.Category{food}, nil)
	assert.True(t, totals[0].Amount.Equal(amount("0.02")), "category total = %s", totals[0].Amount)
}
