package handler

import (
	"testing"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToSummaryResponse(t *testing.T) {
	resp := toSummaryResponse(domain.SummaryStats{
		Total:            decimal.RequireFromString("20.0075"),
		Average:          decimal.RequireFromString("10.00375"),
		Highest:          decimal.RequireFromString("10.005"),
		Lowest:           decimal.RequireFromString("10.0025"),
		TransactionCount: 2,
	})

	assert.Equal(t, "20.01", resp.Total)
	assert.Equal(t, "10.00", resp.Average)
	assert.Equal(t, "10.005", resp.Highest)
	assert.Equal(t, "10.0025", resp.Lowest)
	assert.Equal(t, 2, resp.TransactionCount)
}
