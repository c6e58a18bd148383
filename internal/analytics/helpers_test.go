package analytics

import (
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	food   = domain.Category{ID: 1, Name: "Food", ColorCode: "#ff6b6b", CategoryIcon: 3}
	travel = domain.Category{ID: 2, Name: "Travel", ColorCode: "#4dabf7", CategoryIcon: 7}
	bills  = domain.Category{ID: 3, Name: "Bills", ColorCode: "#ffd43b", CategoryIcon: 9}
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}

func expense(id int64, cat domain.Category, value string, date time.Time, method domain.PaymentMethod) domain.Expense {
	return domain.Expense{
		ID:            id,
		Amount:        amount(value),
		Currency:      "INR",
		Category:      cat.Ref(),
		Date:          date,
		PaymentMethod: method,
	}
}

func budget(id int64, cat domain.Category, limit string) domain.Budget {
	return domain.Budget{
		ID:       id,
		Category: cat.Ref(),
		Month:    "October 2026",
		Amount:   amount(limit),
		Currency: "INR",
	}
}
