package upstream

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/shopspring/decimal"
)

// envelope is the backend's response wrapper
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors string          `json:"errors"`
}

type categoryWire struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	ColorCode    string           `json:"colorCode"`
	CategoryIcon int              `json:"categoryIcon"`
	Budget       *decimal.Decimal `json:"budget"`
}

type expenseWire struct {
	ID            int64           `json:"id"`
	Category      *categoryWire   `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Date          string          `json:"date"`
	PaymentMethod string          `json:"paymentMethod"`
	Notes         string          `json:"notes"`
	IsRecurring   *bool           `json:"isRecurring"`
}

type budgetWire struct {
	ID              int64           `json:"id"`
	Category        *categoryWire   `json:"category"`
	Month           string          `json:"month"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	RollOverEnabled *bool           `json:"rollOverEnabled"`
}

// dateLayouts are tried in order. Zone-less values are read in the configured location.
var dateLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate reads a backend date. Values with an offset keep it; local date-times
// are interpreted in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}

func (w *categoryWire) ref() domain.CategoryRef {
	if w == nil {
		return domain.CategoryRef{}
	}
	return domain.CategoryRef{
		ID:           w.ID,
		Name:         w.Name,
		ColorCode:    w.ColorCode,
		CategoryIcon: w.CategoryIcon,
	}
}

func (w categoryWire) toDomain() domain.Category {
	return domain.Category{
		ID:           w.ID,
		Name:         w.Name,
		ColorCode:    w.ColorCode,
		CategoryIcon: w.CategoryIcon,
		Budget:       w.Budget,
	}
}

func (w expenseWire) toDomain(loc *time.Location) (domain.Expense, error) {
	date, err := ParseDate(w.Date, loc)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("expense %d: %w", w.ID, err)
	}
	return domain.Expense{
		ID:            w.ID,
		Amount:        w.Amount,
		Currency:      w.Currency,
		Category:      w.Category.ref(),
		Date:          date,
		PaymentMethod: domain.PaymentMethod(w.PaymentMethod),
		Notes:         w.Notes,
		IsRecurring:   w.IsRecurring != nil && *w.IsRecurring,
	}, nil
}

func (w budgetWire) toDomain() domain.Budget {
	return domain.Budget{
		ID:              w.ID,
		Category:        w.Category.ref(),
		Month:           w.Month,
		Amount:          w.Amount,
		Currency:        w.Currency,
		RollOverEnabled: w.RollOverEnabled != nil && *w.RollOverEnabled,
	}
}

func decodeExpenses(raw []expenseWire, loc *time.Location) ([]domain.Expense, error) {
	expenses := make([]domain.Expense, 0, len(raw))
	for _, w := range raw {
		e, err := w.toDomain(loc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

func decodeCategories(raw []categoryWire) []domain.Category {
	categories := make([]domain.Category, len(raw))
	for i, w := range raw {
		categories[i] = w.toDomain()
	}
	return categories
}

func decodeBudgets(raw []budgetWire) []domain.Budget {
	budgets := make([]domain.Budget, len(raw))
	for i, w := range raw {
		budgets[i] = w.toDomain()
	}
	return budgets
}
