package analytics

import (
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/dafibh/fortuna/insights-api/internal/util"
)

// DefaultLabelLayout renders month labels as "Oct 2026"
const DefaultLabelLayout = "Jan 2006"

// Calendar decides which calendar month an instant belongs to and how months are labelled
type Calendar struct {
	Location    *time.Location
	LabelLayout string
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c Calendar) layout() string {
	if c.LabelLayout == "" {
		return DefaultLabelLayout
	}
	return c.LabelLayout
}

// MonthStart returns the start of the calendar month containing t
func (c Calendar) MonthStart(t time.Time) time.Time {
	return util.MonthStart(t, c.location())
}

// Label returns the display label for the month containing t
func (c Calendar) Label(t time.Time) string {
	return c.MonthStart(t).Format(c.layout())
}

// InMonth returns the records dated in the same calendar month as ref
func (c Calendar) InMonth(records []domain.Expense, ref time.Time) []domain.Expense {
	start, end := util.MonthBounds(ref, c.location())
	return InRange(records, start, end)
}

// InRange returns the records dated in [from, to), preserving order
func InRange(records []domain.Expense, from, to time.Time) []domain.Expense {
	filtered := make([]domain.Expense, 0, len(records))
	for _, r := range records {
		if !r.Date.Before(from) && r.Date.Before(to) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
