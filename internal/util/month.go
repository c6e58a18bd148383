package util

import (
	"fmt"
	"strings"
	"time"
)

// BudgetMonthLayout is the label the backend stores on budgets, e.g. "October 2026"
const BudgetMonthLayout = "January 2006"

// MonthStart returns midnight on the first day of t's month, in loc
func MonthStart(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// AddMonths shifts a month start by n calendar months.
// The input must already be a month start so day overflow cannot occur.
func AddMonths(monthStart time.Time, n int) time.Time {
	return monthStart.AddDate(0, n, 0)
}

// MonthBounds returns [start, end) for the month containing t
func MonthBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start := MonthStart(t, loc)
	return start, AddMonths(start, 1)
}

// DaysInMonth returns the number of days in t's month
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// BudgetMonthLabel formats t as a budget month label
func BudgetMonthLabel(t time.Time) string {
	return t.Format(BudgetMonthLayout)
}

var monthLabelLayouts = []string{BudgetMonthLayout, "Jan 2006", "2006-01", "01/2006"}

// ParseMonthLabel parses a month label in any of the supported layouts and
// returns the first day of that month in UTC
func ParseMonthLabel(label string) (time.Time, error) {
	label = strings.TrimSpace(label)
	for _, layout := range monthLabelLayouts {
		if t, err := time.Parse(layout, label); err == nil {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized month label %q", label)
}
