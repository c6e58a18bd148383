package util

import (
	"testing"
	"time"
)

func TestMonthStart(t *testing.T) {
	ref := time.Date(2026, time.October, 31, 23, 59, 59, 0, time.UTC)
	got := MonthStart(ref, time.UTC)
	want := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("MonthStart = %v, want %v", got, want)
	}
}

func TestMonthStart_Location(t *testing.T) {
	// 23:30 UTC on Oct 31 is already Nov 1 in UTC+2
	loc := time.FixedZone("UTC+2", 2*60*60)
	ref := time.Date(2026, time.October, 31, 23, 30, 0, 0, time.UTC)
	got := MonthStart(ref, loc)
	if got.Month() != time.November || got.Day() != 1 {
		t.Errorf("MonthStart in UTC+2 = %v, want Nov 1", got)
	}
}

func TestAddMonths_NoDayOverflow(t *testing.T) {
	start := MonthStart(time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), time.UTC)
	got := AddMonths(start, -1)
	if got.Month() != time.February || got.Day() != 1 {
		t.Errorf("AddMonths(-1) = %v, want Feb 1", got)
	}
	got = AddMonths(start, -3)
	if got.Year() != 2025 || got.Month() != time.December {
		t.Errorf("AddMonths(-3) = %v, want Dec 2025", got)
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(time.Date(2026, time.December, 15, 12, 0, 0, 0, time.UTC), time.UTC)
	if !start.Equal(time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		date time.Time
		want int
	}{
		{time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC), 28},
		{time.Date(2028, time.February, 10, 0, 0, 0, 0, time.UTC), 29},
		{time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), 30},
		{time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC), 31},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.date); got != tt.want {
			t.Errorf("DaysInMonth(%s) = %d, want %d", tt.date.Format("2006-01"), got, tt.want)
		}
	}
}

func TestBudgetMonthLabel(t *testing.T) {
	got := BudgetMonthLabel(time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC))
	if got != "October 2026" {
		t.Errorf("BudgetMonthLabel = %q, want %q", got, "October 2026")
	}
}

func TestParseMonthLabel(t *testing.T) {
	want := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	for _, label := range []string{"October 2026", "Oct 2026", "2026-10", "10/2026", " October 2026 "} {
		got, err := ParseMonthLabel(label)
		if err != nil {
			t.Errorf("ParseMonthLabel(%q) returned error: %v", label, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseMonthLabel(%q) = %v, want %v", label, got, want)
		}
	}

	if _, err := ParseMonthLabel("not a month"); err == nil {
		t.Error("expected error for unrecognized label")
	}
}
