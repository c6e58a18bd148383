package domain

import "testing"

func TestBudgetStatusConstants(t *testing.T) {
	tests := []struct {
		name     string
		status   BudgetStatus
		expected string
	}{
		{"on track", BudgetStatusOnTrack, "on_track"},
		{"near limit", BudgetStatusNearLimit, "near_limit"},
		{"over budget", BudgetStatusOverBudget, "over_budget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.status) != tt.expected {
				t.Errorf("BudgetStatus %s = %s, want %s", tt.name, tt.status, tt.expected)
			}
		})
	}
}

func TestIsValidAnalyticsRange(t *testing.T) {
	tests := []struct {
		months int
		want   bool
	}{
		{1, true},
		{3, true},
		{6, true},
		{12, true},
		{0, false},
		{2, false},
		{24, false},
		{-6, false},
	}

	for _, tt := range tests {
		if got := IsValidAnalyticsRange(tt.months); got != tt.want {
			t.Errorf("IsValidAnalyticsRange(%d) = %v, want %v", tt.months, got, tt.want)
		}
	}
}

func TestCategoryRef(t *testing.T) {
	c := Category{ID: 7, Name: "Food", ColorCode: "#ff0000", CategoryIcon: 3}
	ref := c.Ref()
	if ref.ID != 7 || ref.Name != "Food" || ref.ColorCode != "#ff0000" || ref.CategoryIcon != 3 {
		t.Errorf("Ref() = %+v, want fields copied from category", ref)
	}
}
