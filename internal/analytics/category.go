package analytics

import (
	"strconv"
	"strings"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/shopspring/decimal"
)

// CategoryJoin selects how expenses are matched to catalog categories
type CategoryJoin int

const (
	// JoinByID matches expense.category.id against category.id
	JoinByID CategoryJoin = iota
	// JoinByName matches case-insensitively on the category name.
	// Only for backends whose payloads lack stable category ids.
	JoinByName
)

func (j CategoryJoin) recordKey(r domain.Expense) string {
	if j == JoinByName {
		return nameKey(r.Category.Name)
	}
	return idKey(r.Category.ID)
}

func (j CategoryJoin) categoryKey(id int64, name string) string {
	if j == JoinByName {
		return nameKey(name)
	}
	return idKey(id)
}

func idKey(id int64) string {
	return "id:" + strconv.FormatInt(id, 10)
}

func nameKey(name string) string {
	return "name:" + strings.ToLower(strings.TrimSpace(name))
}

// totalsByCategory sums amounts per join key, rounding after each addition
func (j CategoryJoin) totalsByCategory(records []domain.Expense) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, r := range records {
		key := j.recordKey(r)
		totals[key] = accumulate(totals[key], r.Amount)
	}
	return totals
}

// CategoryTotals returns one entry per catalog category, in catalog order,
// including categories with no spend. Records whose category is not in the
// catalog are dropped.
func (j CategoryJoin) CategoryTotals(records []domain.Expense, categories []domain.Category, grandTotal *decimal.Decimal) []domain.CategoryBreakdownEntry {
	totals := j.totalsByCategory(records)

	entries := make([]domain.CategoryBreakdownEntry, len(categories))
	for i, cat := range categories {
		total, ok := totals[j.categoryKey(cat.ID, cat.Name)]
		if !ok {
			total = decimal.Zero
		}
		entries[i] = domain.CategoryBreakdownEntry{
			CategoryID: cat.ID,
			Category:   cat.Name,
			Amount:     total,
			Color:      cat.ColorCode,
		}
	}

	var whole decimal.Decimal
	if grandTotal != nil {
		whole = *grandTotal
	} else {
		whole = decimal.Zero
		for _, e := range entries {
			whole = accumulate(whole, e.Amount)
		}
	}

	for i := range entries {
		entries[i].Percentage = Percent(entries[i].Amount, whole)
	}
	return entries
}

// CategoryBreakdown is CategoryTotals without the zero-total categories.
// grandTotal should be the period total from Summarize; when nil the
// per-category totals are summed instead.
func (j CategoryJoin) CategoryBreakdown(records []domain.Expense, categories []domain.Category, grandTotal *decimal.Decimal) []domain.CategoryBreakdownEntry {
	all := j.CategoryTotals(records, categories, grandTotal)
	breakdown := make([]domain.CategoryBreakdownEntry, 0, len(all))
	for _, e := range all {
		if e.Amount.IsZero() {
			continue
		}
		breakdown = append(breakdown, e)
	}
	return breakdown
}

// CategoryBreakdown joins by category id
func CategoryBreakdown(records []domain.Expense, categories []domain.Category, grandTotal *decimal.Decimal) []domain.CategoryBreakdownEntry {
	return JoinByID.CategoryBreakdown(records, categories, grandTotal)
}
