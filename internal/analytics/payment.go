package analytics

import (
	"sort"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/shopspring/decimal"
)

// PaymentMethods groups records by their literal payment method, sorted by
// amount descending. Ties keep first-seen order.
func PaymentMethods(records []domain.Expense) []domain.PaymentMethodEntry {
	entries := make([]domain.PaymentMethodEntry, 0)
	index := make(map[domain.PaymentMethod]int)

	for _, r := range records {
		i, ok := index[r.PaymentMethod]
		if !ok {
			i = len(entries)
			index[r.PaymentMethod] = i
			entries = append(entries, domain.PaymentMethodEntry{
				Method: r.PaymentMethod,
				Amount: decimal.Zero,
			})
		}
		entries[i].Amount = accumulate(entries[i].Amount, r.Amount)
		entries[i].Count++
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Amount.GreaterThan(entries[j].Amount)
	})
	return entries
}
