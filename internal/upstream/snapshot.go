package upstream

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/analytics"
	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/dafibh/fortuna/insights-api/internal/util"
	"github.com/rs/zerolog/log"
)

// snapshotFile is an offline export in the backend's wire format
type snapshotFile struct {
	Expenses   []expenseWire  `json:"expenses"`
	Categories []categoryWire `json:"categories"`
	Budgets    []budgetWire   `json:"budgets"`
}

// ReadSnapshot decodes an exported {expenses, categories, budgets} document.
// Zone-less dates are read in loc.
func ReadSnapshot(r io.Reader, loc *time.Location) (analytics.Snapshot, error) {
	var f snapshotFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return analytics.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}

	expenses, err := decodeExpenses(f.Expenses, loc)
	if err != nil {
		return analytics.Snapshot{}, err
	}

	return analytics.Snapshot{
		Expenses:   expenses,
		Categories: decodeCategories(f.Categories),
		Budgets:    decodeBudgets(f.Budgets),
	}, nil
}

// BudgetsForMonth keeps the budgets labelled with the month containing ref.
// Exports can span several months, while the backend's budget read only ever
// returns the current one. Unlabelled budgets are kept; unparsable labels are dropped.
func BudgetsForMonth(budgets []domain.Budget, ref time.Time, loc *time.Location) []domain.Budget {
	month := util.MonthStart(ref, loc)

	var kept []domain.Budget
	for _, b := range budgets {
		if b.Month == "" {
			kept = append(kept, b)
			continue
		}
		labelled, err := util.ParseMonthLabel(b.Month)
		if err != nil {
			log.Warn().Err(err).Int64("budget_id", b.ID).Msg("Skipping budget with unreadable month")
			continue
		}
		if labelled.Year() == month.Year() && labelled.Month() == month.Month() {
			kept = append(kept, b)
		}
	}
	return kept
}
