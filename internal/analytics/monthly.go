package analytics

import (
	"sort"
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/dafibh/fortuna/insights-api/internal/util"
	"github.com/shopspring/decimal"
)

type monthKey struct {
	year  int
	month time.Month
}

type monthBucket struct {
	label string
	start time.Time
	total decimal.Decimal
}

// buckets returns window zeroed buckets, oldest first, ending at ref's month
func (c Calendar) buckets(ref time.Time, window int) ([]*monthBucket, map[monthKey]*monthBucket) {
	if window <= 0 {
		return []*monthBucket{}, map[monthKey]*monthBucket{}
	}
	end := c.MonthStart(ref)
	ordered := make([]*monthBucket, 0, window)
	index := make(map[monthKey]*monthBucket, window)
	for i := window - 1; i >= 0; i-- {
		start := util.AddMonths(end, -i)
		b := &monthBucket{
			label: start.Format(c.layout()),
			start: start,
			total: decimal.Zero,
		}
		ordered = append(ordered, b)
		index[monthKey{start.Year(), start.Month()}] = b
	}
	return ordered, index
}

// MonthLabels returns the labels of the window calendar months ending at ref's month, oldest first
func (c Calendar) MonthLabels(ref time.Time, window int) []string {
	ordered, _ := c.buckets(ref, window)
	labels := make([]string, len(ordered))
	for i, b := range ordered {
		labels[i] = b.label
	}
	return labels
}

// MonthlyTrend sums record amounts per calendar month over the window months ending
// at ref's month. The result always has exactly window points, oldest first.
// Records outside the window are ignored.
func (c Calendar) MonthlyTrend(records []domain.Expense, ref time.Time, window int) []domain.MonthlyTrendPoint {
	ordered, index := c.buckets(ref, window)
	loc := c.location()

	for _, r := range records {
		d := r.Date.In(loc)
		b, ok := index[monthKey{d.Year(), d.Month()}]
		if !ok {
			continue
		}
		b.total = accumulate(b.total, r.Amount)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].start.Before(ordered[j].start)
	})

	points := make([]domain.MonthlyTrendPoint, len(ordered))
	for i, b := range ordered {
		points[i] = domain.MonthlyTrendPoint{Month: b.label, Total: b.total}
	}
	return points
}
