package postgres

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func pgNumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func pgNumericToDecimalPtr(n pgtype.Numeric) *decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return nil
	}
	d := decimal.NewFromBigInt(n.Int, n.Exp)
	return &d
}

// pgLocalTimestamp reads a zone-less timestamp as wall-clock time in loc
func pgLocalTimestamp(ts pgtype.Timestamp, loc *time.Location) time.Time {
	if !ts.Valid {
		return time.Time{}
	}
	t := ts.Time
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// localTimestamp renders t as the wall-clock value stored in zone-less columns
func localTimestamp(t time.Time, loc *time.Location) pgtype.Timestamp {
	w := t.In(loc)
	return pgtype.Timestamp{
		Time:  time.Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), w.Second(), w.Nanosecond(), time.UTC),
		Valid: true,
	}
}
