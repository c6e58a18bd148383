package analytics

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var hundred = decimal.NewFromInt(100)

// Round2 rounds an amount to two decimal places, half away from zero
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// accumulate adds amount to total and rounds the running sum to cents
func accumulate(total, amount decimal.Decimal) decimal.Decimal {
	return Round2(total.Add(amount))
}

// ratioPercent returns part/whole*100 unrounded, or zero when whole is not positive
func ratioPercent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// Percent returns part as a whole-number percentage of whole, rounded half up.
// A non-positive whole yields 0.
func Percent(part, whole decimal.Decimal) int64 {
	return ratioPercent(part, whole).Round(0).IntPart()
}

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// CurrencySymbol maps an ISO 4217 code to its display symbol.
// Unknown but valid codes use the CLDR symbol; invalid codes are returned as-is.
func CurrencySymbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if symbol, ok := currencySymbols[code]; ok {
		return symbol
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return code
	}
	return fmt.Sprintf("%s", currency.Symbol(unit))
}
