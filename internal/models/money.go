package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// amountNoise strips currency symbols, thousands separators, spaces, and
// the bidi marks that Hebrew exports put around numbers.
var amountNoise = strings.NewReplacer(
	"₪", "",
	"$", "",
	"€", "",
	",", "",
	" ", "",
	"\u00a0", "",
	"\u200e", "",
	"\u200f", "",
)

// ParseAmount reads text as a decimal amount. Currency symbols, thousands
// separators and surrounding whitespace are ignored.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = amountNoise.Replace(strings.TrimSpace(s))
	if s == "" || strings.EqualFold(s, "nan") {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// SumAmounts adds up the amounts of records.
func SumAmounts(records []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range records {
		total = total.Add(tx.Amount)
	}
	return total
}
