package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyCode is the only currency the platform bills in today.
const CurrencyCode = "KES"

var oneHundred = decimal.NewFromInt(100)

// Parse coerces raw user input into a decimal amount. Empty, whitespace, or
// unparseable input yields zero rather than an error so that half-typed
// drafts never poison downstream totals.
func Parse(raw string) decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero
	}
	return value
}

// LineAmount computes quantity x rate for a single line item.
func LineAmount(quantity, rate decimal.Decimal) decimal.Decimal {
	return quantity.Mul(rate)
}

// Subtotal sums the provided line amounts. Every row counts, including
// zeroed placeholder rows.
func Subtotal(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	return total
}

// TaxAmount applies a percentage tax rate to a subtotal. Rates outside
// [0, 100] are applied as entered; bounds are a validation concern.
func TaxAmount(subtotal, taxRatePercent decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(taxRatePercent).Div(oneHundred)
}

// GrandTotal combines a subtotal with its tax amount.
func GrandTotal(subtotal, taxAmount decimal.Decimal) decimal.Decimal {
	return subtotal.Add(taxAmount)
}

// FormatKES renders an amount for display, e.g. "KES 2320.00".
func FormatKES(amount decimal.Decimal) string {
	return CurrencyCode + " " + amount.StringFixed(2)
}
