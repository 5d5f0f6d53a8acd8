// Package pricing computes order totals. All arithmetic runs on
// decimals and is rounded to two places exactly once, at the end, so
// per-line rounding drift cannot accumulate.
package pricing

import "github.com/shopspring/decimal"

type Line struct {
	Quantity  int
	UnitPrice float64
}

type Summary struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Calculate returns subtotal, tax and total for the given lines.
// Rounding is half-up to two decimals: subtotal = round(Σ qty·price),
// tax = round(subtotal·rate), total = subtotal + tax, so the invariant
// total == subtotal + tax holds exactly.
func Calculate(lines []Line, taxRate float64) Summary {
	subtotal := decimal.Zero
	for _, l := range lines {
		price := decimal.NewFromFloat(l.UnitPrice)
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(decimal.NewFromFloat(taxRate)).Round(2)
	total := subtotal.Add(tax)

	return Summary{
		Subtotal: subtotal.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
}
