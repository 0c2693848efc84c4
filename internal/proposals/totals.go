package proposals

import "math"

// LineItem is one configurable row of a proposal.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Totals is the computed money summary of a proposal.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// CalculateTotals sums the line items and applies a percentage discount.
// Line items with non-positive quantity are skipped rather than rejected.
// The discount percent is clamped to [0, 100]. All amounts round to cents.
func CalculateTotals(items []LineItem, discountPercent float64) Totals {
	subtotal := 0.0
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		subtotal += item.Quantity * item.UnitPrice
	}

	if discountPercent < 0 {
		discountPercent = 0
	}
	if discountPercent > 100 {
		discountPercent = 100
	}

	subtotal = roundCents(subtotal)
	discount := roundCents(subtotal * discountPercent / 100)
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    roundCents(subtotal - discount),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
