// Package pricing computes checkout totals. Everything here is pure; the
// order service feeds it resolved products and it hands back numbers.
package pricing

import "math"

// Line is one cart entry after product resolution.
type Line struct {
	UnitPrice float64
	Quantity  int
}

// Quote is the full price breakdown for a checkout.
type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// Subtotal sums unit price times quantity. Order of lines is irrelevant.
func Subtotal(lines []Line) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.UnitPrice * float64(l.Quantity)
	}
	return round2(sum)
}

// Compute builds the quote. Shipping is always zero for digital goods.
// taxRate is a fraction (0.1 = 10%) from site configuration, default 0.
// The discount is clamped so the total never goes negative.
func Compute(lines []Line, taxRate, discount float64) Quote {
	subtotal := Subtotal(lines)
	tax := round2(subtotal * taxRate)

	if discount > subtotal {
		discount = subtotal
	}

	total := round2(subtotal + tax - discount)
	if total < 0 {
		total = 0
	}

	return Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: 0,
		Discount: round2(discount),
		Total:    total,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
