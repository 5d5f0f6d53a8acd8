package pricing

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateExampleCart(t *testing.T) {
	// 2 x 9.50 + 1 x 2.50 at 9% tax
	lines := []Line{
		{Quantity: 2, UnitPrice: 9.50},
		{Quantity: 1, UnitPrice: 2.50},
	}
	s := Calculate(lines, 0.09)

	if !almostEqual(s.Subtotal, 21.50) {
		t.Errorf("subtotal = %v, want 21.50", s.Subtotal)
	}
	if !almostEqual(s.Tax, 1.94) {
		t.Errorf("tax = %v, want 1.94 (21.50*0.09 = 1.935 rounds half-up)", s.Tax)
	}
	if !almostEqual(s.Total, 23.44) {
		t.Errorf("total = %v, want 23.44", s.Total)
	}
}

func TestCalculateTotalIsSubtotalPlusTax(t *testing.T) {
	lines := []Line{
		{Quantity: 3, UnitPrice: 7.35},
		{Quantity: 1, UnitPrice: 12.99},
		{Quantity: 2, UnitPrice: 4.25},
	}
	s := Calculate(lines, 0.09)
	if !almostEqual(s.Total, s.Subtotal+s.Tax) {
		t.Errorf("total %v != subtotal %v + tax %v", s.Total, s.Subtotal, s.Tax)
	}
}

func TestCalculateRoundsOnceAtTheEnd(t *testing.T) {
	// Three lines of 0.105 each would give 0.11*3 = 0.33 if rounded per
	// line; rounding once over the sum 0.315 gives 0.32.
	lines := []Line{
		{Quantity: 1, UnitPrice: 0.105},
		{Quantity: 1, UnitPrice: 0.105},
		{Quantity: 1, UnitPrice: 0.105},
	}
	s := Calculate(lines, 0)
	if !almostEqual(s.Subtotal, 0.32) {
		t.Errorf("subtotal = %v, want 0.32 (rounded once over the sum)", s.Subtotal)
	}
}

func TestCalculateHalfUp(t *testing.T) {
	// 5.50 * 0.09 = 0.495, the exact half case
	s := Calculate([]Line{{Quantity: 1, UnitPrice: 5.50}}, 0.09)
	if !almostEqual(s.Tax, 0.50) {
		t.Errorf("tax = %v, want 0.50 (0.495 rounds half-up)", s.Tax)
	}
}

func TestCalculateEmpty(t *testing.T) {
	s := Calculate(nil, 0.09)
	if s.Subtotal != 0 || s.Tax != 0 || s.Total != 0 {
		t.Errorf("empty cart should total zero, got %+v", s)
	}
}

func TestCalculateZeroTaxRate(t *testing.T) {
	s := Calculate([]Line{{Quantity: 2, UnitPrice: 10}}, 0)
	if !almostEqual(s.Tax, 0) || !almostEqual(s.Total, 20) {
		t.Errorf("got %+v, want tax 0 and total 20", s)
	}
}
