package leasing

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSellingPrice(t *testing.T) {
	tests := []struct {
		purchase float64
		margin   float64
		want     float64
	}{
		{purchase: 1000, margin: 20, want: 1200},
		{purchase: 1000, margin: 0, want: 1000},
		{purchase: 0, margin: 50, want: 0},
		{purchase: 2499.99, margin: 10, want: 2749.989},
	}

	for _, tt := range tests {
		if got := SellingPrice(tt.purchase, tt.margin); !almostEqual(got, tt.want) {
			t.Fatalf("SellingPrice(%v, %v) = %v, want %v", tt.purchase, tt.margin, got, tt.want)
		}
	}
}

func TestMonthlyPrice(t *testing.T) {
	// purchase 1000, margin 20% -> selling 1200; coefficient 3.5% -> 42.00
	selling := SellingPrice(1000, 20)
	if got := MonthlyPrice(selling, 3.5); !almostEqual(got, 42) {
		t.Fatalf("MonthlyPrice(%v, 3.5) = %v, want 42", selling, got)
	}
}

func TestMonthlyTTC(t *testing.T) {
	if got := MonthlyTTC(42); !almostEqual(got, 50.4) {
		t.Fatalf("MonthlyTTC(42) = %v, want 50.4", got)
	}
}

func TestLineTotalAndTotalCost(t *testing.T) {
	if got := LineTotal(42, 2); !almostEqual(got, 84) {
		t.Fatalf("LineTotal(42, 2) = %v, want 84", got)
	}
	if got := TotalCost(42, 36); !almostEqual(got, 1512) {
		t.Fatalf("TotalCost(42, 36) = %v, want 1512", got)
	}
}

func TestLinePriceMonotonicity(t *testing.T) {
	// Increasing the purchase price with fixed margin and coefficient never
	// decreases the line total.
	prev := 0.0
	for purchase := 100.0; purchase <= 10000; purchase += 137 {
		monthly := MonthlyPrice(SellingPrice(purchase, 15), 3.2)
		total := LineTotal(monthly, 3)
		if total < prev {
			t.Fatalf("line total decreased: purchase %v gave %v after %v", purchase, total, prev)
		}
		prev = total
	}
}
