package leasing

import (
	"errors"
	"testing"

	"github.com/marlon-leasing/marlon/app/models"
)

func newScheduleRepo() *memoryRepository {
	repo := newMemoryRepository()
	repo.durations = []models.LeasingDuration{
		{ID: 1, Months: 24},
		{ID: 2, Months: 36},
	}
	repo.tiers = []models.LeaserCoefficient{
		{ID: 1, LeaserID: 1, DurationID: 2, MinAmount: 0, MaxAmount: ptrFloat(5000), Coefficient: 3.5},
		{ID: 2, LeaserID: 1, DurationID: 2, MinAmount: 10000, MaxAmount: nil, Coefficient: 3.0},
		{ID: 3, LeaserID: 1, DurationID: 1, MinAmount: 0, MaxAmount: ptrFloat(5000), Coefficient: 5.0},
	}
	return repo
}

func TestResolveStrict(t *testing.T) {
	r := NewResolver(newScheduleRepo())

	tests := []struct {
		name     string
		leaserID uint
		months   int
		amount   float64
		want     float64
		wantErr  error
	}{
		{name: "inside bounded tier", leaserID: 1, months: 36, amount: 1200, want: 3.5},
		{name: "lower edge inclusive", leaserID: 1, months: 36, amount: 0, want: 3.5},
		{name: "upper edge inclusive", leaserID: 1, months: 36, amount: 5000, want: 3.5},
		{name: "gap between tiers", leaserID: 1, months: 36, amount: 7000, wantErr: ErrTierNotFound},
		{name: "just past upper edge", leaserID: 1, months: 36, amount: 5000.01, wantErr: ErrTierNotFound},
		{name: "unbounded tier", leaserID: 1, months: 36, amount: 250000, want: 3.0},
		{name: "unknown duration", leaserID: 1, months: 48, amount: 1200, wantErr: ErrTierNotFound},
		{name: "unknown leaser", leaserID: 9, months: 36, amount: 1200, wantErr: ErrTierNotFound},
	}

	for _, tt := range tests {
		got, err := r.Resolve(tt.leaserID, tt.months, tt.amount)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("%s: Resolve() error = %v, want %v", tt.name, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: Resolve() unexpected error: %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("%s: Resolve() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	r := NewResolver(newScheduleRepo())
	first, err := r.Resolve(1, 36, 1200)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	second, err := r.Resolve(1, 36, 1200)
	if err != nil {
		t.Fatalf("Resolve() error on second call: %v", err)
	}
	if first != second {
		t.Fatalf("Resolve() not idempotent: %v then %v", first, second)
	}
}

func TestResolveDisplayFallbacks(t *testing.T) {
	r := NewResolver(newScheduleRepo())

	// Strict hit: no fallback.
	coef, indicative := r.ResolveDisplay(1, 36, 1200)
	if coef != 3.5 || indicative {
		t.Fatalf("ResolveDisplay(hit) = %v, %v; want 3.5, false", coef, indicative)
	}

	// Gap: falls back to the leaser's lowest tier.
	coef, indicative = r.ResolveDisplay(1, 36, 7000)
	if coef != 3.5 || !indicative {
		t.Fatalf("ResolveDisplay(gap) = %v, %v; want 3.5, true", coef, indicative)
	}

	// No tiers at all: duration default.
	coef, indicative = r.ResolveDisplay(9, 36, 7000)
	if coef != 3.8 || !indicative {
		t.Fatalf("ResolveDisplay(no tiers, 36mo) = %v, %v; want 3.8, true", coef, indicative)
	}

	// Unknown duration: hardcoded default.
	coef, indicative = r.ResolveDisplay(9, 42, 7000)
	if coef != 3.5 || !indicative {
		t.Fatalf("ResolveDisplay(unknown duration) = %v, %v; want 3.5, true", coef, indicative)
	}
}

func TestBestDisplayRate(t *testing.T) {
	r := NewResolver(newScheduleRepo())

	// 24mo resolves to 5.0, 36mo to 3.5: the cheaper coefficient wins.
	months, coef := r.BestDisplayRate(1, []int{24, 36}, 1200)
	if months != 36 || coef != 3.5 {
		t.Fatalf("BestDisplayRate() = %d, %v; want 36, 3.5", months, coef)
	}

	// Nothing configured: first candidate with its default rate.
	months, coef = r.BestDisplayRate(9, []int{24, 36}, 1200)
	if months != 24 || coef != 5.0 {
		t.Fatalf("BestDisplayRate(unconfigured) = %d, %v; want 24, 5.0", months, coef)
	}
}

func TestValidateNoOverlap(t *testing.T) {
	existing := []models.LeaserCoefficient{
		{ID: 1, LeaserID: 1, DurationID: 2, MinAmount: 0, MaxAmount: ptrFloat(5000), Coefficient: 3.5},
		{ID: 2, LeaserID: 1, DurationID: 2, MinAmount: 10000, MaxAmount: nil, Coefficient: 3.0},
	}

	tests := []struct {
		name    string
		min     float64
		max     *float64
		exclude uint
		wantErr bool
	}{
		{name: "fills the gap", min: 5000.01, max: ptrFloat(9999.99), wantErr: false},
		{name: "inside existing", min: 100, max: ptrFloat(200), wantErr: true},
		{name: "shares inclusive edge", min: 5000, max: ptrFloat(9000), wantErr: true},
		{name: "covers existing", min: 0, max: nil, wantErr: true},
		{name: "into unbounded", min: 9000, max: ptrFloat(20000), wantErr: true},
		{name: "editing itself", min: 0, max: ptrFloat(5000), exclude: 1, wantErr: false},
	}

	for _, tt := range tests {
		err := ValidateNoOverlap(existing, tt.min, tt.max, tt.exclude)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%s: ValidateNoOverlap() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil {
			var overlap *OverlapError
			if !errors.As(err, &overlap) {
				t.Fatalf("%s: error is %T, want *OverlapError", tt.name, err)
			}
		}
	}
}
