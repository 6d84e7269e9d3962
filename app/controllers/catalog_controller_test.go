package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marlon-leasing/marlon/app/models"
	"github.com/marlon-leasing/marlon/internal/pkg/leasing"
)

// scheduleRepo is a leasing.Repository fake holding one leaser with a single
// covered range per duration.
type scheduleRepo struct {
	durations map[int]*models.LeasingDuration
	tiers     []models.LeaserCoefficient
}

func (r *scheduleRepo) FindDurationByMonths(months int) (*models.LeasingDuration, error) {
	return r.durations[months], nil
}

func (r *scheduleRepo) FindTierForAmount(leaserID, durationID uint, amount float64) (*models.LeaserCoefficient, error) {
	for i := range r.tiers {
		t := &r.tiers[i]
		if t.LeaserID == leaserID && t.DurationID == durationID && t.Covers(amount) {
			return t, nil
		}
	}
	return nil, nil
}

func (r *scheduleRepo) ListTiers(leaserID, durationID uint) ([]models.LeaserCoefficient, error) {
	var out []models.LeaserCoefficient
	for _, t := range r.tiers {
		if t.LeaserID == leaserID && t.DurationID == durationID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *scheduleRepo) ListOpenOrders(uint, int) ([]models.Order, error)    { return nil, nil }
func (r *scheduleRepo) ListOrderItems(uint) ([]models.OrderItem, error)     { return nil, nil }
func (r *scheduleRepo) UpdateOrderItemPricing(uint, float64, float64) error { return nil }
func (r *scheduleRepo) UpdateOrderTotal(uint, float64) error                { return nil }
func (r *scheduleRepo) ListCartItemsByDuration(int) ([]models.CartItem, error) {
	return nil, nil
}
func (r *scheduleRepo) UpdateCartItemPricing(uint, float64, float64, float64) error {
	return nil
}

func newScheduleRepo() *scheduleRepo {
	max := 5000.0
	return &scheduleRepo{
		durations: map[int]*models.LeasingDuration{
			36: {ID: 1, Months: 36, IsActive: true},
		},
		tiers: []models.LeaserCoefficient{
			{ID: 1, LeaserID: 1, DurationID: 1, MinAmount: 0, MaxAmount: &max, Coefficient: 3.5},
		},
	}
}

func TestBuildQuoteCoveredTier(t *testing.T) {
	resolver := leasing.NewResolver(newScheduleRepo())
	leaserID := uint(1)
	product := &models.Product{
		ID:              7,
		PurchasePriceHT: 1000,
		MarginPercent:   20,
		DefaultLeaserID: &leaserID,
	}

	quote := buildQuote(resolver, product, 36)

	assert.False(t, quote.Indicative)
	assert.InDelta(t, 1200.0, quote.SellingPriceHT, 1e-9)
	assert.InDelta(t, 3.5, quote.Coefficient, 1e-9)
	assert.InDelta(t, 42.0, quote.MonthlyPriceHT, 1e-9)
	assert.InDelta(t, 50.4, quote.MonthlyPriceTTC, 1e-9)
	assert.InDelta(t, 1512.0, quote.TotalCostHT, 1e-9)
	assert.Equal(t, 36, quote.DurationMonths)
}

func TestBuildQuoteWithoutLeaserFallsBack(t *testing.T) {
	resolver := leasing.NewResolver(newScheduleRepo())
	product := &models.Product{ID: 8, PurchasePriceHT: 1000, MarginPercent: 20}

	quote := buildQuote(resolver, product, 36)

	assert.True(t, quote.Indicative)
	assert.InDelta(t, leasing.DefaultCoefficient(36), quote.Coefficient, 1e-9)
}

func TestBuildQuoteUncoveredAmountIsIndicative(t *testing.T) {
	resolver := leasing.NewResolver(newScheduleRepo())
	leaserID := uint(1)
	// 20000 selling price is outside the configured [0, 5000] range.
	product := &models.Product{
		ID:              9,
		PurchasePriceHT: 20000,
		MarginPercent:   0,
		DefaultLeaserID: &leaserID,
	}

	quote := buildQuote(resolver, product, 36)

	assert.True(t, quote.Indicative)
	// Lowest-minimum tier is the fallback before the hardcoded defaults.
	assert.InDelta(t, 3.5, quote.Coefficient, 1e-9)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "MacBook Pro 14", "macbook-pro-14"},
		{"punctuation", "Dell XPS 15\" (2024)", "dell-xps-15-2024"},
		{"leading trailing", "  Écran 27  ", "écran-27"},
		{"collapse dashes", "A -- B", "a-b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.in))
		})
	}
}
