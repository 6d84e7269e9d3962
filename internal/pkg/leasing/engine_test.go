package leasing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculateSingleItem(t *testing.T) {
	engine := NewEngine(newScheduleRepo())

	// purchase 1000, margin 20% -> selling 1200 -> monthly 42 at 3.5%,
	// line total 84 for qty 2.
	priced, coef, err := engine.Recalculate([]LineItem{
		{ProductID: 7, PurchasePriceHT: 1000, MarginPercent: 20, Quantity: 2},
	}, 1, 36)
	require.NoError(t, err)
	require.Len(t, priced, 1)

	assert.Equal(t, 3.5, coef)
	assert.InDelta(t, 42.0, priced[0].MonthlyPriceHT, 1e-9)
	assert.InDelta(t, 84.0, priced[0].CalculatedPriceHT, 1e-9)
	assert.Equal(t, 3.5, priced[0].Coefficient)
	assert.InDelta(t, 84.0, Total(priced), 1e-9)
}

func TestRecalculateUsesAggregateTier(t *testing.T) {
	engine := NewEngine(newScheduleRepo())

	// Each item alone would fall in the [0, 5000] tier at 3.5%, but the
	// undiscounted total (4 * 3600 = 14400) lands in the unbounded tier at
	// 3.0%. One coefficient applies to every line.
	items := []LineItem{
		{ProductID: 1, PurchasePriceHT: 3000, MarginPercent: 20, Quantity: 2},
		{ProductID: 2, PurchasePriceHT: 3000, MarginPercent: 20, Quantity: 2},
	}
	priced, coef, err := engine.Recalculate(items, 1, 36)
	require.NoError(t, err)

	assert.Equal(t, 3.0, coef)
	for _, p := range priced {
		assert.Equal(t, 3.0, p.Coefficient)
		assert.InDelta(t, 3600*0.03*2, p.CalculatedPriceHT, 1e-9)
	}
}

func TestRecalculateIsIdempotent(t *testing.T) {
	engine := NewEngine(newScheduleRepo())
	items := []LineItem{{ProductID: 7, PurchasePriceHT: 1000, MarginPercent: 20, Quantity: 1}}

	first, _, err := engine.Recalculate(items, 1, 36)
	require.NoError(t, err)
	second, _, err := engine.Recalculate(items, 1, 36)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecalculateNoCoveringTier(t *testing.T) {
	engine := NewEngine(newScheduleRepo())

	// Undiscounted total 6000 falls in the gap between the tiers.
	_, _, err := engine.Recalculate([]LineItem{
		{ProductID: 7, PurchasePriceHT: 5000, MarginPercent: 20, Quantity: 1},
	}, 1, 36)
	assert.ErrorIs(t, err, ErrTierNotFound)
}

func TestRecalculateMissingLeaser(t *testing.T) {
	engine := NewEngine(newScheduleRepo())

	_, _, err := engine.Recalculate([]LineItem{
		{ProductID: 7, PurchasePriceHT: 1000, MarginPercent: 20, Quantity: 1},
	}, 0, 36)
	assert.ErrorIs(t, err, ErrMissingLeaser)
}

func TestRecalculateNoItems(t *testing.T) {
	engine := NewEngine(newScheduleRepo())

	_, _, err := engine.Recalculate(nil, 1, 36)
	assert.ErrorIs(t, err, ErrNoItems)
}
