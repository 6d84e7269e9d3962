package leasing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlon-leasing/marlon/app/models"
)

func newCascadeRepo() *memoryRepository {
	repo := newMemoryRepository()
	repo.durations = []models.LeasingDuration{{ID: 2, Months: 36}}
	// Schedule after an admin edit: [0, 5000] now at 4.0%.
	repo.tiers = []models.LeaserCoefficient{
		{ID: 1, LeaserID: 1, DurationID: 2, MinAmount: 0, MaxAmount: ptrFloat(5000), Coefficient: 4.0},
	}

	repo.orders = []models.Order{
		{ID: 1, Status: models.ORDER_STATUS_PENDING, LeaserID: ptrUint(1), LeasingDurationMonths: 36},
		{ID: 2, Status: models.ORDER_STATUS_DELIVERED, LeaserID: ptrUint(1), LeasingDurationMonths: 36},
		{ID: 3, Status: models.ORDER_STATUS_PENDING, LeaserID: ptrUint(1), LeasingDurationMonths: 36},
	}
	repo.orderItems = map[uint][]models.OrderItem{
		// selling 1200 -> monthly 48 at 4.0%
		1: {{ID: 11, OrderID: 1, ProductID: 7, Quantity: 1, PurchasePriceHT: 1000, MarginPercent: 20, CoefficientUsed: 3.5, CalculatedPriceHT: 42}},
		2: {{ID: 21, OrderID: 2, ProductID: 7, Quantity: 1, PurchasePriceHT: 1000, MarginPercent: 20, CoefficientUsed: 3.5, CalculatedPriceHT: 42}},
		// selling 12000 is no longer covered by any tier
		3: {{ID: 31, OrderID: 3, ProductID: 8, Quantity: 1, PurchasePriceHT: 10000, MarginPercent: 20, CoefficientUsed: 3.5, CalculatedPriceHT: 420}},
	}

	repo.cartItems = []models.CartItem{
		{ID: 41, CartID: 1, ProductID: 7, Quantity: 2, DurationMonths: 36,
			Product: &models.Product{ID: 7, PurchasePriceHT: 1000, MarginPercent: 20, DefaultLeaserID: ptrUint(1)}},
		{ID: 42, CartID: 1, ProductID: 9, Quantity: 1, DurationMonths: 36,
			Product: &models.Product{ID: 9, PurchasePriceHT: 500, MarginPercent: 10, DefaultLeaserID: ptrUint(2)}},
	}
	return repo
}

func TestCascadeRepricesOpenOrders(t *testing.T) {
	repo := newCascadeRepo()
	cascade := NewCascade(repo)

	result := cascade.OnCoefficientChanged(1, 36)

	assert.Equal(t, 1, result.OrdersUpdated)
	assert.Equal(t, 1, result.OrdersSkipped)

	// The pending order picked up the edited coefficient.
	assert.Equal(t, 4.0, repo.itemCoefficient[11])
	assert.InDelta(t, 48.0, repo.itemTotal[11], 1e-9)
	assert.InDelta(t, 48.0, repo.orderTotals[1], 1e-9)

	// The delivered order was never visited.
	_, touched := repo.itemCoefficient[21]
	assert.False(t, touched)
	_, touched = repo.orderTotals[2]
	assert.False(t, touched)
}

func TestCascadeSkipsOrderWithoutCoveringTier(t *testing.T) {
	repo := newCascadeRepo()
	cascade := NewCascade(repo)

	cascade.OnCoefficientChanged(1, 36)

	// Order 3's amount is uncovered: its stored prices stay untouched and
	// the sweep still updated its sibling.
	_, touched := repo.itemCoefficient[31]
	assert.False(t, touched)
	_, touched = repo.orderTotals[3]
	assert.False(t, touched)
	assert.Equal(t, 4.0, repo.itemCoefficient[11])
}

func TestCascadeRepricesCartItems(t *testing.T) {
	repo := newCascadeRepo()
	cascade := NewCascade(repo)

	result := cascade.OnCoefficientChanged(1, 36)
	require.Equal(t, 1, result.CartItemsUpdated)

	// Cart item 41: selling 1200 -> monthly 48, line total 96 for qty 2.
	assert.Equal(t, 4.0, repo.cartCoefficient[41])
	assert.InDelta(t, 48.0, repo.cartMonthly[41], 1e-9)
	assert.InDelta(t, 96.0, repo.cartTotal[41], 1e-9)

	// Cart item 42 belongs to another leaser's product.
	_, touched := repo.cartCoefficient[42]
	assert.False(t, touched)
}

func TestCascadeInvokesCacheInvalidation(t *testing.T) {
	repo := newCascadeRepo()
	calls := 0
	cascade := NewCascade(repo).WithCacheInvalidation(func() { calls++ })

	cascade.OnCoefficientChanged(1, 36)

	assert.Equal(t, 1, calls)
}

func TestCascadeAfterTierDeletion(t *testing.T) {
	repo := newCascadeRepo()
	// The admin deleted the only tier: every unit is skipped, nothing is
	// overwritten, nothing crashes.
	repo.tiers = nil
	cascade := NewCascade(repo)

	result := cascade.OnCoefficientChanged(1, 36)

	assert.Equal(t, 0, result.OrdersUpdated)
	assert.Equal(t, 2, result.OrdersSkipped)
	assert.Equal(t, 0, result.CartItemsUpdated)
	assert.Empty(t, repo.itemCoefficient)
	assert.Empty(t, repo.orderTotals)
}
