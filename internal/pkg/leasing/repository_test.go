package leasing

import (
	"github.com/marlon-leasing/marlon/app/models"
)

// memoryRepository is an in-memory Repository used by the resolver, engine
// and cascade tests.
type memoryRepository struct {
	durations  []models.LeasingDuration
	tiers      []models.LeaserCoefficient
	orders     []models.Order
	orderItems map[uint][]models.OrderItem
	cartItems  []models.CartItem

	orderTotals     map[uint]float64
	itemCoefficient map[uint]float64
	itemTotal       map[uint]float64
	cartCoefficient map[uint]float64
	cartMonthly     map[uint]float64
	cartTotal       map[uint]float64
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		orderItems:      map[uint][]models.OrderItem{},
		orderTotals:     map[uint]float64{},
		itemCoefficient: map[uint]float64{},
		itemTotal:       map[uint]float64{},
		cartCoefficient: map[uint]float64{},
		cartMonthly:     map[uint]float64{},
		cartTotal:       map[uint]float64{},
	}
}

func (m *memoryRepository) FindDurationByMonths(months int) (*models.LeasingDuration, error) {
	for i := range m.durations {
		if m.durations[i].Months == months {
			return &m.durations[i], nil
		}
	}
	return nil, nil
}

func (m *memoryRepository) FindTierForAmount(leaserID, durationID uint, amount float64) (*models.LeaserCoefficient, error) {
	// Ranges never overlap, so the first covering tier is the only one.
	for i := range m.tiers {
		t := &m.tiers[i]
		if t.LeaserID == leaserID && t.DurationID == durationID && t.Covers(amount) {
			return t, nil
		}
	}
	return nil, nil
}

func (m *memoryRepository) ListTiers(leaserID, durationID uint) ([]models.LeaserCoefficient, error) {
	var out []models.LeaserCoefficient
	for _, t := range m.tiers {
		if t.LeaserID == leaserID && t.DurationID == durationID {
			out = append(out, t)
		}
	}
	// keep min_amount ascending like the GORM implementation
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].MinAmount < out[i].MinAmount {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (m *memoryRepository) ListOpenOrders(leaserID uint, durationMonths int) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.LeaserID != nil && *o.LeaserID == leaserID &&
			o.LeasingDurationMonths == durationMonths &&
			!models.IsTerminalOrderStatus(o.Status) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memoryRepository) ListOrderItems(orderID uint) ([]models.OrderItem, error) {
	return m.orderItems[orderID], nil
}

func (m *memoryRepository) UpdateOrderItemPricing(itemID uint, coefficient, calculatedPriceHT float64) error {
	m.itemCoefficient[itemID] = coefficient
	m.itemTotal[itemID] = calculatedPriceHT
	return nil
}

func (m *memoryRepository) UpdateOrderTotal(orderID uint, totalAmountHT float64) error {
	m.orderTotals[orderID] = totalAmountHT
	return nil
}

func (m *memoryRepository) ListCartItemsByDuration(durationMonths int) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, ci := range m.cartItems {
		if ci.DurationMonths == durationMonths {
			out = append(out, ci)
		}
	}
	return out, nil
}

func (m *memoryRepository) UpdateCartItemPricing(itemID uint, coefficient, monthlyPriceHT, totalPriceHT float64) error {
	m.cartCoefficient[itemID] = coefficient
	m.cartMonthly[itemID] = monthlyPriceHT
	m.cartTotal[itemID] = totalPriceHT
	return nil
}

func ptrFloat(v float64) *float64 { return &v }
func ptrUint(v uint) *uint        { return &v }
