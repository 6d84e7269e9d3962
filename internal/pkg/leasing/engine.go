package leasing

import (
	"gorm.io/gorm"
)

// Engine recalculates the prices of a set of line items that share one
// leaser and one duration (an order, or a cart treated item by item).
//
// The tier boundary is a property of the aggregate amount: the coefficient
// is selected once from the sum of all items' undiscounted selling prices
// and then applied uniformly. Pricing each item against its own amount
// would let a large order split into more favorable tiers, which is not the
// intended policy.
type Engine struct {
	repo     Repository
	resolver *Resolver
}

// NewEngine creates a recalculation engine from an injected repository.
func NewEngine(repo Repository) *Engine {
	return &Engine{repo: repo, resolver: NewResolver(repo)}
}

// NewEngineFromDB creates a recalculation engine from a GORM DB handle.
func NewEngineFromDB(db *gorm.DB) *Engine {
	return NewEngine(NewRepository(db))
}

// Resolver exposes the engine's resolver for display-mode lookups.
func (e *Engine) Resolver() *Resolver {
	return e.resolver
}

// Recalculate prices all items with a single coefficient resolved in strict
// mode from the pre-discount total. On ErrTierNotFound nothing is returned;
// callers must not partially apply prices. The returned slice preserves the
// input order.
func (e *Engine) Recalculate(items []LineItem, leaserID uint, durationMonths int) ([]PricedItem, float64, error) {
	if leaserID == 0 {
		return nil, 0, ErrMissingLeaser
	}
	if len(items) == 0 {
		return nil, 0, ErrNoItems
	}

	// The tier is selected by the undiscounted total: the sum of selling
	// prices before any coefficient is applied.
	initialTotal := 0.0
	for _, item := range items {
		initialTotal += SellingPrice(item.PurchasePriceHT, item.MarginPercent) * float64(item.Quantity)
	}

	coefficient, err := e.resolver.Resolve(leaserID, durationMonths, initialTotal)
	if err != nil {
		return nil, 0, err
	}

	priced := make([]PricedItem, 0, len(items))
	for _, item := range items {
		selling := SellingPrice(item.PurchasePriceHT, item.MarginPercent)
		monthly := MonthlyPrice(selling, coefficient)
		priced = append(priced, PricedItem{
			LineItem:          item,
			Coefficient:       coefficient,
			MonthlyPriceHT:    monthly,
			CalculatedPriceHT: LineTotal(monthly, item.Quantity),
		})
	}

	return priced, coefficient, nil
}

// Total sums the calculated line totals of a priced item set.
func Total(items []PricedItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.CalculatedPriceHT
	}
	return total
}
