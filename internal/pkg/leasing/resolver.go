package leasing

import (
	"gorm.io/gorm"

	"github.com/marlon-leasing/marlon/app/models"
)

// Resolver selects the applicable coefficient for a (leaser, duration,
// amount) triple from the leaser's tier schedule.
type Resolver struct {
	repo Repository
}

// NewResolver creates a resolver from an injected repository.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// NewResolverFromDB creates a resolver from a GORM DB handle.
func NewResolverFromDB(db *gorm.DB) *Resolver {
	return NewResolver(NewRepository(db))
}

// Resolve returns the coefficient covering the amount, in strict mode:
// a missing duration or an uncovered amount yields ErrTierNotFound. Used
// whenever a real order or cart is priced.
func (r *Resolver) Resolve(leaserID uint, durationMonths int, amount float64) (float64, error) {
	tier, err := r.resolveTier(leaserID, durationMonths, amount)
	if err != nil {
		return 0, err
	}
	if tier == nil {
		return 0, ErrTierNotFound
	}
	return tier.Coefficient, nil
}

// ResolveDisplay returns a coefficient in best-effort mode for catalog
// browsing: a strict hit when possible, otherwise the leaser's lowest tier,
// otherwise the duration's default rate. The second return value is true
// when a fallback was used; such a rate is indicative only and must never
// price a real order.
func (r *Resolver) ResolveDisplay(leaserID uint, durationMonths int, amount float64) (float64, bool) {
	tier, err := r.resolveTier(leaserID, durationMonths, amount)
	if err == nil && tier != nil {
		return tier.Coefficient, false
	}

	if duration, derr := r.repo.FindDurationByMonths(durationMonths); derr == nil && duration != nil {
		if tiers, lerr := r.repo.ListTiers(leaserID, duration.ID); lerr == nil && len(tiers) > 0 {
			// ListTiers orders by min_amount ascending
			return tiers[0].Coefficient, true
		}
	}

	return DefaultCoefficient(durationMonths), true
}

// BestDisplayRate picks, across candidate durations, the quote a product
// page should open with. When several durations cover the amount, the one
// with the lowest coefficient wins (cheapest for the customer).
func (r *Resolver) BestDisplayRate(leaserID uint, durations []int, amount float64) (int, float64) {
	bestMonths := 0
	bestCoef := 0.0
	for _, months := range durations {
		coef, err := r.Resolve(leaserID, months, amount)
		if err != nil {
			continue
		}
		if bestMonths == 0 || coef < bestCoef {
			bestMonths = months
			bestCoef = coef
		}
	}
	if bestMonths == 0 && len(durations) > 0 {
		// Nothing configured; fall back to the first candidate's default.
		bestMonths = durations[0]
		bestCoef = DefaultCoefficient(bestMonths)
	}
	return bestMonths, bestCoef
}

func (r *Resolver) resolveTier(leaserID uint, durationMonths int, amount float64) (*models.LeaserCoefficient, error) {
	duration, err := r.repo.FindDurationByMonths(durationMonths)
	if err != nil {
		return nil, err
	}
	if duration == nil {
		return nil, nil
	}
	return r.repo.FindTierForAmount(leaserID, duration.ID, amount)
}

// ValidateNoOverlap checks a new or edited range against the existing tiers
// of the same (leaser, duration). excludeID skips the tier being edited.
// Gaps between ranges are allowed; intersections are not.
func ValidateNoOverlap(existing []models.LeaserCoefficient, min float64, max *float64, excludeID uint) error {
	for i := range existing {
		tier := &existing[i]
		if tier.ID == excludeID {
			continue
		}
		if tier.Overlaps(min, max) {
			return &OverlapError{Min: tier.MinAmount, Max: tier.MaxAmount}
		}
	}
	return nil
}
