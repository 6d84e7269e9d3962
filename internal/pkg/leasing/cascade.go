package leasing

import (
	"errors"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// Cascade re-prices every open order and cart line that depends on a
// (leaser, duration) pair after its coefficient schedule changed. It runs
// synchronously within the admin request that edited the schedule.
//
// Each order and each cart item is an independent unit of work: a missing
// tier for one of them is logged and skipped, its stored prices stay
// untouched, and the sweep continues.
type Cascade struct {
	repo   Repository
	engine *Engine

	// invalidate is called once after a sweep to drop cached catalog
	// quotes. Optional.
	invalidate func()
}

// CascadeResult summarizes one sweep.
type CascadeResult struct {
	OrdersUpdated    int
	OrdersSkipped    int
	CartItemsUpdated int
	CartItemsSkipped int
}

// NewCascade creates a cascade job from an injected repository.
func NewCascade(repo Repository) *Cascade {
	return &Cascade{repo: repo, engine: NewEngine(repo)}
}

// NewCascadeFromDB creates a cascade job from a GORM DB handle.
func NewCascadeFromDB(db *gorm.DB) *Cascade {
	return NewCascade(NewRepository(db))
}

// WithCacheInvalidation sets a hook called after each sweep.
func (cs *Cascade) WithCacheInvalidation(fn func()) *Cascade {
	cs.invalidate = fn
	return cs
}

// OnCoefficientChanged sweeps all dependents of the (leaser, duration)
// pair. It is invoked after every coefficient create, update and delete.
func (cs *Cascade) OnCoefficientChanged(leaserID uint, durationMonths int) CascadeResult {
	var result CascadeResult

	cs.sweepOrders(leaserID, durationMonths, &result)
	cs.sweepCartItems(leaserID, durationMonths, &result)

	if cs.invalidate != nil {
		cs.invalidate()
	}

	log.Infof("[Cascade] leaser=%d duration=%dmo: %d orders updated, %d skipped; %d cart items updated, %d skipped",
		leaserID, durationMonths, result.OrdersUpdated, result.OrdersSkipped,
		result.CartItemsUpdated, result.CartItemsSkipped)

	return result
}

func (cs *Cascade) sweepOrders(leaserID uint, durationMonths int, result *CascadeResult) {
	orders, err := cs.repo.ListOpenOrders(leaserID, durationMonths)
	if err != nil {
		log.Errorf("[Cascade] failed to list open orders for leaser %d: %v", leaserID, err)
		return
	}

	for _, order := range orders {
		items, err := cs.repo.ListOrderItems(order.ID)
		if err != nil {
			log.Errorf("[Cascade] failed to load items of order %d: %v", order.ID, err)
			result.OrdersSkipped++
			continue
		}
		if len(items) == 0 {
			continue
		}

		lineItems := make([]LineItem, 0, len(items))
		for _, item := range items {
			lineItems = append(lineItems, LineItem{
				ProductID:       item.ProductID,
				PurchasePriceHT: item.PurchasePriceHT,
				MarginPercent:   item.MarginPercent,
				Quantity:        item.Quantity,
			})
		}

		priced, _, err := cs.engine.Recalculate(lineItems, leaserID, durationMonths)
		if err != nil {
			// No covering tier anymore (e.g. the only one was deleted):
			// keep the stored prices and move on.
			if errors.Is(err, ErrTierNotFound) {
				log.Warnf("[Cascade] order %d skipped: %v", order.ID, err)
			} else {
				log.Errorf("[Cascade] order %d failed: %v", order.ID, err)
			}
			result.OrdersSkipped++
			continue
		}

		failed := false
		for i, item := range items {
			if err := cs.repo.UpdateOrderItemPricing(item.ID, priced[i].Coefficient, priced[i].CalculatedPriceHT); err != nil {
				log.Errorf("[Cascade] failed to update item %d of order %d: %v", item.ID, order.ID, err)
				failed = true
			}
		}
		if err := cs.repo.UpdateOrderTotal(order.ID, Total(priced)); err != nil {
			log.Errorf("[Cascade] failed to update total of order %d: %v", order.ID, err)
			failed = true
		}
		if failed {
			result.OrdersSkipped++
		} else {
			result.OrdersUpdated++
		}
	}
}

func (cs *Cascade) sweepCartItems(leaserID uint, durationMonths int, result *CascadeResult) {
	cartItems, err := cs.repo.ListCartItemsByDuration(durationMonths)
	if err != nil {
		log.Errorf("[Cascade] failed to list cart items for duration %dmo: %v", durationMonths, err)
		return
	}

	for _, cartItem := range cartItems {
		product := cartItem.Product
		if product == nil || product.DefaultLeaserID == nil || *product.DefaultLeaserID != leaserID {
			continue
		}

		// A cart line is priced as a one-item order.
		priced, _, err := cs.engine.Recalculate([]LineItem{{
			ProductID:       product.ID,
			PurchasePriceHT: product.PurchasePriceHT,
			MarginPercent:   product.MarginPercent,
			Quantity:        cartItem.Quantity,
		}}, leaserID, durationMonths)
		if err != nil {
			if errors.Is(err, ErrTierNotFound) {
				log.Warnf("[Cascade] cart item %d skipped: %v", cartItem.ID, err)
			} else {
				log.Errorf("[Cascade] cart item %d failed: %v", cartItem.ID, err)
			}
			result.CartItemsSkipped++
			continue
		}

		p := priced[0]
		if err := cs.repo.UpdateCartItemPricing(cartItem.ID, p.Coefficient, p.MonthlyPriceHT, p.CalculatedPriceHT); err != nil {
			log.Errorf("[Cascade] failed to update cart item %d: %v", cartItem.ID, err)
			result.CartItemsSkipped++
			continue
		}
		result.CartItemsUpdated++
	}
}
