package leasing

import (
	"errors"

	"gorm.io/gorm"

	"github.com/marlon-leasing/marlon/app/models"
)

// Repository provides the DB operations used by the resolver, the
// recalculation engine and the cascade job. Lookup methods return
// (nil, nil) when no row matches so callers can map "not found" to domain
// errors without depending on the storage layer.
type Repository interface {
	FindDurationByMonths(months int) (*models.LeasingDuration, error)
	FindTierForAmount(leaserID, durationID uint, amount float64) (*models.LeaserCoefficient, error)
	ListTiers(leaserID, durationID uint) ([]models.LeaserCoefficient, error)

	ListOpenOrders(leaserID uint, durationMonths int) ([]models.Order, error)
	ListOrderItems(orderID uint) ([]models.OrderItem, error)
	UpdateOrderItemPricing(itemID uint, coefficient, calculatedPriceHT float64) error
	UpdateOrderTotal(orderID uint, totalAmountHT float64) error

	ListCartItemsByDuration(durationMonths int) ([]models.CartItem, error)
	UpdateCartItemPricing(itemID uint, coefficient, monthlyPriceHT, totalPriceHT float64) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a leasing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindDurationByMonths(months int) (*models.LeasingDuration, error) {
	var d models.LeasingDuration
	err := r.db.Where("months = ?", months).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *gormRepository) FindTierForAmount(leaserID, durationID uint, amount float64) (*models.LeaserCoefficient, error) {
	// Bounded ranges first, widest min below the amount wins.
	var tier models.LeaserCoefficient
	err := r.db.
		Where("leaser_id = ? AND duration_id = ? AND min_amount <= ? AND max_amount IS NOT NULL AND max_amount >= ?",
			leaserID, durationID, amount, amount).
		Order("min_amount DESC").
		First(&tier).Error
	if err == nil {
		return &tier, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Fall back to an upper-unbounded range.
	err = r.db.
		Where("leaser_id = ? AND duration_id = ? AND min_amount <= ? AND max_amount IS NULL",
			leaserID, durationID, amount).
		Order("min_amount DESC").
		First(&tier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *gormRepository) ListTiers(leaserID, durationID uint) ([]models.LeaserCoefficient, error) {
	var tiers []models.LeaserCoefficient
	err := r.db.
		Where("leaser_id = ? AND duration_id = ?", leaserID, durationID).
		Order("min_amount ASC").
		Find(&tiers).Error
	return tiers, err
}

func (r *gormRepository) ListOpenOrders(leaserID uint, durationMonths int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Where("leaser_id = ? AND leasing_duration_months = ? AND status NOT IN ?",
			leaserID, durationMonths,
			[]string{models.ORDER_STATUS_DELIVERED, models.ORDER_STATUS_CANCELLED}).
		Find(&orders).Error
	return orders, err
}

func (r *gormRepository) ListOrderItems(orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.Where("order_id = ?", orderID).Find(&items).Error
	return items, err
}

func (r *gormRepository) UpdateOrderItemPricing(itemID uint, coefficient, calculatedPriceHT float64) error {
	return r.db.Model(&models.OrderItem{}).Where("id = ?", itemID).Updates(map[string]interface{}{
		"coefficient_used":    coefficient,
		"calculated_price_ht": calculatedPriceHT,
	}).Error
}

func (r *gormRepository) UpdateOrderTotal(orderID uint, totalAmountHT float64) error {
	return r.db.Model(&models.Order{}).Where("id = ?", orderID).
		Update("total_amount_ht", totalAmountHT).Error
}

func (r *gormRepository) ListCartItemsByDuration(durationMonths int) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.Preload("Product").Where("duration_months = ?", durationMonths).Find(&items).Error
	return items, err
}

func (r *gormRepository) UpdateCartItemPricing(itemID uint, coefficient, monthlyPriceHT, totalPriceHT float64) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", itemID).Updates(map[string]interface{}{
		"coefficient_used":            coefficient,
		"calculated_monthly_price_ht": monthlyPriceHT,
		"calculated_price_ht":         totalPriceHT,
	}).Error
}
