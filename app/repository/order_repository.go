package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/marlon-leasing/marlon/app/models"
)

// orderRepository implements the OrderRepository interface
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository instance
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create stores a new order with its items, the initial status history row
// and an empty tracking record, all in one transaction.
func (r *orderRepository) Create(order *models.Order, items []models.OrderItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		history := models.OrderStatusHistory{
			OrderID:   order.ID,
			NewStatus: order.Status,
			ChangedBy: order.UserID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}
		tracking := models.OrderTracking{OrderID: order.ID}
		tracking.SyncFromOrderStatus(order.Status)
		return tx.Create(&tracking).Error
	})
}

// GetByID retrieves an order with its items, leaser and tracking
func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Preload("Items.Product").Preload("Leaser").
		Preload("Organization").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByOrderNumber retrieves an order by its public order number
func (r *orderRepository) GetByOrderNumber(number string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Preload("Items.Product").Preload("Leaser").
		Where("order_number = ?", number).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByOrganization retrieves the orders of one organization, newest first
func (r *orderRepository) ListByOrganization(organizationID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Preload("Leaser").
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// List retrieves a page of all orders for the back office, newest first
func (r *orderRepository) List(offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Preload("Leaser").Preload("Organization").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	return orders, err
}

// Count returns the total number of orders
func (r *orderRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Count(&count).Error
	return count, err
}

// Update updates an existing order
func (r *orderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

// UpdateItemPricing stores a recalculated coefficient and line total on one
// order item.
func (r *orderRepository) UpdateItemPricing(itemID uint, coefficient, calculatedPriceHT float64) error {
	return r.db.Model(&models.OrderItem{}).Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"coefficient_used":    coefficient,
			"calculated_price_ht": calculatedPriceHT,
		}).Error
}

// AddItem attaches a new item to an order
func (r *orderRepository) AddItem(item *models.OrderItem) error {
	return r.db.Create(item).Error
}

// RemoveItem removes a single order item
func (r *orderRepository) RemoveItem(itemID uint) error {
	return r.db.Delete(&models.OrderItem{}, itemID).Error
}

// ChangeStatus moves an order to a new status, appends the history row and
// syncs the tracking record. Cancelling additionally deletes the order
// items; history rows are kept.
func (r *orderRepository) ChangeStatus(order *models.Order, newStatus string, changedBy uint) error {
	previous := order.Status
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("status", newStatus).Error; err != nil {
			return err
		}
		history := models.OrderStatusHistory{
			OrderID:        order.ID,
			PreviousStatus: previous,
			NewStatus:      newStatus,
			ChangedBy:      changedBy,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}
		if newStatus == models.ORDER_STATUS_CANCELLED {
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
		}
		var tracking models.OrderTracking
		err := tx.Where("order_id = ?", order.ID).First(&tracking).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tracking = models.OrderTracking{OrderID: order.ID}
			tracking.SyncFromOrderStatus(newStatus)
			if err := tx.Create(&tracking).Error; err != nil {
				return err
			}
			order.Status = newStatus
			return nil
		}
		if err != nil {
			return err
		}
		tracking.SyncFromOrderStatus(newStatus)
		if err := tx.Save(&tracking).Error; err != nil {
			return err
		}
		order.Status = newStatus
		return nil
	})
}

// GetTracking retrieves the tracking record of an order
func (r *orderRepository) GetTracking(orderID uint) (*models.OrderTracking, error) {
	var tracking models.OrderTracking
	err := r.db.Where("order_id = ?", orderID).First(&tracking).Error
	if err != nil {
		return nil, err
	}
	return &tracking, nil
}

// SaveTracking persists a tracking record
func (r *orderRepository) SaveTracking(tracking *models.OrderTracking) error {
	return r.db.Save(tracking).Error
}

// ListStatusHistory retrieves the status transitions of an order, oldest first
func (r *orderRepository) ListStatusHistory(orderID uint) ([]models.OrderStatusHistory, error) {
	var history []models.OrderStatusHistory
	err := r.db.Where("order_id = ?", orderID).Order("created_at ASC, id ASC").Find(&history).Error
	return history, err
}

// ListLogs retrieves the audit log of an order, newest first
func (r *orderRepository) ListLogs(orderID uint) ([]models.OrderLog, error) {
	var logs []models.OrderLog
	err := r.db.Where("order_id = ?", orderID).Order("created_at DESC, id DESC").Find(&logs).Error
	return logs, err
}
