package models

import (
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// OrderStatusHistory is an append-only record of status transitions. Rows
// are never updated or deleted, including when the order itself is
// cancelled.
type OrderStatusHistory struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrderID        uint      `gorm:"not null;index" json:"order_id"`
	PreviousStatus string    `gorm:"type:varchar(50)" json:"previous_status"`
	NewStatus      string    `gorm:"type:varchar(50);not null" json:"new_status"`
	ChangedBy      uint      `gorm:"index" json:"changed_by"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

const (
	ORDER_LOG_CREATED        = "created"
	ORDER_LOG_UPDATED        = "updated"
	ORDER_LOG_STATUS_CHANGED = "status_changed"
	ORDER_LOG_ITEM_ADDED     = "item_added"
	ORDER_LOG_ITEM_REMOVED   = "item_removed"
	ORDER_LOG_PRICES_UPDATED = "prices_updated"
	ORDER_LOG_DOCUMENT_ADDED = "document_added"
)

// OrderLog is the back-office audit trail for an order.
type OrderLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	ActionType  string    `gorm:"type:varchar(50);not null" json:"action_type"`
	Description string    `gorm:"type:text" json:"description"`
	Metadata    string    `gorm:"type:longtext" json:"metadata"`
	UserID      *uint     `json:"user_id,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// CreateOrderLog appends an audit entry. Log failures never break the main
// operation; they are only logged.
func CreateOrderLog(db *gorm.DB, orderID uint, actionType, description, metadataJSON string, userID *uint) {
	entry := OrderLog{
		OrderID:     orderID,
		ActionType:  actionType,
		Description: description,
		Metadata:    metadataJSON,
		UserID:      userID,
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Errorf("[OrderLog] failed to create log for order %d: %v", orderID, err)
	}
}
