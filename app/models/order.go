package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Order lifecycle. An order progresses through the statuses in
// OrderStatusProgression order; "cancelled" is reachable from any
// non-terminal state. "delivered" and "cancelled" are terminal: once
// reached, the order is never repriced again.
const (
	ORDER_STATUS_DRAFT             = "draft"
	ORDER_STATUS_PENDING           = "pending"
	ORDER_STATUS_SENT_TO_LEASER    = "sent_to_leaser"
	ORDER_STATUS_LEASER_ACCEPTED   = "leaser_accepted"
	ORDER_STATUS_CONTRACT_UPLOADED = "contract_uploaded"
	ORDER_STATUS_PROCESSING        = "processing"
	ORDER_STATUS_SHIPPED           = "shipped"
	ORDER_STATUS_DELIVERED         = "delivered"
	ORDER_STATUS_CANCELLED         = "cancelled"
)

// OrderStatusProgression is the forward path of an order, used to sync the
// tracking record when an admin moves the status.
var OrderStatusProgression = []string{
	ORDER_STATUS_DRAFT,
	ORDER_STATUS_PENDING,
	ORDER_STATUS_SENT_TO_LEASER,
	ORDER_STATUS_LEASER_ACCEPTED,
	ORDER_STATUS_CONTRACT_UPLOADED,
	ORDER_STATUS_PROCESSING,
	ORDER_STATUS_SHIPPED,
	ORDER_STATUS_DELIVERED,
}

// IsValidOrderStatus reports whether s is a known order status.
func IsValidOrderStatus(s string) bool {
	if s == ORDER_STATUS_CANCELLED {
		return true
	}
	for _, v := range OrderStatusProgression {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminalOrderStatus reports whether an order in status s is excluded
// from repricing (cascade sweeps and admin edits).
func IsTerminalOrderStatus(s string) bool {
	return s == ORDER_STATUS_DELIVERED || s == ORDER_STATUS_CANCELLED
}

// OrderStatusRank returns the position of s in the forward progression, or
// -1 for cancelled/unknown statuses.
func OrderStatusRank(s string) int {
	for i, v := range OrderStatusProgression {
		if v == s {
			return i
		}
	}
	return -1
}

type Order struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	OrderNumber    string        `gorm:"type:varchar(36);not null;uniqueIndex" json:"order_number"`
	OrganizationID uint          `gorm:"not null;index" json:"organization_id"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	UserID         uint          `gorm:"not null;index" json:"user_id"`
	Status         string        `gorm:"type:varchar(50);not null;default:'pending';index:idx_orders_pricing,priority:3" json:"status" validate:"required"`

	// Pricing context: one leaser and one duration for the whole order.
	LeaserID              *uint   `gorm:"index:idx_orders_pricing,priority:1" json:"leaser_id,omitempty"`
	Leaser                *Leaser `gorm:"foreignKey:LeaserID" json:"leaser,omitempty"`
	LeasingDurationMonths int     `gorm:"not null;index:idx_orders_pricing,priority:2" json:"leasing_duration_months"`
	TotalAmountHT         float64 `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount_ht"`

	// Display-only admin overrides set on the back-office summary. They never
	// touch the order items.
	OverridePurchasePriceHT *float64 `gorm:"type:decimal(12,2)" json:"override_purchase_price_ht,omitempty"`
	OverrideCaMarlonHT      *float64 `gorm:"type:decimal(12,2)" json:"override_ca_marlon_ht,omitempty"`
	OverrideMonthlyTTC      *float64 `gorm:"type:decimal(12,2)" json:"override_monthly_ttc,omitempty"`

	// Delivery snapshot, kept on the order for historical accuracy even if
	// the source address record changes later.
	DeliveryAddressID    *uint  `json:"delivery_address_id,omitempty"`
	DeliveryName         string `gorm:"type:varchar(150)" json:"delivery_name"`
	DeliveryAddress      string `gorm:"type:varchar(255)" json:"delivery_address"`
	DeliveryCity         string `gorm:"type:varchar(100)" json:"delivery_city"`
	DeliveryPostalCode   string `gorm:"type:varchar(20)" json:"delivery_postal_code"`
	DeliveryCountry      string `gorm:"type:varchar(100)" json:"delivery_country"`
	DeliveryContactName  string `gorm:"type:varchar(150)" json:"delivery_contact_name"`
	DeliveryContactPhone string `gorm:"type:varchar(30)" json:"delivery_contact_phone"`
	DeliveryInstructions string `gorm:"type:text" json:"delivery_instructions"`

	Items     []OrderItem    `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (o *Order) Validate() error {
	v := validator.New()

	return v.Struct(o)
}

// IsEditable reports whether the order may still be repriced or modified.
func (o *Order) IsEditable() bool {
	return !IsTerminalOrderStatus(o.Status)
}

// OrderItem is one leased unit. Purchase price and margin are snapshotted
// from the product at checkout; CalculatedPriceHT and CoefficientUsed are
// rewritten by the recalculation engine.
type OrderItem struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	OrderID           uint      `gorm:"not null;index" json:"order_id"`
	ProductID         uint      `gorm:"not null;index" json:"product_id"`
	Product           *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity          int       `gorm:"not null;default:1" json:"quantity"`
	PurchasePriceHT   float64   `gorm:"type:decimal(12,2);not null" json:"purchase_price_ht"`
	MarginPercent     float64   `gorm:"type:decimal(6,2);not null" json:"margin_percent"`
	CoefficientUsed   float64   `gorm:"type:decimal(6,3)" json:"coefficient_used"`
	CalculatedPriceHT float64   `gorm:"type:decimal(12,2)" json:"calculated_price_ht"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
