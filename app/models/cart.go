package models

import (
	"time"

	"gorm.io/gorm"
)

// Cart holds the items an organization intends to lease. All items in one
// cart share a single leasing duration; the leaser is taken from the
// products' default leaser at pricing time.
type Cart struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrganizationID uint           `gorm:"not null;index" json:"organization_id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	DurationMonths int            `gorm:"not null;default:36" json:"duration_months"`
	Items          []CartItem     `gorm:"foreignKey:CartID" json:"items,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// CartItem is one product line in a cart. CalculatedMonthlyPriceHT and
// CalculatedPriceHT are persisted pricing results; they are rewritten by the
// recalculation engine whenever the item, the cart duration, or the
// underlying coefficient schedule changes.
type CartItem struct {
	ID                       uint      `gorm:"primaryKey" json:"id"`
	CartID                   uint      `gorm:"not null;index" json:"cart_id"`
	ProductID                uint      `gorm:"not null;index" json:"product_id"`
	Product                  *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity                 int       `gorm:"not null;default:1" json:"quantity"`
	DurationMonths           int       `gorm:"not null" json:"duration_months"`
	CoefficientUsed          float64   `gorm:"type:decimal(6,3)" json:"coefficient_used"`
	CalculatedMonthlyPriceHT float64   `gorm:"type:decimal(12,2)" json:"calculated_monthly_price_ht"`
	CalculatedPriceHT        float64   `gorm:"type:decimal(12,2)" json:"calculated_price_ht"`
	CreatedAt                time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
