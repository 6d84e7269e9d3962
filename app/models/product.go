package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Product is a leasable piece of equipment. PurchasePriceHT and
// MarginPercent are the pricing inputs; the selling price and monthly rate
// are always derived, never stored on the product itself.
type Product struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"type:varchar(200);not null" json:"name" validate:"required,min=2,max=200"`
	Slug            string         `gorm:"type:varchar(200);not null;uniqueIndex" json:"slug"`
	Reference       string         `gorm:"type:varchar(100);index" json:"reference"`
	Description     string         `gorm:"type:text" json:"description"`
	BrandID         *uint          `gorm:"index" json:"brand_id,omitempty"`
	Brand           *Brand         `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	CategoryID      *uint          `gorm:"index" json:"category_id,omitempty"`
	Category        *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	PurchasePriceHT float64        `gorm:"type:decimal(12,2);not null" json:"purchase_price_ht" validate:"gte=0"`
	MarginPercent   float64        `gorm:"type:decimal(6,2);not null" json:"margin_percent" validate:"gte=0"`
	DefaultLeaserID *uint          `gorm:"index" json:"default_leaser_id,omitempty"`
	DefaultLeaser   *Leaser        `gorm:"foreignKey:DefaultLeaserID" json:"default_leaser,omitempty"`
	IsActive        bool           `gorm:"default:true;index" json:"is_active"`
	Images          []ProductImage `gorm:"foreignKey:ProductID" json:"images,omitempty"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Product) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// SellingPriceHT returns purchase price plus the platform margin, excl. tax.
func (p *Product) SellingPriceHT() float64 {
	return p.PurchasePriceHT * (1 + p.MarginPercent/100)
}

type ProductImage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProductID    uint      `gorm:"not null;index" json:"product_id"`
	ImageURL     string    `gorm:"type:varchar(255);not null" json:"image_url"`
	ThumbnailURL string    `gorm:"type:varchar(255)" json:"thumbnail_url"`
	OrderIndex   int       `gorm:"default:0" json:"order_index"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
