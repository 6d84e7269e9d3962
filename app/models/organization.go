package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Organization is a customer company. Orders and carts belong to an
// organization, not to a single user.
type Organization struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"type:varchar(200);not null" json:"name" validate:"required,min=2,max=200"`
	Siret      string         `gorm:"type:varchar(14)" json:"siret" validate:"omitempty,len=14"`
	Email      string         `gorm:"type:varchar(200)" json:"email" validate:"omitempty,email"`
	Phone      string         `gorm:"type:varchar(30)" json:"phone"`
	Address    string         `gorm:"type:varchar(255)" json:"address"`
	City       string         `gorm:"type:varchar(100)" json:"city"`
	PostalCode string         `gorm:"type:varchar(20)" json:"postal_code"`
	Country    string         `gorm:"type:varchar(100);default:'France'" json:"country"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (o *Organization) Validate() error {
	v := validator.New()

	return v.Struct(o)
}

// DeliveryAddress is a reusable shipping address owned by an organization.
type DeliveryAddress struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;index" json:"organization_id"`
	Name           string    `gorm:"type:varchar(150);not null" json:"name"`
	Address        string    `gorm:"type:varchar(255);not null" json:"address"`
	City           string    `gorm:"type:varchar(100);not null" json:"city"`
	PostalCode     string    `gorm:"type:varchar(20);not null" json:"postal_code"`
	Country        string    `gorm:"type:varchar(100);default:'France'" json:"country"`
	ContactName    string    `gorm:"type:varchar(150)" json:"contact_name"`
	ContactPhone   string    `gorm:"type:varchar(30)" json:"contact_phone"`
	Instructions   string    `gorm:"type:text" json:"instructions"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
