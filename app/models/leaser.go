package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Leaser is a financing partner. Leasers own the coefficient schedule that
// converts selling prices into monthly lease payments.
type Leaser struct {
	ID           uint                `gorm:"primaryKey" json:"id"`
	Name         string              `gorm:"type:varchar(150);not null;uniqueIndex" json:"name" validate:"required,min=2,max=150"`
	ContactEmail string              `gorm:"type:varchar(200)" json:"contact_email" validate:"omitempty,email"`
	ContactPhone string              `gorm:"type:varchar(30)" json:"contact_phone"`
	IsActive     bool                `gorm:"default:true;index" json:"is_active"`
	Coefficients []LeaserCoefficient `gorm:"foreignKey:LeaserID" json:"coefficients,omitempty"`
	CreatedAt    time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt      `gorm:"index" json:"-"`
}

func (l *Leaser) Validate() error {
	v := validator.New()

	return v.Struct(l)
}
