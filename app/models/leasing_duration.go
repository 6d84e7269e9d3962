package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// LeasingDuration is one offered contract length (e.g. 24, 36, 48, 60 months).
type LeasingDuration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Months    int       `gorm:"not null;uniqueIndex" json:"months" validate:"required,gt=0"`
	Label     string    `gorm:"type:varchar(50)" json:"label"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (d *LeasingDuration) Validate() error {
	v := validator.New()

	return v.Struct(d)
}
