package models

import (
	"time"

	"gorm.io/gorm"
)

type Brand struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(150);not null;uniqueIndex" json:"name"`
	Slug      string         `gorm:"type:varchar(150);not null;uniqueIndex" json:"slug"`
	LogoURL   string         `gorm:"type:varchar(255)" json:"logo_url"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
