package models

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

// LeaserCoefficient is one row of a leaser's rate schedule: the coefficient
// (a percentage, e.g. 3.50 for 3.50%) valid for a closed amount range at a
// given duration. MaxAmount is nil for an upper-unbounded range.
//
// Within one (leaser, duration) pair the amount ranges must never overlap;
// that invariant is enforced at write time, not by the schema.
type LeaserCoefficient struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	LeaserID    uint             `gorm:"not null;index:idx_leaser_coefficients_pair,priority:1" json:"leaser_id" validate:"required"`
	Leaser      *Leaser          `gorm:"foreignKey:LeaserID" json:"leaser,omitempty"`
	DurationID  uint             `gorm:"not null;index:idx_leaser_coefficients_pair,priority:2" json:"duration_id" validate:"required"`
	Duration    *LeasingDuration `gorm:"foreignKey:DurationID" json:"duration,omitempty"`
	MinAmount   float64          `gorm:"type:decimal(12,2);not null" json:"min_amount" validate:"gte=0"`
	MaxAmount   *float64         `gorm:"type:decimal(12,2)" json:"max_amount"`
	Coefficient float64          `gorm:"type:decimal(6,3);not null" json:"coefficient" validate:"gt=0"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (lc *LeaserCoefficient) Validate() error {
	v := validator.New()

	return v.Struct(lc)
}

// UpperBound returns the inclusive upper bound of the range, +Inf when the
// range is unbounded.
func (lc *LeaserCoefficient) UpperBound() float64 {
	if lc.MaxAmount == nil {
		return math.Inf(1)
	}
	return *lc.MaxAmount
}

// Covers reports whether amount falls inside this tier's range.
func (lc *LeaserCoefficient) Covers(amount float64) bool {
	return amount >= lc.MinAmount && amount <= lc.UpperBound()
}

// Overlaps reports whether the [min, max] interval intersects this tier's
// range. A nil max means unbounded.
func (lc *LeaserCoefficient) Overlaps(min float64, max *float64) bool {
	upper := math.Inf(1)
	if max != nil {
		upper = *max
	}
	return min <= lc.UpperBound() && upper >= lc.MinAmount
}
