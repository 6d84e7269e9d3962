package leasing

import (
	"errors"
	"fmt"
)

var (
	// ErrTierNotFound means no coefficient covers the requested
	// amount/duration for the leaser. In strict mode this blocks the
	// operation; it is never silently defaulted when pricing a real order.
	ErrTierNotFound = errors.New("no coefficient configured for this amount and duration")

	// ErrMissingLeaser means the order or cart has no leaser assigned, so
	// no schedule can be consulted.
	ErrMissingLeaser = errors.New("no leaser assigned, pricing is not possible")

	// ErrNoItems means a recalculation was requested over an empty item set.
	ErrNoItems = errors.New("no line items to price")
)

// OverlapError reports a write-time conflict between a new coefficient range
// and an existing one for the same (leaser, duration).
type OverlapError struct {
	Min float64
	Max *float64
}

func (e *OverlapError) Error() string {
	if e.Max == nil {
		return fmt.Sprintf("amount range overlaps existing range %.2f and above", e.Min)
	}
	return fmt.Sprintf("amount range overlaps existing range %.2f - %.2f", e.Min, *e.Max)
}
