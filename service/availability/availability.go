// Package availability computes free stock for a product over a candidate
// date range from the product's total quantity and its existing bookings.
package availability

import (
	"time"

	"gearrental/model"
)

// Overlaps reports whether a booking's interval conflicts with [start, end].
// Boundaries are inclusive on both ends: a booking ending exactly when the
// query starts still conflicts. Kept for compatibility with the established
// behavior; do not relax without a product decision.
func Overlaps(b model.Booking, start, end time.Time) bool {
	return !b.StartDate.After(end) && !b.EndDate.Before(start)
}

// AvailableQuantity returns how many units of p remain un-reserved over
// [start, end]. With either date missing it reports the full nominal stock.
// Only pending and confirmed bookings for this product consume units.
// The result is never negative.
func AvailableQuantity(p model.Product, bookings []model.Booking, start, end *time.Time) int64 {
	if start == nil || end == nil {
		return p.Quantity
	}
	var reserved int64
	for _, b := range bookings {
		if b.ProductID != p.ID || !b.Status.ConsumesStock() {
			continue
		}
		if Overlaps(b, *start, *end) {
			reserved += b.Quantity
		}
	}
	if reserved >= p.Quantity {
		return 0
	}
	return p.Quantity - reserved
}

// IsQuantityAvailable reports whether requested units can be reserved over
// [start, end]. A product manually marked unavailable never has stock,
// regardless of the quantity math.
func IsQuantityAvailable(p model.Product, bookings []model.Booking, requested int64, start, end *time.Time) bool {
	if !p.Available {
		return false
	}
	return requested <= AvailableQuantity(p, bookings, start, end)
}
