// Package pricing computes rental charges under the tiered daily-rate schedule.
//
// Tiers, by billed days (days = ceil(hours/24)):
//
//	<= 4 hours        base * 0.7   (short-rental minimum, flat)
//	1-2 days          base * 1.0 * days
//	3-4 days          base * 0.9 * days
//	5+ days           base * 0.7 * days
package pricing

import (
	"math"
	"time"
)

// ShortRentalMaxHours is the longest duration billed at the flat short-rental rate.
const ShortRentalMaxHours = 4

const (
	fullRate       = 1.0
	midTierRate    = 0.9 // 3-4 days
	longTierRate   = 0.7 // 5+ days
	shortRate      = 0.7 // <= 4 hours, flat off one day
	midTierMinDays = 3
	longTierDays   = 5
)

// Quote is the display breakdown of one rental charge. Subtotal and Discount
// may retain decimals; Total is rounded to a whole currency unit.
type Quote struct {
	Hours    float64 `json:"hours"`
	Days     int64   `json:"days"`
	Rate     float64 `json:"rate"` // effective per-day multiplier
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// Cost returns the unrounded rental charge for basePrice over durationHours.
// Quantity multiplies this per-unit result, never basePrice before tiering.
// Non-positive durations are charged at the short-rental minimum.
func Cost(basePrice, durationHours float64) float64 {
	if durationHours <= ShortRentalMaxHours {
		return basePrice * shortRate
	}
	days := billedDays(durationHours)
	return basePrice * float64(days) * dayRate(days)
}

// CostForRange is Cost with the duration derived from a date pair.
func CostForRange(basePrice float64, start, end time.Time) float64 {
	return Cost(basePrice, end.Sub(start).Hours())
}

// ForDuration returns the full breakdown for one unit.
func ForDuration(basePrice, durationHours float64) Quote {
	if durationHours <= ShortRentalMaxHours {
		return Quote{
			Hours:    durationHours,
			Days:     1,
			Rate:     shortRate,
			Subtotal: basePrice,
			Discount: basePrice * (fullRate - shortRate),
			Total:    math.Round(basePrice * shortRate),
		}
	}
	days := billedDays(durationHours)
	rate := dayRate(days)
	subtotal := basePrice * float64(days)
	return Quote{
		Hours:    durationHours,
		Days:     days,
		Rate:     rate,
		Subtotal: subtotal,
		Discount: subtotal * (fullRate - rate),
		Total:    math.Round(subtotal * rate),
	}
}

// ForRange is ForDuration with the duration derived from a date pair.
func ForRange(basePrice float64, start, end time.Time) Quote {
	return ForDuration(basePrice, end.Sub(start).Hours())
}

func billedDays(hours float64) int64 {
	return int64(math.Ceil(hours / 24))
}

func dayRate(days int64) float64 {
	switch {
	case days >= longTierDays:
		return longTierRate
	case days >= midTierMinDays:
		return midTierRate
	default:
		return fullRate
	}
}
