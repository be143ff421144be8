package model

import "time"

// Order is a derived, non-persisted view clustering bookings that share an
// order-group identifier. Status is the representative status (oldest booking);
// StatusDivergent is set when members disagree. Divergence is flagged, never
// auto-corrected.
type Order struct {
	OrderID         string        `json:"order_id"`
	CustomerName    string        `json:"customer_name"`
	CustomerEmail   string        `json:"customer_email"`
	CustomerPhone   string        `json:"customer_phone"`
	Bookings        []Booking     `json:"bookings"`
	TotalPrice      float64       `json:"total_price"`
	Status          BookingStatus `json:"status"`
	StatusDivergent bool          `json:"status_divergent"`
	CreatedAt       time.Time     `json:"created_at"`
}
