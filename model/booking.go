package model

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// ConsumesStock reports whether a booking in this status reserves units.
// Cancelled and completed bookings never reduce reported availability.
func (s BookingStatus) ConsumesStock() bool {
	return s == BookingPending || s == BookingConfirmed
}

type Booking struct {
	ID            int64         `json:"id"`
	ProductID     int64         `json:"product_id"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
	CustomerPhone string        `json:"customer_phone"`
	StartDate     time.Time     `json:"start_date"`
	EndDate       time.Time     `json:"end_date"` // invariant: StartDate < EndDate
	Status        BookingStatus `json:"status"`
	Quantity      int64         `json:"quantity"`    // units reserved, >= 1
	TotalPrice    float64       `json:"total_price"` // computed at creation, stored
	Notes         *string       `json:"notes,omitempty"`
	OrderID       *string       `json:"order_id,omitempty"` // links bookings from one checkout
	CreatedAt     time.Time     `json:"created_at"`
}
