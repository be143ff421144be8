package model

import "time"

// CartItem is one line of a shopper's in-progress selection. Title, Price and
// ImageURL are snapshots taken at add-time; the line is not authoritative and
// every mutation re-validates against server-side availability.
type CartItem struct {
	ID        string    `json:"id"`
	ProductID int64     `json:"product_id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"` // daily base rate snapshot
	ImageURL  *string   `json:"image_url,omitempty"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Quantity  int64     `json:"quantity"`
}
