package model

import "time"

// Product is a rentable item. Quantity is the total owned stock; Available is a
// manual "not for rent" override independent of stock.
type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"` // daily base rate
	Quantity    int64     `json:"quantity"`
	Available   bool      `json:"available"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
