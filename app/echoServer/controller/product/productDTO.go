package product

type UpsertProductReq struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    int64   `json:"quantity" validate:"gte=0"`
	Available   bool    `json:"available"`
	CategoryID  *int64  `json:"category_id"`
	ImageURL    *string `json:"image_url"`
}

type SetAvailabilityReq struct {
	Available bool `json:"available"`
}
