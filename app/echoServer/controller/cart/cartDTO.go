package cart

import "time"

type AddItemReq struct {
	ProductID int64      `json:"product_id" validate:"required,gt=0"`
	StartDate *time.Time `json:"start_date" validate:"required"`
	EndDate   *time.Time `json:"end_date" validate:"required"`
	Quantity  int64      `json:"quantity" validate:"omitempty,gt=0"` // defaults to 1
}

type UpdateQuantityReq struct {
	Quantity int64 `json:"quantity"` // <= 0 removes the line
}

type RedateReq struct {
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

type CheckoutReq struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
	Notes string `json:"notes"`
}
