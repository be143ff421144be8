package booking

type UpdateStatusReq struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

type ApplyGroupStatusReq struct {
	BookingIDs []int64 `json:"booking_ids" validate:"required,min=1,dive,gt=0"`
	Status     string  `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}
