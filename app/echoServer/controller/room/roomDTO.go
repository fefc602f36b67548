package room

type CreateRoomReq struct {
	Number    string  `json:"number" validate:"required"`
	Type      string  `json:"type" validate:"required,oneof=dorm private suite family"`
	Capacity  int     `json:"capacity" validate:"required,gt=0"`
	BasePrice float64 `json:"base_price" validate:"gte=0"`
	Floor     int     `json:"floor"`
}

type SetStatusReq struct {
	Status string `json:"status" validate:"required,oneof=available occupied maintenance cleaning out_of_order"`
}

type UpdatePricingReq struct {
	BasePrice float64 `json:"base_price" validate:"gte=0"`
}
