package reservation

type GuestReq struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	IDNumber  string `json:"id_number" validate:"required"`
}

type CreateReservationReq struct {
	Guest    GuestReq `json:"guest" validate:"required"`
	RoomIDs  []int64  `json:"room_ids" validate:"required,min=1,dive,gt=0"`
	CheckIn  string   `json:"check_in_date" validate:"required"`
	CheckOut string   `json:"check_out_date" validate:"required"`
	Adults   int      `json:"adults" validate:"gte=0"`
	Children int      `json:"children" validate:"gte=0"`
	Source   string   `json:"source" validate:"omitempty,oneof=direct booking.com hostelworld airbnb walk_in phone"`

	TotalAmount float64 `json:"total_amount" validate:"gte=0"`

	// PaymentIntentID carries a gateway intent that already succeeded, e.g. a
	// website booking paid before the reservation is created.
	PaymentIntentID *string `json:"payment_intent_id"`
}

type CancelReq struct {
	Reason string `json:"reason"`
}
