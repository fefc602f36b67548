// model/reservation.go
package model

import "time"

type ReservationStatus string

const (
	ReservationPending    ReservationStatus = "pending"
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCancelled  ReservationStatus = "cancelled"
	ReservationNoShow     ReservationStatus = "no_show"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type BookingSource string

const (
	SourceDirect      BookingSource = "direct"
	SourceBookingCom  BookingSource = "booking.com"
	SourceHostelworld BookingSource = "hostelworld"
	SourceAirbnb      BookingSource = "airbnb"
	SourceWalkIn      BookingSource = "walk_in"
	SourcePhone       BookingSource = "phone"
)

func ValidBookingSource(s BookingSource) bool {
	switch s {
	case SourceDirect, SourceBookingCom, SourceHostelworld, SourceAirbnb, SourceWalkIn, SourcePhone:
		return true
	}
	return false
}

// Reservation spans one or more rooms over a half-open date range
// [CheckInDate, CheckOutDate). Reservations are never deleted; cancellation
// and checkout are terminal statuses, not removals.
type Reservation struct {
	ID                 int64             `json:"id"`
	ConfirmationNumber string            `json:"confirmation_number"`
	GuestID            int64             `json:"guest_id"`
	Guest              Guest             `json:"guest"`
	RoomIDs            []int64           `json:"room_ids"`
	RoomNumbers        []string          `json:"room_numbers,omitempty"`
	RoomTypes          []RoomType        `json:"room_types,omitempty"`
	CheckInDate        time.Time         `json:"check_in_date"`
	CheckOutDate       time.Time         `json:"check_out_date"`
	Nights             int               `json:"nights"`
	Adults             int               `json:"adults"`
	Children           int               `json:"children"`
	Status             ReservationStatus `json:"status"`
	Source             BookingSource     `json:"source"`
	TotalAmount        float64           `json:"total_amount"`
	PaidAmount         float64           `json:"paid_amount"`
	PaymentStatus      PaymentStatus     `json:"payment_status"`
	PaymentIntentID    *string           `json:"payment_intent_id,omitempty"`
	Notes              *string           `json:"notes,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

type PaymentMethod string

const (
	MethodCash          PaymentMethod = "cash"
	MethodCard          PaymentMethod = "card"
	MethodBankTransfer  PaymentMethod = "bank_transfer"
	MethodDigitalWallet PaymentMethod = "digital_wallet"
	MethodGateway       PaymentMethod = "gateway"
)

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCash, MethodCard, MethodBankTransfer, MethodDigitalWallet, MethodGateway:
		return true
	}
	return false
}

// Payment is one append-only ledger row against a reservation. Refunds are
// negative amounts.
type Payment struct {
	ID              int64         `json:"id"`
	ReservationID   int64         `json:"reservation_id"`
	Amount          float64       `json:"amount"`
	Method          PaymentMethod `json:"method"`
	PaymentIntentID *string       `json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}
