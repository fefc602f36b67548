package model

import "time"

type CalendarEventType string

const (
	EventCheckIn  CalendarEventType = "check_in"
	EventStay     CalendarEventType = "stay"
	EventCheckOut CalendarEventType = "check_out"
)

// CalendarEvent is a derived display event; there is no persisted event store.
// PaymentStatus is carried on every event so consumers can highlight
// pending-payment reservations.
type CalendarEvent struct {
	ID            string            `json:"id"`
	Type          CalendarEventType `json:"type"`
	Title         string            `json:"title"`
	Start         time.Time         `json:"start"`
	End           time.Time         `json:"end"`
	ReservationID int64             `json:"reservation_id"`
	RoomNumbers   []string          `json:"room_numbers"`
	Status        ReservationStatus `json:"status"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
}
