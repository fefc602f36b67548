// Package calendarsvc derives display events from the reservation collection.
// There is no persisted event store; the projection is recomputed per request.
package calendarsvc

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PresidentAnderson/checkin.pvthostel.com/model"
	"github.com/PresidentAnderson/checkin.pvthostel.com/util/dates"
)

// markerSpan is the length of the check-in and check-out markers.
const markerSpan = 2 * time.Hour

type Repo interface {
	ByDateRange(ctx context.Context, from, to time.Time) ([]model.Reservation, error)
}

type Service interface {
	Events(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Events(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("calendar: empty range")
	}
	reservations, err := s.r.ByDateRange(ctx, dates.Midnight(from), dates.Midnight(to))
	if err != nil {
		return nil, err
	}
	return Project(reservations), nil
}

// Project maps reservations to calendar events: a 2-hour check-in marker, a
// full stay span and a 2-hour check-out marker per reservation. Cancelled and
// no_show reservations are excluded. Pure and order-independent: the same
// reservation set always yields the same event list.
func Project(reservations []model.Reservation) []model.CalendarEvent {
	events := make([]model.CalendarEvent, 0, 3*len(reservations))
	for i := range reservations {
		res := &reservations[i]
		switch res.Status {
		case model.ReservationConfirmed, model.ReservationCheckedIn, model.ReservationCheckedOut:
		default:
			continue
		}

		guest := res.Guest.FullName()
		rooms := strings.Join(res.RoomNumbers, ", ")

		events = append(events,
			model.CalendarEvent{
				ID:            fmt.Sprintf("checkin-%d", res.ID),
				Type:          model.EventCheckIn,
				Title:         "Check-in: " + guest,
				Start:         res.CheckInDate,
				End:           res.CheckInDate.Add(markerSpan),
				ReservationID: res.ID,
				RoomNumbers:   res.RoomNumbers,
				Status:        res.Status,
				PaymentStatus: res.PaymentStatus,
			},
			model.CalendarEvent{
				ID:            fmt.Sprintf("stay-%d", res.ID),
				Type:          model.EventStay,
				Title:         guest + " - Room " + rooms,
				Start:         res.CheckInDate,
				End:           res.CheckOutDate,
				ReservationID: res.ID,
				RoomNumbers:   res.RoomNumbers,
				Status:        res.Status,
				PaymentStatus: res.PaymentStatus,
			},
			model.CalendarEvent{
				ID:            fmt.Sprintf("checkout-%d", res.ID),
				Type:          model.EventCheckOut,
				Title:         "Check-out: " + guest,
				Start:         res.CheckOutDate.Add(-markerSpan),
				End:           res.CheckOutDate,
				ReservationID: res.ID,
				RoomNumbers:   res.RoomNumbers,
				Status:        res.Status,
				PaymentStatus: res.PaymentStatus,
			},
		)
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].ReservationID != events[j].ReservationID {
			return events[i].ReservationID < events[j].ReservationID
		}
		return typeOrder(events[i].Type) < typeOrder(events[j].Type)
	})
	return events
}

func typeOrder(t model.CalendarEventType) int {
	switch t {
	case model.EventCheckIn:
		return 0
	case model.EventStay:
		return 1
	default:
		return 2
	}
}
