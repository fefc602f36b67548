package reservation

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PresidentAnderson/checkin.pvthostel.com/model"
	reservationrepo "github.com/PresidentAnderson/checkin.pvthostel.com/repository/reservation"
	"github.com/PresidentAnderson/checkin.pvthostel.com/util/dates"
)

// errors used by controllers

type ErrCode string

const (
	ErrValidation      ErrCode = "VALIDATION"
	ErrRoomUnavailable ErrCode = "ROOM_UNAVAILABLE"
	ErrInvalidState    ErrCode = "INVALID_STATE"
	ErrNotFound        ErrCode = "NOT_FOUND"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// StatusRow = repository shape
type StatusRow = reservationrepo.StatusRow

type TxRunner interface {
	RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type Repo interface {
	Insert(ctx context.Context, tx *sql.Tx, res *model.Reservation) error
	GetByID(ctx context.Context, id int64) (*model.Reservation, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*StatusRow, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status model.ReservationStatus) error
	AppendNote(ctx context.Context, tx *sql.Tx, id int64, note string) error

	List(ctx context.Context, status model.ReservationStatus, limit, offset int) ([]model.Reservation, error)
	CheckInsOn(ctx context.Context, day time.Time) ([]model.Reservation, error)
	CheckOutsOn(ctx context.Context, day time.Time) ([]model.Reservation, error)
	Active(ctx context.Context) ([]model.Reservation, error)
	ByDateRange(ctx context.Context, from, to time.Time) ([]model.Reservation, error)

	MarkNoShows(ctx context.Context, today time.Time) (int64, error)
}

type RoomRepo interface {
	LockRoom(ctx context.Context, tx *sql.Tx, id int64) (*model.Room, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status model.RoomStatus) error
	HasOverlap(ctx context.Context, tx *sql.Tx, roomID int64, checkIn, checkOut time.Time, excludeReservationID int64) (bool, error)
	RecountOccupancy(ctx context.Context, tx *sql.Tx, roomID int64) (int, error)
}

type GuestRepo interface {
	Upsert(ctx context.Context, tx *sql.Tx, g *model.Guest) error
}

// CreateParams is the booking-flow input. PreAuthorizedIntentID carries an
// already-succeeded gateway intent; such reservations are born confirmed.
type CreateParams struct {
	Guest                 model.Guest
	RoomIDs               []int64
	CheckIn               time.Time
	CheckOut              time.Time
	Adults                int
	Children              int
	Source                model.BookingSource
	TotalAmount           float64
	PreAuthorizedIntentID *string
}

type Service interface {
	// Create books the rooms for the half-open range [CheckIn, CheckOut),
	// atomically with the availability check.
	Create(ctx context.Context, p CreateParams) (*model.Reservation, error)

	Detail(ctx context.Context, id int64) (*model.Reservation, error)
	List(ctx context.Context, status model.ReservationStatus, limit, offset int) ([]model.Reservation, error)

	// Lifecycle transitions. Each returns the authoritative new state so
	// callers reconcile instead of assuming success.
	Confirm(ctx context.Context, id int64) (*model.Reservation, error)
	Cancel(ctx context.Context, id int64, reason string) (*model.Reservation, error)
	CheckIn(ctx context.Context, id int64) (*model.Reservation, error)
	CheckOut(ctx context.Context, id int64) (*model.Reservation, error)
	NoShow(ctx context.Context, id int64) (*model.Reservation, error)

	TodayCheckIns(ctx context.Context) ([]model.Reservation, error)
	TodayCheckOuts(ctx context.Context) ([]model.Reservation, error)
	Active(ctx context.Context) ([]model.Reservation, error)
	ByDateRange(ctx context.Context, from, to time.Time) ([]model.Reservation, error)
}

// ----- Service implementation -----

type service struct {
	db     TxRunner
	r      Repo
	rooms  RoomRepo
	guests GuestRepo
	loc    *time.Location
	now    func() time.Time
}

func New(db TxRunner, r Repo, rooms RoomRepo, guests GuestRepo, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{db: db, r: r, rooms: rooms, guests: guests, loc: loc, now: time.Now}
}

func newConfirmationNumber() string {
	return "PVT-" + strings.ToUpper(uuid.NewString()[:8])
}

func (s *service) Create(ctx context.Context, p CreateParams) (*model.Reservation, error) {
	if len(p.RoomIDs) == 0 || p.TotalAmount < 0 {
		return nil, makeErr(ErrValidation)
	}
	if p.Guest.FirstName == "" || p.Guest.LastName == "" || p.Guest.IDNumber == "" {
		return nil, makeErr(ErrValidation)
	}
	checkIn := dates.Midnight(p.CheckIn)
	checkOut := dates.Midnight(p.CheckOut)
	if !checkIn.Before(checkOut) {
		return nil, makeErr(ErrValidation)
	}
	if p.Source == "" {
		p.Source = model.SourceDirect
	}
	if !model.ValidBookingSource(p.Source) {
		return nil, makeErr(ErrValidation)
	}
	if p.Adults <= 0 {
		p.Adults = 1
	}
	if p.Children < 0 {
		return nil, makeErr(ErrValidation)
	}

	roomIDs := dedupeSorted(p.RoomIDs)

	res := &model.Reservation{
		ConfirmationNumber: newConfirmationNumber(),
		RoomIDs:            roomIDs,
		CheckInDate:        checkIn,
		CheckOutDate:       checkOut,
		Nights:             dates.Nights(checkIn, checkOut),
		Adults:             p.Adults,
		Children:           p.Children,
		Status:             model.ReservationPending,
		Source:             p.Source,
		TotalAmount:        p.TotalAmount,
		PaidAmount:         0,
		PaymentStatus:      model.PaymentPending,
	}
	if p.PreAuthorizedIntentID != nil && *p.PreAuthorizedIntentID != "" {
		res.Status = model.ReservationConfirmed
		res.PaymentIntentID = p.PreAuthorizedIntentID
	}

	err := s.db.RunTx(ctx, func(tx *sql.Tx) error {
		g := p.Guest
		if err := s.guests.Upsert(ctx, tx, &g); err != nil {
			return err
		}
		res.GuestID = g.ID

		// Rooms are locked in ascending id order before the overlap check so
		// two concurrent bookings of the same rooms serialize instead of
		// deadlocking or double-booking.
		for _, roomID := range roomIDs {
			room, err := s.rooms.LockRoom(ctx, tx, roomID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return makeErr(ErrNotFound)
				}
				return err
			}
			if room.Status == model.RoomMaintenance || room.Status == model.RoomOutOfOrder {
				return makeErr(ErrRoomUnavailable)
			}
			overlap, err := s.rooms.HasOverlap(ctx, tx, roomID, checkIn, checkOut, 0)
			if err != nil {
				return err
			}
			if overlap {
				return makeErr(ErrRoomUnavailable)
			}
		}

		return s.r.Insert(ctx, tx, res)
	})
	if err != nil {
		return nil, err
	}
	return s.r.GetByID(ctx, res.ID)
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Reservation, error) {
	res, err := s.r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return res, nil
}

func (s *service) List(ctx context.Context, status model.ReservationStatus, limit, offset int) ([]model.Reservation, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.r.List(ctx, status, limit, offset)
}

func (s *service) Confirm(ctx context.Context, id int64) (*model.Reservation, error) {
	err := s.db.RunTx(ctx, func(tx *sql.Tx) error {
		row, err := s.lockRow(ctx, tx, id)
		if err != nil {
			return err
		}
		if row.Status != model.ReservationPending {
			return makeErr(ErrInvalidState)
		}
		return s.r.UpdateStatus(ctx, tx, id, model.ReservationConfirmed)
	})
	if err != nil {
		return nil, err
	}
	return s.r.GetByID(ctx, id)
}

func (s *service) Cancel(ctx context.Context, id int64, reason string) (*model.Reservation, error) {
	err := s.db.RunTx(ctx, func(tx *sql.Tx) error {
		row, err := s.lockRow(ctx, tx, id)
		if err != nil {
			return err
		}
		if row.Status != model.ReservationPending && row.Status != model.ReservationConfirmed {
			return makeErr(ErrInvalidState)
		}
		if err := s.r.UpdateStatus(ctx, tx, id, model.ReservationCancelled); err != nil {
			return err
		}
		if reason != "" {
			if err := s.r.AppendNote(ctx, tx, id, "Cancellation reason: "+reason); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.r.GetByID(ctx, id)
}

func (s *service) CheckIn(ctx context.Context, id int64) (*model.Reservation, error) {
	err := s.db.RunTx(ctx, func(tx *sql.Tx) error {
		row, err := s.lockRow(ctx, tx, id)
		if err != nil {
			return err
		}
		if row.Status != model.ReservationConfirmed {
			return makeErr(ErrInvalidState)
		}
		today := dates.Today(s.now(), s.loc)
		if dates.BeforeDay(today, row.CheckInDate) || !dates.BeforeDay(today, row.CheckOutDate) {
			return makeErr(ErrInvalidState)
		}

		for _, roomID := range row.RoomIDs {
			room, err := s.rooms.LockRoom(ctx, tx, roomID)
			if err != nil {
				return err
			}
			if room.Status == model.RoomMaintenance || room.Status == model.RoomOutOfOrder {
				return makeErr(ErrRoomUnavailable)
			}
			overlap, err := s.rooms.HasOverlap(ctx, tx, roomID, row.CheckInDate, row.CheckOutDate, id)
			if err != nil {
				return err
			}
			if overlap {
				return makeErr(ErrRoomUnavailable)
			}
		}

		if err := s.r.UpdateStatus(ctx, tx, id, model.ReservationCheckedIn); err != nil {
			return err
		}
		for _, roomID := range row.RoomIDs {
			if _, err := s.rooms.RecountOccupancy(ctx, tx, roomID); err != nil {
				return err
			}
			if err := s.rooms.UpdateStatus(ctx, tx, roomID, model.RoomOccupied); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.r.GetByID(ctx, id)
}

func (s *service) CheckOut(ctx context.Context, id int64) (*model.Reservation, error) {
	err := s.db.RunTx(ctx, func(tx *sql.Tx) error {
		row, err := s.lockRow(ctx, tx, id)
		if err != nil {
			return err
		}
		if row.Status != model.ReservationCheckedIn {
			return makeErr(ErrInvalidState)
		}

		if err := s.r.UpdateStatus(ctx, tx, id, model.ReservationCheckedOut); err != nil {
			return err
		}
		for _, roomID := range row.RoomIDs {
			if _, err := s.rooms.LockRoom(ctx, tx, roomID); err != nil {
				return err
			}
			n, err := s.rooms.RecountOccupancy(ctx, tx, roomID)
			if err != nil {
				return err
			}
			// An emptied room goes through cleaning before it can be
			// available again; a shared dorm with remaining guests stays
			// occupied.
			next := model.RoomOccupied
			if n == 0 {
				next = model.RoomCleaning
			}
			if err := s.rooms.UpdateStatus(ctx, tx, roomID, next); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.r.GetByID(ctx, id)
}

func (s *service) NoShow(ctx context.Context, id int64) (*model.Reservation, error) {
	err := s.db.RunTx(ctx, func(tx *sql.Tx) error {
		row, err := s.lockRow(ctx, tx, id)
		if err != nil {
			return err
		}
		if row.Status != model.ReservationPending && row.Status != model.ReservationConfirmed {
			return makeErr(ErrInvalidState)
		}
		today := dates.Today(s.now(), s.loc)
		if !dates.BeforeDay(row.CheckInDate, today) {
			return makeErr(ErrInvalidState)
		}
		return s.r.UpdateStatus(ctx, tx, id, model.ReservationNoShow)
	})
	if err != nil {
		return nil, err
	}
	return s.r.GetByID(ctx, id)
}

func (s *service) TodayCheckIns(ctx context.Context) ([]model.Reservation, error) {
	return s.r.CheckInsOn(ctx, dates.Today(s.now(), s.loc))
}

func (s *service) TodayCheckOuts(ctx context.Context) ([]model.Reservation, error) {
	return s.r.CheckOutsOn(ctx, dates.Today(s.now(), s.loc))
}

func (s *service) Active(ctx context.Context) ([]model.Reservation, error) {
	return s.r.Active(ctx)
}

func (s *service) ByDateRange(ctx context.Context, from, to time.Time) ([]model.Reservation, error) {
	if !from.Before(to) {
		return nil, makeErr(ErrValidation)
	}
	return s.r.ByDateRange(ctx, dates.Midnight(from), dates.Midnight(to))
}

func (s *service) lockRow(ctx context.Context, tx *sql.Tx, id int64) (*StatusRow, error) {
	row, err := s.r.GetForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return row, nil
}

func dedupeSorted(ids []int64) []int64 {
	out := append([]int64(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	n := 0
	for i, id := range out {
		if i == 0 || id != out[n-1] {
			out[n] = id
			n++
		}
	}
	return out[:n]
}
