package roomsvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/PresidentAnderson/checkin.pvthostel.com/model"
	"github.com/PresidentAnderson/checkin.pvthostel.com/util/dates"
)

type ErrCode string

const (
	ErrValidation        ErrCode = "VALIDATION"
	ErrDuplicate         ErrCode = "DUPLICATE"
	ErrInvalidTransition ErrCode = "INVALID_TRANSITION"
	ErrNotFound          ErrCode = "NOT_FOUND"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type TxRunner interface {
	RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type Repo interface {
	Insert(ctx context.Context, r *model.Room) error
	List(ctx context.Context) ([]model.Room, error)
	GetByID(ctx context.Context, id int64) (*model.Room, error)
	UpdatePricing(ctx context.Context, id int64, basePrice float64) error
	LockRoom(ctx context.Context, tx *sql.Tx, id int64) (*model.Room, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status model.RoomStatus) error
	ListAvailable(ctx context.Context, checkIn, checkOut time.Time) ([]model.Room, error)
}

type Service interface {
	Create(ctx context.Context, number string, typ model.RoomType, capacity int, basePrice float64, floor int) (*model.Room, error)
	List(ctx context.Context) ([]model.Room, error)
	Detail(ctx context.Context, id int64) (*model.Room, error)

	// SetStatus applies an administrative status change. Occupied rooms must
	// pass through cleaning before becoming available again.
	SetStatus(ctx context.Context, id int64, status model.RoomStatus) (*model.Room, error)

	// Available lists rooms with status available and no blocking
	// reservation overlapping [checkIn, checkOut).
	Available(ctx context.Context, checkIn, checkOut time.Time) ([]model.Room, error)

	UpdatePricing(ctx context.Context, id int64, basePrice float64) (*model.Room, error)
}

type service struct {
	db TxRunner
	r  Repo
}

func New(db TxRunner, r Repo) Service { return &service{db: db, r: r} }

func (s *service) Create(ctx context.Context, number string, typ model.RoomType, capacity int, basePrice float64, floor int) (*model.Room, error) {
	if number == "" || !model.ValidRoomType(typ) || capacity <= 0 || basePrice < 0 {
		return nil, makeErr(ErrValidation)
	}
	m := &model.Room{
		Number:    number,
		Type:      typ,
		Capacity:  capacity,
		BasePrice: basePrice,
		Status:    model.RoomAvailable,
		Floor:     floor,
	}
	if err := s.r.Insert(ctx, m); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, makeErr(ErrDuplicate)
		}
		return nil, err
	}
	return m, nil
}

func (s *service) List(ctx context.Context) ([]model.Room, error) { return s.r.List(ctx) }

func (s *service) Detail(ctx context.Context, id int64) (*model.Room, error) {
	m, err := s.r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return m, nil
}

func (s *service) SetStatus(ctx context.Context, id int64, status model.RoomStatus) (*model.Room, error) {
	if !model.ValidRoomStatus(status) {
		return nil, makeErr(ErrValidation)
	}
	err := s.db.RunTx(ctx, func(tx *sql.Tx) error {
		room, err := s.r.LockRoom(ctx, tx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return makeErr(ErrNotFound)
			}
			return err
		}
		// The one forbidden edge: a vacated room is not available until it
		// has been cleaned.
		if room.Status == model.RoomOccupied && status == model.RoomAvailable {
			return makeErr(ErrInvalidTransition)
		}
		return s.r.UpdateStatus(ctx, tx, id, status)
	})
	if err != nil {
		return nil, err
	}
	return s.r.GetByID(ctx, id)
}

func (s *service) Available(ctx context.Context, checkIn, checkOut time.Time) ([]model.Room, error) {
	checkIn = dates.Midnight(checkIn)
	checkOut = dates.Midnight(checkOut)
	if !checkIn.Before(checkOut) {
		return nil, makeErr(ErrValidation)
	}
	return s.r.ListAvailable(ctx, checkIn, checkOut)
}

func (s *service) UpdatePricing(ctx context.Context, id int64, basePrice float64) (*model.Room, error) {
	if basePrice < 0 {
		return nil, makeErr(ErrValidation)
	}
	if err := s.r.UpdatePricing(ctx, id, basePrice); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return s.r.GetByID(ctx, id)
}
