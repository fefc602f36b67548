// repository/room/repo.go
package roomrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/PresidentAnderson/checkin.pvthostel.com/model"
)

// Statuses that hold a room for a date range. Cancelled and no_show
// reservations never block, and neither do checked_out ones.
const blockingStatuses = `('pending','confirmed','checked_in')`

type Repo interface {
	Insert(ctx context.Context, r *model.Room) error
	List(ctx context.Context) ([]model.Room, error)
	GetByID(ctx context.Context, id int64) (*model.Room, error)
	UpdatePricing(ctx context.Context, id int64, basePrice float64) error

	// LockRoom reads a room row FOR UPDATE. Callers lock rooms in ascending
	// id order so concurrent multi-room bookings cannot deadlock.
	LockRoom(ctx context.Context, tx *sql.Tx, id int64) (*model.Room, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status model.RoomStatus) error

	// HasOverlap tests the half-open range [checkIn, checkOut) against every
	// blocking reservation on the room. excludeReservationID skips one
	// reservation (0 for none) so a check-in does not collide with itself.
	HasOverlap(ctx context.Context, tx *sql.Tx, roomID int64, checkIn, checkOut time.Time, excludeReservationID int64) (bool, error)

	ListAvailable(ctx context.Context, checkIn, checkOut time.Time) ([]model.Room, error)

	// RecountOccupancy rewrites current_occupancy from the count of
	// checked_in reservations referencing the room and returns the new count.
	RecountOccupancy(ctx context.Context, tx *sql.Tx, roomID int64) (int, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const roomColumns = `id, number, type, capacity, current_occupancy, base_price, status, floor, created_at, updated_at`

// day renders a civil date for a DATE comparison; binding a time.Time would
// let the session timezone shift it across midnight.
func day(t time.Time) string { return t.Format("2006-01-02") }

func scanRoom(row interface{ Scan(...any) error }, r *model.Room) error {
	return row.Scan(&r.ID, &r.Number, &r.Type, &r.Capacity, &r.CurrentOccupancy,
		&r.BasePrice, &r.Status, &r.Floor, &r.CreatedAt, &r.UpdatedAt)
}

func (r *repo) Insert(ctx context.Context, m *model.Room) error {
	const q = `
		INSERT INTO rooms (number, type, capacity, base_price, status, floor)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		m.Number, m.Type, m.Capacity, m.BasePrice, m.Status, m.Floor,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *repo) List(ctx context.Context) ([]model.Room, error) {
	const q = `
		SELECT ` + roomColumns + `
		FROM rooms
		ORDER BY number`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Room
	for rows.Next() {
		var m model.Room
		if err := scanRoom(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Room, error) {
	const q = `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE id = $1`
	var m model.Room
	if err := scanRoom(r.db.QueryRowContext(ctx, q, id), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repo) UpdatePricing(ctx context.Context, id int64, basePrice float64) error {
	const q = `
		UPDATE rooms
		SET base_price = $2,
			updated_at = now()
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, basePrice)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) LockRoom(ctx context.Context, tx *sql.Tx, id int64) (*model.Room, error) {
	const q = `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE id = $1
		FOR UPDATE`
	var m model.Room
	if err := scanRoom(tx.QueryRowContext(ctx, q, id), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repo) UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status model.RoomStatus) error {
	const q = `
		UPDATE rooms
		SET status = $2,
			updated_at = now()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, status)
	return err
}

func (r *repo) HasOverlap(ctx context.Context, tx *sql.Tx, roomID int64, checkIn, checkOut time.Time, excludeReservationID int64) (bool, error) {
	// Half-open ranges: [a,b) and [c,d) overlap iff a < d and c < b.
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM reservations res
			JOIN reservation_rooms rr ON rr.reservation_id = res.id
			WHERE rr.room_id = $1
			AND res.id <> $4
			AND res.status IN ` + blockingStatuses + `
			AND res.check_in_date < $3
			AND $2 < res.check_out_date
		)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, roomID, day(checkIn), day(checkOut), excludeReservationID).Scan(&exists)
	return exists, err
}

func (r *repo) ListAvailable(ctx context.Context, checkIn, checkOut time.Time) ([]model.Room, error) {
	const q = `
		SELECT ` + roomColumns + `
		FROM rooms r
		WHERE r.status = 'available'
		AND NOT EXISTS (
			SELECT 1
			FROM reservations res
			JOIN reservation_rooms rr ON rr.reservation_id = res.id
			WHERE rr.room_id = r.id
			AND res.status IN ` + blockingStatuses + `
			AND res.check_in_date < $2
			AND $1 < res.check_out_date
		)
		ORDER BY r.number`
	rows, err := r.db.QueryContext(ctx, q, day(checkIn), day(checkOut))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Room
	for rows.Next() {
		var m model.Room
		if err := scanRoom(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repo) RecountOccupancy(ctx context.Context, tx *sql.Tx, roomID int64) (int, error) {
	const q = `
		UPDATE rooms r
		SET current_occupancy = (
			SELECT count(*)
			FROM reservations res
			JOIN reservation_rooms rr ON rr.reservation_id = res.id
			WHERE rr.room_id = r.id
			AND res.status = 'checked_in'
		),
		updated_at = now()
		WHERE r.id = $1
		RETURNING current_occupancy`
	var n int
	err := tx.QueryRowContext(ctx, q, roomID).Scan(&n)
	return n, err
}
