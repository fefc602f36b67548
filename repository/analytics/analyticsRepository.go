package analyticsrepo

import (
	"context"
	"database/sql"
	"time"
)

type RoomCounts struct {
	TotalRooms     int
	AvailableRooms int
	Capacity       int
	Occupied       int
}

type Repo interface {
	RoomCounts(ctx context.Context) (*RoomCounts, error)
	ActiveReservations(ctx context.Context) (int, error)
	ArrivalsOn(ctx context.Context, day time.Time) (int, error)
	DeparturesOn(ctx context.Context, day time.Time) (int, error)

	// RevenueBetween sums ledger rows (refunds included as negatives) for
	// [from, to).
	RevenueBetween(ctx context.Context, from, to time.Time) (float64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func day(t time.Time) string { return t.Format("2006-01-02") }

func (r *repo) RoomCounts(ctx context.Context) (*RoomCounts, error) {
	const q = `
		SELECT count(*),
			count(*) FILTER (WHERE status = 'available'),
			COALESCE(sum(capacity), 0),
			COALESCE(sum(current_occupancy), 0)
		FROM rooms`
	var c RoomCounts
	if err := r.db.QueryRowContext(ctx, q).Scan(&c.TotalRooms, &c.AvailableRooms, &c.Capacity, &c.Occupied); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) ActiveReservations(ctx context.Context) (int, error) {
	const q = `
		SELECT count(*)
		FROM reservations
		WHERE status IN ('confirmed', 'checked_in')`
	var n int
	err := r.db.QueryRowContext(ctx, q).Scan(&n)
	return n, err
}

func (r *repo) ArrivalsOn(ctx context.Context, onDay time.Time) (int, error) {
	const q = `
		SELECT count(*)
		FROM reservations
		WHERE check_in_date = $1
		AND status = 'confirmed'`
	var n int
	err := r.db.QueryRowContext(ctx, q, day(onDay)).Scan(&n)
	return n, err
}

func (r *repo) DeparturesOn(ctx context.Context, onDay time.Time) (int, error) {
	const q = `
		SELECT count(*)
		FROM reservations
		WHERE check_out_date = $1
		AND status = 'checked_in'`
	var n int
	err := r.db.QueryRowContext(ctx, q, day(onDay)).Scan(&n)
	return n, err
}

func (r *repo) RevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	const q = `
		SELECT COALESCE(sum(amount), 0)
		FROM payments
		WHERE created_at >= $1
		AND created_at < $2`
	var total float64
	err := r.db.QueryRowContext(ctx, q, from, to).Scan(&total)
	return total, err
}
