// repository/reservation/repo.go
package reservationrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/PresidentAnderson/checkin.pvthostel.com/model"
)

// StatusRow is the locked snapshot a lifecycle transition works against.
type StatusRow struct {
	ID            int64
	Status        model.ReservationStatus
	CheckInDate   time.Time
	CheckOutDate  time.Time
	TotalAmount   float64
	PaidAmount    float64
	PaymentStatus model.PaymentStatus
	RoomIDs       []int64
}

type Repo interface {
	Insert(ctx context.Context, tx *sql.Tx, res *model.Reservation) error
	GetByID(ctx context.Context, id int64) (*model.Reservation, error)

	// GetForUpdate locks the reservation row for the duration of the
	// transaction and returns the fields transition guards need.
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*StatusRow, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status model.ReservationStatus) error

	// AppendNote appends to the audit trail; prior notes are never rewritten.
	AppendNote(ctx context.Context, tx *sql.Tx, id int64, note string) error

	SetPaymentIntent(ctx context.Context, id int64, intentID string) error
	FindByPaymentIntent(ctx context.Context, intentID string) (*model.Reservation, error)

	List(ctx context.Context, status model.ReservationStatus, limit, offset int) ([]model.Reservation, error)
	CheckInsOn(ctx context.Context, day time.Time) ([]model.Reservation, error)
	CheckOutsOn(ctx context.Context, day time.Time) ([]model.Reservation, error)
	Active(ctx context.Context) ([]model.Reservation, error)
	ByDateRange(ctx context.Context, from, to time.Time) ([]model.Reservation, error)

	// MarkNoShows flips stale pending/confirmed reservations whose check-in
	// date has passed and returns how many were flipped.
	MarkNoShows(ctx context.Context, today time.Time) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

// day renders a civil date for a DATE column; binding a time.Time would let
// the session timezone shift it across midnight.
func day(t time.Time) string { return t.Format("2006-01-02") }

const reservationColumns = `
	res.id, res.confirmation_number, res.guest_id,
	g.first_name, g.last_name, g.email, g.phone, g.id_number, g.created_at, g.updated_at,
	res.check_in_date, res.check_out_date, res.nights, res.adults, res.children,
	res.status, res.source, res.total_amount, res.paid_amount, res.payment_status,
	res.payment_intent_id, res.notes, res.created_at, res.updated_at`

const reservationFrom = `
	FROM reservations res
	JOIN guests g ON g.id = res.guest_id`

func scanReservation(row interface{ Scan(...any) error }, m *model.Reservation) error {
	if err := row.Scan(
		&m.ID, &m.ConfirmationNumber, &m.GuestID,
		&m.Guest.FirstName, &m.Guest.LastName, &m.Guest.Email, &m.Guest.Phone,
		&m.Guest.IDNumber, &m.Guest.CreatedAt, &m.Guest.UpdatedAt,
		&m.CheckInDate, &m.CheckOutDate, &m.Nights, &m.Adults, &m.Children,
		&m.Status, &m.Source, &m.TotalAmount, &m.PaidAmount, &m.PaymentStatus,
		&m.PaymentIntentID, &m.Notes, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return err
	}
	m.Guest.ID = m.GuestID
	return nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func loadRooms(ctx context.Context, q querier, m *model.Reservation) error {
	const query = `
		SELECT rr.room_id, r.number, r.type
		FROM reservation_rooms rr
		JOIN rooms r ON r.id = rr.room_id
		WHERE rr.reservation_id = $1
		ORDER BY rr.room_id`
	rows, err := q.QueryContext(ctx, query, m.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	m.RoomIDs = m.RoomIDs[:0]
	m.RoomNumbers = m.RoomNumbers[:0]
	m.RoomTypes = m.RoomTypes[:0]
	for rows.Next() {
		var id int64
		var number string
		var typ model.RoomType
		if err := rows.Scan(&id, &number, &typ); err != nil {
			return err
		}
		m.RoomIDs = append(m.RoomIDs, id)
		m.RoomNumbers = append(m.RoomNumbers, number)
		m.RoomTypes = append(m.RoomTypes, typ)
	}
	return rows.Err()
}

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, m *model.Reservation) error {
	const q = `
		INSERT INTO reservations (
			confirmation_number, guest_id, check_in_date, check_out_date, nights,
			adults, children, status, source, total_amount, paid_amount,
			payment_status, payment_intent_id, notes
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING id, created_at, updated_at`
	if err := tx.QueryRowContext(ctx, q,
		m.ConfirmationNumber, m.GuestID, day(m.CheckInDate), day(m.CheckOutDate), m.Nights,
		m.Adults, m.Children, m.Status, m.Source, m.TotalAmount, m.PaidAmount,
		m.PaymentStatus, m.PaymentIntentID, m.Notes,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return err
	}

	const q2 = `
		INSERT INTO reservation_rooms (reservation_id, room_id)
		VALUES ($1, $2)`
	for _, roomID := range m.RoomIDs {
		if _, err := tx.ExecContext(ctx, q2, m.ID, roomID); err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Reservation, error) {
	const q = `
		SELECT ` + reservationColumns + reservationFrom + `
		WHERE res.id = $1`
	var m model.Reservation
	if err := scanReservation(r.db.QueryRowContext(ctx, q, id), &m); err != nil {
		return nil, err
	}
	if err := loadRooms(ctx, r.db, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*StatusRow, error) {
	const q = `
		SELECT id, status, check_in_date, check_out_date, total_amount, paid_amount, payment_status
		FROM reservations
		WHERE id = $1
		FOR UPDATE`
	var row StatusRow
	if err := tx.QueryRowContext(ctx, q, id).Scan(
		&row.ID, &row.Status, &row.CheckInDate, &row.CheckOutDate,
		&row.TotalAmount, &row.PaidAmount, &row.PaymentStatus,
	); err != nil {
		return nil, err
	}

	const q2 = `
		SELECT room_id
		FROM reservation_rooms
		WHERE reservation_id = $1
		ORDER BY room_id`
	rows, err := tx.QueryContext(ctx, q2, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var roomID int64
		if err := rows.Scan(&roomID); err != nil {
			return nil, err
		}
		row.RoomIDs = append(row.RoomIDs, roomID)
	}
	return &row, rows.Err()
}

func (r *repo) UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status model.ReservationStatus) error {
	const q = `
		UPDATE reservations
		SET status = $2,
			updated_at = now()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, status)
	return err
}

func (r *repo) AppendNote(ctx context.Context, tx *sql.Tx, id int64, note string) error {
	const q = `
		UPDATE reservations
		SET notes = CASE WHEN notes IS NULL OR notes = '' THEN $2
			ELSE notes || E'\n' || $2 END,
			updated_at = now()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, note)
	return err
}

func (r *repo) SetPaymentIntent(ctx context.Context, id int64, intentID string) error {
	const q = `
		UPDATE reservations
		SET payment_intent_id = $2,
			updated_at = now()
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, intentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) FindByPaymentIntent(ctx context.Context, intentID string) (*model.Reservation, error) {
	const q = `
		SELECT ` + reservationColumns + reservationFrom + `
		WHERE res.payment_intent_id = $1`
	var m model.Reservation
	if err := scanReservation(r.db.QueryRowContext(ctx, q, intentID), &m); err != nil {
		return nil, err
	}
	if err := loadRooms(ctx, r.db, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repo) queryMany(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Reservation
	for rows.Next() {
		var m model.Reservation
		if err := scanReservation(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := loadRooms(ctx, r.db, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *repo) List(ctx context.Context, status model.ReservationStatus, limit, offset int) ([]model.Reservation, error) {
	const q = `
		SELECT ` + reservationColumns + reservationFrom + `
		WHERE ($1 = '' OR res.status = $1)
		ORDER BY res.created_at DESC, res.id DESC
		LIMIT $2 OFFSET $3`
	return r.queryMany(ctx, q, string(status), limit, offset)
}

func (r *repo) CheckInsOn(ctx context.Context, onDay time.Time) ([]model.Reservation, error) {
	const q = `
		SELECT ` + reservationColumns + reservationFrom + `
		WHERE res.check_in_date = $1
		AND res.status = 'confirmed'
		ORDER BY res.id`
	return r.queryMany(ctx, q, day(onDay))
}

func (r *repo) CheckOutsOn(ctx context.Context, onDay time.Time) ([]model.Reservation, error) {
	const q = `
		SELECT ` + reservationColumns + reservationFrom + `
		WHERE res.check_out_date = $1
		AND res.status = 'checked_in'
		ORDER BY res.id`
	return r.queryMany(ctx, q, day(onDay))
}

func (r *repo) Active(ctx context.Context) ([]model.Reservation, error) {
	const q = `
		SELECT ` + reservationColumns + reservationFrom + `
		WHERE res.status IN ('confirmed', 'checked_in')
		ORDER BY res.check_in_date, res.id`
	return r.queryMany(ctx, q)
}

func (r *repo) ByDateRange(ctx context.Context, from, to time.Time) ([]model.Reservation, error) {
	// Same half-open overlap as room availability.
	const q = `
		SELECT ` + reservationColumns + reservationFrom + `
		WHERE res.check_in_date < $2
		AND $1 < res.check_out_date
		ORDER BY res.check_in_date, res.id`
	return r.queryMany(ctx, q, day(from), day(to))
}

func (r *repo) MarkNoShows(ctx context.Context, today time.Time) (int64, error) {
	const q = `
		UPDATE reservations
		SET status = 'no_show',
			updated_at = now()
		WHERE status IN ('pending', 'confirmed')
		AND check_in_date < $1`
	res, err := r.db.ExecContext(ctx, q, day(today))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
