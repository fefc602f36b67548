// repository/payment/repo.go
package paymentrepo

import (
	"context"
	"database/sql"

	"github.com/PresidentAnderson/checkin.pvthostel.com/model"
)

type Repo interface {
	// InsertPayment appends one ledger row. Refunds go in as negative amounts;
	// rows are never updated or deleted.
	InsertPayment(ctx context.Context, tx *sql.Tx, reservationID int64, amount float64, method model.PaymentMethod, intentID *string) (int64, error)

	// ApplyAmounts rewrites the reservation's paid_amount and payment_status
	// after a ledger row has been recorded.
	ApplyAmounts(ctx context.Context, tx *sql.Tx, reservationID int64, paidAmount float64, status model.PaymentStatus) error

	ListByReservation(ctx context.Context, reservationID int64) ([]model.Payment, error)

	// HasIntent reports whether the ledger already holds a row for the
	// gateway intent, which is what makes webhook redelivery idempotent.
	HasIntent(ctx context.Context, reservationID int64, intentID string) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) InsertPayment(ctx context.Context, tx *sql.Tx, reservationID int64, amount float64, method model.PaymentMethod, intentID *string) (int64, error) {
	const q = `
		INSERT INTO payments (reservation_id, amount, method, payment_intent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	var id int64
	if err := tx.QueryRowContext(ctx, q, reservationID, amount, method, intentID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) ApplyAmounts(ctx context.Context, tx *sql.Tx, reservationID int64, paidAmount float64, status model.PaymentStatus) error {
	const q = `
		UPDATE reservations
		SET paid_amount = $2,
			payment_status = $3,
			updated_at = now()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, reservationID, paidAmount, status)
	return err
}

func (r *repo) ListByReservation(ctx context.Context, reservationID int64) ([]model.Payment, error) {
	const q = `
		SELECT id, reservation_id, amount, method, payment_intent_id, created_at
		FROM payments
		WHERE reservation_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.ReservationID, &p.Amount, &p.Method, &p.PaymentIntentID, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repo) HasIntent(ctx context.Context, reservationID int64, intentID string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM payments
			WHERE reservation_id = $1
			AND payment_intent_id = $2
			AND amount > 0
		)`
	var exists bool
	err := r.db.QueryRowContext(ctx, q, reservationID, intentID).Scan(&exists)
	return exists, err
}
