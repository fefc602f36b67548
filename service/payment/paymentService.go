package paymentsvc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/PresidentAnderson/checkin.pvthostel.com/model"
	reservationrepo "github.com/PresidentAnderson/checkin.pvthostel.com/repository/reservation"
	striperepo "github.com/PresidentAnderson/checkin.pvthostel.com/repository/stripe"
	"github.com/PresidentAnderson/checkin.pvthostel.com/util/dates"
)

type ErrCode string

const (
	ErrValidation   ErrCode = "VALIDATION"
	ErrOverpayment  ErrCode = "OVERPAYMENT"
	ErrInvalidState ErrCode = "INVALID_STATE"
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrNothingDue   ErrCode = "NOTHING_DUE"
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

type ReservationRepo interface {
	GetByID(ctx context.Context, id int64) (*model.Reservation, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*reservationrepo.StatusRow, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status model.ReservationStatus) error
	AppendNote(ctx context.Context, tx *sql.Tx, id int64, note string) error
	SetPaymentIntent(ctx context.Context, id int64, intentID string) error
	FindByPaymentIntent(ctx context.Context, intentID string) (*model.Reservation, error)
}

type LedgerRepo interface {
	InsertPayment(ctx context.Context, tx *sql.Tx, reservationID int64, amount float64, method model.PaymentMethod, intentID *string) (int64, error)
	ApplyAmounts(ctx context.Context, tx *sql.Tx, reservationID int64, paidAmount float64, status model.PaymentStatus) error
	ListByReservation(ctx context.Context, reservationID int64) ([]model.Payment, error)
	HasIntent(ctx context.Context, reservationID int64, intentID string) (bool, error)
}

type IntentCreated struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	AmountCents     int64  `json:"amount_cents"`
	Currency        string `json:"currency"`
}

type Service interface {
	// CreateIntent opens a gateway PaymentIntent for the outstanding balance
	// and stores the intent id so webhook events can be mapped back.
	CreateIntent(ctx context.Context, reservationID int64) (*IntentCreated, error)

	// RecordPayment appends a front-desk payment. Paying past the total fails
	// with OVERPAYMENT and applies nothing.
	RecordPayment(ctx context.Context, reservationID int64, amount float64, method model.PaymentMethod) (*model.Reservation, error)

	Refund(ctx context.Context, reservationID int64, amount float64) (*model.Reservation, error)
	History(ctx context.Context, reservationID int64) ([]model.Payment, error)

	// HandleStripe processes a webhook delivery. The signature is verified
	// before the payload is parsed; redelivery is idempotent per intent id.
	HandleStripe(ctx context.Context, sigHeader string, raw []byte) error
}

type service struct {
	db       TxRunner
	x        striperepo.Repo
	res      ReservationRepo
	ledger   LedgerRepo
	currency string
}

func New(db TxRunner, x striperepo.Repo, res ReservationRepo, ledger LedgerRepo, currency string) Service {
	if currency == "" {
		currency = "usd"
	}
	return &service{db: db, x: x, res: res, ledger: ledger, currency: currency}
}

// paymentStatusFor derives the enum from the applied amounts.
func paymentStatusFor(paid, total float64) model.PaymentStatus {
	switch {
	case paid >= total-1e-9 && total > 0:
		return model.PaymentPaid
	case paid > 0:
		return model.PaymentPartial
	default:
		return model.PaymentPending
	}
}

func terminalUnpayable(s model.ReservationStatus) bool {
	return s == model.ReservationCancelled || s == model.ReservationNoShow
}

func (s *service) CreateIntent(ctx context.Context, reservationID int64) (*IntentCreated, error) {
	res, err := s.res.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if terminalUnpayable(res.Status) {
		return nil, makeErr(ErrInvalidState)
	}
	balance := res.TotalAmount - res.PaidAmount
	if balance <= 0 {
		return nil, makeErr(ErrNothingDue)
	}
	cents := int64(math.Round(balance * 100))

	roomType := ""
	if len(res.RoomTypes) > 0 {
		roomType = string(res.RoomTypes[0])
	}
	intent, err := s.x.CreatePaymentIntent(ctx, striperepo.CreateIntentReq{
		AmountCents: cents,
		Currency:    s.currency,
		Metadata: striperepo.IntentMetadata{
			GuestName:    res.Guest.FullName(),
			GuestEmail:   res.Guest.Email,
			CheckInDate:  res.CheckInDate.Format(dates.DayFormat),
			CheckOutDate: res.CheckOutDate.Format(dates.DayFormat),
			RoomType:     roomType,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.res.SetPaymentIntent(ctx, reservationID, intent.IntentID); err != nil {
		return nil, err
	}
	return &IntentCreated{
		PaymentIntentID: intent.IntentID,
		ClientSecret:    intent.ClientSecret,
		AmountCents:     cents,
		Currency:        s.currency,
	}, nil
}

func (s *service) RecordPayment(ctx context.Context, reservationID int64, amount float64, method model.PaymentMethod) (*model.Reservation, error) {
	if amount <= 0 || !model.ValidPaymentMethod(method) {
		return nil, makeErr(ErrValidation)
	}
	err := s.db.RunTx(ctx, func(tx *sql.Tx) error {
		row, err := s.res.GetForUpdate(ctx, tx, reservationID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return makeErr(ErrNotFound)
			}
			return err
		}
		if terminalUnpayable(row.Status) {
			return makeErr(ErrInvalidState)
		}
		return s.apply(ctx, tx, row, amount, method, nil)
	})
	if err != nil {
		return nil, err
	}
	return s.res.GetByID(ctx, reservationID)
}

// apply records one ledger row and rewrites the reservation's amounts; a
// pending reservation paid in full is promoted to confirmed.
func (s *service) apply(ctx context.Context, tx *sql.Tx, row *reservationrepo.StatusRow, amount float64, method model.PaymentMethod, intentID *string) error {
	newPaid := row.PaidAmount + amount
	if newPaid > row.TotalAmount+1e-9 {
		return makeErr(ErrOverpayment)
	}
	if _, err := s.ledger.InsertPayment(ctx, tx, row.ID, amount, method, intentID); err != nil {
		return err
	}
	if err := s.ledger.ApplyAmounts(ctx, tx, row.ID, newPaid, paymentStatusFor(newPaid, row.TotalAmount)); err != nil {
		return err
	}
	if row.Status == model.ReservationPending && paymentStatusFor(newPaid, row.TotalAmount) == model.PaymentPaid {
		return s.res.UpdateStatus(ctx, tx, row.ID, model.ReservationConfirmed)
	}
	return nil
}

func (s *service) Refund(ctx context.Context, reservationID int64, amount float64) (*model.Reservation, error) {
	if amount <= 0 {
		return nil, makeErr(ErrValidation)
	}
	res, err := s.res.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if res.PaymentIntentID == nil || *res.PaymentIntentID == "" {
		return nil, makeErr(ErrValidation)
	}
	intentID := *res.PaymentIntentID

	// The balance check and the gateway call both run under the row lock:
	// a racing refund waits here and then sees the reduced PaidAmount, so
	// the gateway can never be told to refund more than was collected. A
	// gateway failure rolls the ledger back untouched.
	err = s.db.RunTx(ctx, func(tx *sql.Tx) error {
		row, err := s.res.GetForUpdate(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if amount > row.PaidAmount+1e-9 {
			return makeErr(ErrValidation)
		}

		cents := int64(math.Round(amount * 100))
		if _, err := s.x.CreateRefund(ctx, intentID, cents); err != nil {
			return err
		}

		if _, err := s.ledger.InsertPayment(ctx, tx, row.ID, -amount, model.MethodGateway, &intentID); err != nil {
			return err
		}
		return s.ledger.ApplyAmounts(ctx, tx, row.ID, row.PaidAmount-amount, model.PaymentRefunded)
	})
	if err != nil {
		return nil, err
	}
	return s.res.GetByID(ctx, reservationID)
}

func (s *service) History(ctx context.Context, reservationID int64) ([]model.Payment, error) {
	return s.ledger.ListByReservation(ctx, reservationID)
}

type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID               string `json:"id"`
			AmountReceived   int64  `json:"amount_received"`
			LastPaymentError *struct {
				Message string `json:"message"`
			} `json:"last_payment_error"`
		} `json:"object"`
	} `json:"data"`
}

func (s *service) HandleStripe(ctx context.Context, sigHeader string, raw []byte) error {
	// Nothing in the payload is trusted until the signature checks out.
	if err := s.x.VerifyWebhookSignature(sigHeader, raw); err != nil {
		return err
	}

	var ev stripeEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return fmt.Errorf("bad webhook json: %w", err)
	}
	if ev.Data.Object.ID == "" {
		return errors.New("missing payment intent id")
	}

	switch ev.Type {
	case "payment_intent.succeeded":
		return s.onSucceeded(ctx, ev)
	case "payment_intent.payment_failed":
		return s.onFailed(ctx, ev)
	default:
		return nil
	}
}

func (s *service) onSucceeded(ctx context.Context, ev stripeEvent) error {
	intentID := ev.Data.Object.ID
	res, err := s.res.FindByPaymentIntent(ctx, intentID)
	if err != nil {
		return fmt.Errorf("intent not mapped to a reservation: %w", err)
	}

	// Webhook redelivery: the ledger already holds this intent, ack and move on.
	seen, err := s.ledger.HasIntent(ctx, res.ID, intentID)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	amount := float64(ev.Data.Object.AmountReceived) / 100
	if amount <= 0 {
		return errors.New("succeeded event without amount_received")
	}

	return s.db.RunTx(ctx, func(tx *sql.Tx) error {
		row, err := s.res.GetForUpdate(ctx, tx, res.ID)
		if err != nil {
			return err
		}
		return s.apply(ctx, tx, row, amount, model.MethodGateway, &intentID)
	})
}

// onFailed records the failure for the audit trail; the reservation stays
// pending until payment succeeds or it is explicitly cancelled.
func (s *service) onFailed(ctx context.Context, ev stripeEvent) error {
	res, err := s.res.FindByPaymentIntent(ctx, ev.Data.Object.ID)
	if err != nil {
		return fmt.Errorf("intent not mapped to a reservation: %w", err)
	}
	msg := "Payment failed"
	if ev.Data.Object.LastPaymentError != nil && ev.Data.Object.LastPaymentError.Message != "" {
		msg += ": " + ev.Data.Object.LastPaymentError.Message
	}
	return s.db.RunTx(ctx, func(tx *sql.Tx) error {
		return s.res.AppendNote(ctx, tx, res.ID, msg)
	})
}
