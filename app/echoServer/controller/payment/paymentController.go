package payment

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/PresidentAnderson/checkin.pvthostel.com/model"
	paymentsvc "github.com/PresidentAnderson/checkin.pvthostel.com/service/payment"
)

type RecordPaymentReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method" validate:"required,oneof=cash card bank_transfer digital_wallet gateway"`
}

type RefundReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type Controller struct {
	Svc paymentsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func reservationID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// POST /v1/reservations/:id/payment-intents
func (h *Controller) CreateIntent(c echo.Context) error {
	id, ok := reservationID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	out, err := h.Svc.CreateIntent(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("create intent", "err", err, "reservation_id", id)
		switch paymentsvc.Code(err) {
		case paymentsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
		case paymentsvc.ErrInvalidState:
			return c.JSON(http.StatusConflict, echo.Map{"message": "reservation cannot take payments"})
		case paymentsvc.ErrNothingDue:
			return c.JSON(http.StatusConflict, echo.Map{"message": "nothing due"})
		default:
			return c.JSON(http.StatusBadGateway, echo.Map{"message": "payment gateway error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": out})
}

// POST /v1/reservations/:id/payments
func (h *Controller) Record(c echo.Context) error {
	id, ok := reservationID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req RecordPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.RecordPayment(c.Request().Context(), id, req.Amount, model.PaymentMethod(req.Method))
	if err != nil {
		h.Log.Error("record payment", "err", err, "reservation_id", id)
		switch paymentsvc.Code(err) {
		case paymentsvc.ErrValidation:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
		case paymentsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
		case paymentsvc.ErrInvalidState:
			return c.JSON(http.StatusConflict, echo.Map{"message": "reservation cannot take payments"})
		case paymentsvc.ErrOverpayment:
			return c.JSON(http.StatusConflict, echo.Map{"message": "amount exceeds outstanding balance"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": out})
}

// POST /v1/reservations/:id/refunds
func (h *Controller) Refund(c echo.Context) error {
	id, ok := reservationID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req RefundReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.Refund(c.Request().Context(), id, req.Amount)
	if err != nil {
		h.Log.Error("refund", "err", err, "reservation_id", id)
		switch paymentsvc.Code(err) {
		case paymentsvc.ErrValidation:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "refund not possible"})
		case paymentsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
		default:
			return c.JSON(http.StatusBadGateway, echo.Map{"message": "payment gateway error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/reservations/:id/payments
func (h *Controller) History(c echo.Context) error {
	id, ok := reservationID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	rows, err := h.Svc.History(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("payment history", "err", err, "reservation_id", id)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/payments/stripe/webhook
func (h *Controller) HandleStripe(c echo.Context) error {
	sig := c.Request().Header.Get("Stripe-Signature")
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.Log.Error("stripe webhook body read", "err", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cannot read body"})
	}

	if err := h.Svc.HandleStripe(c.Request().Context(), sig, raw); err != nil {
		h.Log.Error("stripe webhook rejected", "err", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "webhook rejected"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}
