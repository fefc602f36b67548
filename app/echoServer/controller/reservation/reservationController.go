package reservation

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/PresidentAnderson/checkin.pvthostel.com/model"
	rs "github.com/PresidentAnderson/checkin.pvthostel.com/service/reservation"
	"github.com/PresidentAnderson/checkin.pvthostel.com/util/dates"
)

type Controller struct {
	Svc rs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/reservations
func (h *Controller) Create(c echo.Context) error {
	var req CreateReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	checkIn, err := time.Parse(dates.DayFormat, req.CheckIn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid check_in_date"})
	}
	checkOut, err := time.Parse(dates.DayFormat, req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid check_out_date"})
	}

	out, err := h.Svc.Create(c.Request().Context(), rs.CreateParams{
		Guest: model.Guest{
			FirstName: req.Guest.FirstName,
			LastName:  req.Guest.LastName,
			Email:     req.Guest.Email,
			Phone:     req.Guest.Phone,
			IDNumber:  req.Guest.IDNumber,
		},
		RoomIDs:               req.RoomIDs,
		CheckIn:               checkIn,
		CheckOut:              checkOut,
		Adults:                req.Adults,
		Children:              req.Children,
		Source:                model.BookingSource(req.Source),
		TotalAmount:           req.TotalAmount,
		PreAuthorizedIntentID: req.PaymentIntentID,
	})
	if err != nil {
		h.Log.Error("reservation create", "err", err)
		switch rs.Code(err) {
		case rs.ErrValidation:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
		case rs.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "room not found"})
		case rs.ErrRoomUnavailable:
			return c.JSON(http.StatusConflict, echo.Map{"message": "room unavailable for the requested dates"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": out})
}

// GET /v1/reservations/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	out, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if rs.Code(err) == rs.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
		}
		h.Log.Error("reservation detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/reservations?status=&limit=&offset=
func (h *Controller) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	rows, err := h.Svc.List(c.Request().Context(), model.ReservationStatus(c.QueryParam("status")), limit, offset)
	if err != nil {
		h.Log.Error("reservation list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// transition runs one lifecycle move and maps its coded errors.
func (h *Controller) transition(c echo.Context, op string, fn func(id int64) (*model.Reservation, error)) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	out, err := fn(id)
	if err != nil {
		h.Log.Error("reservation "+op, "err", err, "id", id)
		switch rs.Code(err) {
		case rs.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
		case rs.ErrInvalidState:
			return c.JSON(http.StatusConflict, echo.Map{"message": "transition not allowed from current status"})
		case rs.ErrRoomUnavailable:
			return c.JSON(http.StatusConflict, echo.Map{"message": "room unavailable"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// POST /v1/reservations/:id/confirm
func (h *Controller) Confirm(c echo.Context) error {
	return h.transition(c, "confirm", func(id int64) (*model.Reservation, error) {
		return h.Svc.Confirm(c.Request().Context(), id)
	})
}

// POST /v1/reservations/:id/cancel
func (h *Controller) Cancel(c echo.Context) error {
	var req CancelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	return h.transition(c, "cancel", func(id int64) (*model.Reservation, error) {
		return h.Svc.Cancel(c.Request().Context(), id, req.Reason)
	})
}

// POST /v1/reservations/:id/check-in
func (h *Controller) CheckIn(c echo.Context) error {
	return h.transition(c, "check-in", func(id int64) (*model.Reservation, error) {
		return h.Svc.CheckIn(c.Request().Context(), id)
	})
}

// POST /v1/reservations/:id/check-out
func (h *Controller) CheckOut(c echo.Context) error {
	return h.transition(c, "check-out", func(id int64) (*model.Reservation, error) {
		return h.Svc.CheckOut(c.Request().Context(), id)
	})
}

// POST /v1/reservations/:id/no-show
func (h *Controller) NoShow(c echo.Context) error {
	return h.transition(c, "no-show", func(id int64) (*model.Reservation, error) {
		return h.Svc.NoShow(c.Request().Context(), id)
	})
}

// GET /v1/reservations/today/check-ins
func (h *Controller) TodayCheckIns(c echo.Context) error {
	rows, err := h.Svc.TodayCheckIns(c.Request().Context())
	if err != nil {
		h.Log.Error("today check-ins", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/reservations/today/check-outs
func (h *Controller) TodayCheckOuts(c echo.Context) error {
	rows, err := h.Svc.TodayCheckOuts(c.Request().Context())
	if err != nil {
		h.Log.Error("today check-outs", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/reservations/active
func (h *Controller) Active(c echo.Context) error {
	rows, err := h.Svc.Active(c.Request().Context())
	if err != nil {
		h.Log.Error("active reservations", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
