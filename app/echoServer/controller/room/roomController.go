package room

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/PresidentAnderson/checkin.pvthostel.com/model"
	roomsvc "github.com/PresidentAnderson/checkin.pvthostel.com/service/room"
	"github.com/PresidentAnderson/checkin.pvthostel.com/util/dates"
)

type Controller struct {
	Svc roomsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/rooms
func (h *Controller) Create(c echo.Context) error {
	var req CreateRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.Create(c.Request().Context(), req.Number, model.RoomType(req.Type), req.Capacity, req.BasePrice, req.Floor)
	if err != nil {
		h.Log.Error("room create", "err", err)
		switch roomsvc.Code(err) {
		case roomsvc.ErrValidation:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
		case roomsvc.ErrDuplicate:
			return c.JSON(http.StatusConflict, echo.Map{"message": "room number already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": out})
}

// GET /v1/rooms
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("room list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/rooms/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	out, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if roomsvc.Code(err) == roomsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "room not found"})
		}
		h.Log.Error("room detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// PATCH /v1/rooms/:id/status
func (h *Controller) SetStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req SetStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.SetStatus(c.Request().Context(), id, model.RoomStatus(req.Status))
	if err != nil {
		h.Log.Error("room status", "err", err)
		switch roomsvc.Code(err) {
		case roomsvc.ErrValidation:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
		case roomsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "room not found"})
		case roomsvc.ErrInvalidTransition:
			return c.JSON(http.StatusConflict, echo.Map{"message": "occupied rooms must be cleaned before becoming available"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// PATCH /v1/rooms/:id/pricing
func (h *Controller) UpdatePricing(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdatePricingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.UpdatePricing(c.Request().Context(), id, req.BasePrice)
	if err != nil {
		h.Log.Error("room pricing", "err", err)
		switch roomsvc.Code(err) {
		case roomsvc.ErrValidation:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
		case roomsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "room not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/rooms/available?check_in=2026-08-28&check_out=2026-08-30
func (h *Controller) Available(c echo.Context) error {
	checkIn, err := time.Parse(dates.DayFormat, c.QueryParam("check_in"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid check_in date"})
	}
	checkOut, err := time.Parse(dates.DayFormat, c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid check_out date"})
	}

	rows, err := h.Svc.Available(c.Request().Context(), checkIn, checkOut)
	if err != nil {
		if roomsvc.Code(err) == roomsvc.ErrValidation {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "check_out must be after check_in"})
		}
		h.Log.Error("room available", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
