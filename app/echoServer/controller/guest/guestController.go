package guest

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/PresidentAnderson/checkin.pvthostel.com/model"
	guestsvc "github.com/PresidentAnderson/checkin.pvthostel.com/service/guest"
)

type CreateGuestReq struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	IDNumber  string `json:"id_number" validate:"required"`
}

type Controller struct {
	Svc guestsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/guests
func (h *Controller) Create(c echo.Context) error {
	var req CreateGuestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.Create(c.Request().Context(), model.Guest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		IDNumber:  req.IDNumber,
	})
	if err != nil {
		h.Log.Error("guest create", "err", err)
		if guestsvc.Code(err) == guestsvc.ErrValidation {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": out})
}

// GET /v1/guests/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	out, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if guestsvc.Code(err) == guestsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "guest not found"})
		}
		h.Log.Error("guest detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/guests?search=&limit=&offset=
func (h *Controller) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	rows, err := h.Svc.List(c.Request().Context(), c.QueryParam("search"), limit, offset)
	if err != nil {
		h.Log.Error("guest list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
