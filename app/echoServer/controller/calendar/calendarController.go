package calendar

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	calendarsvc "github.com/PresidentAnderson/checkin.pvthostel.com/service/calendar"
	"github.com/PresidentAnderson/checkin.pvthostel.com/util/dates"
)

type Controller struct {
	Svc calendarsvc.Service
	Log *slog.Logger
}

// GET /v1/calendar/events?from=2026-08-01&to=2026-09-01
func (h *Controller) Events(c echo.Context) error {
	from, err := time.Parse(dates.DayFormat, c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid from date"})
	}
	to, err := time.Parse(dates.DayFormat, c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid to date"})
	}
	if !from.Before(to) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "to must be after from"})
	}

	events, err := h.Svc.Events(c.Request().Context(), from, to)
	if err != nil {
		h.Log.Error("calendar events", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": events})
}
