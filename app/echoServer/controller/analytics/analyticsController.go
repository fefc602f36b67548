package analytics

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	analyticssvc "github.com/PresidentAnderson/checkin.pvthostel.com/service/analytics"
)

type Controller struct {
	Svc analyticssvc.Service
	Log *slog.Logger
}

// GET /v1/analytics/dashboard
func (h *Controller) Dashboard(c echo.Context) error {
	stats, err := h.Svc.Dashboard(c.Request().Context())
	if err != nil {
		h.Log.Error("dashboard", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": stats})
}
