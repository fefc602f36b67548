package echoServer

import (
	"github.com/labstack/echo/v4"

	"github.com/PresidentAnderson/checkin.pvthostel.com/app/echoServer/controller/analytics"
	"github.com/PresidentAnderson/checkin.pvthostel.com/app/echoServer/controller/calendar"
	"github.com/PresidentAnderson/checkin.pvthostel.com/app/echoServer/controller/guest"
	"github.com/PresidentAnderson/checkin.pvthostel.com/app/echoServer/controller/payment"
	"github.com/PresidentAnderson/checkin.pvthostel.com/app/echoServer/controller/reservation"
	"github.com/PresidentAnderson/checkin.pvthostel.com/app/echoServer/controller/room"
)

type C struct {
	Room        *room.Controller
	Guest       *guest.Controller
	Reservation *reservation.Controller
	Calendar    *calendar.Controller
	Payment     *payment.Controller
	Analytics   *analytics.Controller
}

func Register(e *echo.Echo, c C) {
	v1 := e.Group("/v1")

	// Rooms
	v1.GET("/rooms", c.Room.List)
	v1.GET("/rooms/available", c.Room.Available)
	v1.GET("/rooms/:id", c.Room.Detail)
	v1.POST("/rooms", c.Room.Create)
	v1.PATCH("/rooms/:id/status", c.Room.SetStatus)
	v1.PATCH("/rooms/:id/pricing", c.Room.UpdatePricing)

	// Guests
	v1.POST("/guests", c.Guest.Create)
	v1.GET("/guests", c.Guest.List)
	v1.GET("/guests/:id", c.Guest.Detail)

	// Reservations. Fixed paths go before the :id ones so "today" and
	// "active" never parse as ids.
	v1.GET("/reservations/today/check-ins", c.Reservation.TodayCheckIns)
	v1.GET("/reservations/today/check-outs", c.Reservation.TodayCheckOuts)
	v1.GET("/reservations/active", c.Reservation.Active)
	v1.POST("/reservations", c.Reservation.Create)
	v1.GET("/reservations", c.Reservation.List)
	v1.GET("/reservations/:id", c.Reservation.Detail)
	v1.POST("/reservations/:id/confirm", c.Reservation.Confirm)
	v1.POST("/reservations/:id/cancel", c.Reservation.Cancel)
	v1.POST("/reservations/:id/check-in", c.Reservation.CheckIn)
	v1.POST("/reservations/:id/check-out", c.Reservation.CheckOut)
	v1.POST("/reservations/:id/no-show", c.Reservation.NoShow)

	// Payments
	v1.POST("/reservations/:id/payment-intents", c.Payment.CreateIntent)
	v1.POST("/reservations/:id/payments", c.Payment.Record)
	v1.GET("/reservations/:id/payments", c.Payment.History)
	v1.POST("/reservations/:id/refunds", c.Payment.Refund)
	v1.POST("/payments/stripe/webhook", c.Payment.HandleStripe)

	// Calendar
	v1.GET("/calendar/events", c.Calendar.Events)

	// Analytics
	v1.GET("/analytics/dashboard", c.Analytics.Dashboard)
}
