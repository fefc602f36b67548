// Package main hostel check-in API.
//
// @title           PVT Hostel Check-in API
// @version         1.0
// @description     Front-desk backend: rooms, guests, reservations, calendar, payments.
// @contact.name    PVT Hostel
// @contact.email   frontdesk@pvthostel.com
// @BasePath        /
// @schemes         http
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pressly/goose/v3"
	"github.com/robfig/cron/v3"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/PresidentAnderson/checkin.pvthostel.com/app/echoServer"
	analyticsctrl "github.com/PresidentAnderson/checkin.pvthostel.com/app/echoServer/controller/analytics"
	calendarctrl "github.com/PresidentAnderson/checkin.pvthostel.com/app/echoServer/controller/calendar"
	guestctrl "github.com/PresidentAnderson/checkin.pvthostel.com/app/echoServer/controller/guest"
	paymentctrl "github.com/PresidentAnderson/checkin.pvthostel.com/app/echoServer/controller/payment"
	reservationctrl "github.com/PresidentAnderson/checkin.pvthostel.com/app/echoServer/controller/reservation"
	roomctrl "github.com/PresidentAnderson/checkin.pvthostel.com/app/echoServer/controller/room"
	"github.com/PresidentAnderson/checkin.pvthostel.com/app/echoServer/validation"
	"github.com/PresidentAnderson/checkin.pvthostel.com/config"
	"github.com/PresidentAnderson/checkin.pvthostel.com/migrations"
	analyticsrepo "github.com/PresidentAnderson/checkin.pvthostel.com/repository/analytics"
	guestrepo "github.com/PresidentAnderson/checkin.pvthostel.com/repository/guest"
	paymentrepo "github.com/PresidentAnderson/checkin.pvthostel.com/repository/payment"
	reservationrepo "github.com/PresidentAnderson/checkin.pvthostel.com/repository/reservation"
	roomrepo "github.com/PresidentAnderson/checkin.pvthostel.com/repository/room"
	striperepo "github.com/PresidentAnderson/checkin.pvthostel.com/repository/stripe"
	analyticssvc "github.com/PresidentAnderson/checkin.pvthostel.com/service/analytics"
	calendarsvc "github.com/PresidentAnderson/checkin.pvthostel.com/service/calendar"
	guestsvc "github.com/PresidentAnderson/checkin.pvthostel.com/service/guest"
	paymentsvc "github.com/PresidentAnderson/checkin.pvthostel.com/service/payment"
	reservationsvc "github.com/PresidentAnderson/checkin.pvthostel.com/service/reservation"
	roomsvc "github.com/PresidentAnderson/checkin.pvthostel.com/service/room"
	"github.com/PresidentAnderson/checkin.pvthostel.com/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Error("bad HOSTEL_TZ", "tz", cfg.Timezone, "err", err)
		os.Exit(1)
	}

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// migrations
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Error("goose dialect", "err", err)
		os.Exit(1)
	}
	if err := goose.Up(db.SQL, "."); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	// repos
	rr := roomrepo.New(db.SQL)
	gr := guestrepo.New(db.SQL)
	resr := reservationrepo.New(db.SQL)
	pr := paymentrepo.New(db.SQL)
	anr := analyticsrepo.New(db.SQL)
	sr := striperepo.NewHTTP(cfg.StripeAPIKey, cfg.StripeWebhookSecret)

	// services
	rooms := roomsvc.New(db, rr)
	guests := guestsvc.New(db, gr)
	reservations := reservationsvc.New(db, resr, rr, gr, loc)
	cal := calendarsvc.New(resr)
	payments := paymentsvc.New(db, sr, resr, pr, cfg.Currency)
	stats := analyticssvc.New(anr, loc)

	// controllers
	v := validator.New()
	roomC := &roomctrl.Controller{Svc: rooms, V: v, Log: log}
	guestC := &guestctrl.Controller{Svc: guests, V: v, Log: log}
	reservationC := &reservationctrl.Controller{Svc: reservations, V: v, Log: log}
	calendarC := &calendarctrl.Controller{Svc: cal, Log: log}
	paymentC := &paymentctrl.Controller{Svc: payments, V: v, Log: log}
	analyticsC := &analyticsctrl.Controller{Svc: stats, Log: log}

	// Nightly no-show sweep, shortly after the hostel's midnight.
	sweeper := reservationsvc.NewSweeper(resr, loc)
	sched := cron.New(cron.WithLocation(loc))
	if _, err := sched.AddFunc("15 0 * * *", func() {
		n, err := sweeper.MarkNoShows(context.Background())
		if err != nil {
			log.Error("no-show sweep failed", "err", err)
			return
		}
		if n > 0 {
			log.Info("no-show sweep", "marked", n)
		}
	}); err != nil {
		log.Error("cron schedule", "err", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Room:        roomC,
		Guest:       guestC,
		Reservation: reservationC,
		Calendar:    calendarC,
		Payment:     paymentC,
		Analytics:   analyticsC,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "port", port, "tz", cfg.Timezone, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
