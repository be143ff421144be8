// Package main equipment rental API.
//
// @title           Gear Rental API
// @version         1.0
// @description     Equipment-rental storefront: catalog, availability, cart, checkout, admin bookings.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"gearrental/app/echoServer"
	authctrl "gearrental/app/echoServer/controller/auth"
	bookingctrl "gearrental/app/echoServer/controller/booking"
	cartctrl "gearrental/app/echoServer/controller/cart"
	productctrl "gearrental/app/echoServer/controller/product"
	"gearrental/app/echoServer/validation"
	"gearrental/config"
	"gearrental/model"
	authrepo "gearrental/repository/auth"
	bookingrepo "gearrental/repository/booking"
	cartrepo "gearrental/repository/cart"
	productrepo "gearrental/repository/product"
	telegramrepo "gearrental/repository/telegram"
	authsvc "gearrental/service/auth"
	bookingsvc "gearrental/service/booking"
	cartsvc "gearrental/service/cart"
	productsvc "gearrental/service/product"
	"gearrental/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ar := authrepo.New(db)
	pr := productrepo.New(db)
	br := bookingrepo.New(db)
	cr := cartrepo.New(db)

	var notifier cartsvc.Notifier
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		notifier = telegramrepo.NewHTTP(cfg.TelegramBotToken, cfg.TelegramChatID)
	}

	// services
	as := authsvc.New(ar, cfg.JWTSecret)
	ps := productsvc.New(pr)
	bs := bookingsvc.New(br)
	cs := cartsvc.New(productSource{pr}, bookingSource{br}, cr, notifier, log)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	productC := &productctrl.Controller{Svc: ps, V: v, Log: log}
	cartC := &cartctrl.Controller{Svc: cs, V: v, Log: log}
	bookingC := &bookingctrl.Controller{Svc: bs, V: v, Log: log}

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
		Auth:      authC,
		Product:   productC,
		Cart:      cartC,
		Booking:   bookingC,
		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}

// adapters from the repositories to the cart orchestrator's ports

type productSource struct{ r productrepo.Repo }

func (s productSource) Product(ctx context.Context, id int64) (*model.Product, error) {
	return s.r.Detail(ctx, id)
}

type bookingSource struct{ r bookingrepo.Repo }

func (s bookingSource) BookingsForProduct(ctx context.Context, productID int64) ([]model.Booking, error) {
	return s.r.ListByProduct(ctx, productID)
}

func (s bookingSource) Insert(ctx context.Context, b *model.Booking) (int64, error) {
	return s.r.Insert(ctx, b)
}
