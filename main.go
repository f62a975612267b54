// Package main library API.
//
// @title           Library Management API
// @version         1.0
// @description     library service (catalog, borrow requests, reviews, users).
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
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/RashmiRanjanSahu1997/library-management/app/echoServer"
	authctrl "github.com/RashmiRanjanSahu1997/library-management/app/echoServer/controller/auth"
	borrowctrl "github.com/RashmiRanjanSahu1997/library-management/app/echoServer/controller/borrow"
	catalogctrl "github.com/RashmiRanjanSahu1997/library-management/app/echoServer/controller/catalog"
	reviewctrl "github.com/RashmiRanjanSahu1997/library-management/app/echoServer/controller/review"
	"github.com/RashmiRanjanSahu1997/library-management/app/echoServer/validation"
	"github.com/RashmiRanjanSahu1997/library-management/config"
	authrepo "github.com/RashmiRanjanSahu1997/library-management/repository/auth"
	borrowrepo "github.com/RashmiRanjanSahu1997/library-management/repository/borrow"
	catalogrepo "github.com/RashmiRanjanSahu1997/library-management/repository/catalog"
	"github.com/RashmiRanjanSahu1997/library-management/repository/mail"
	reviewrepo "github.com/RashmiRanjanSahu1997/library-management/repository/review"
	authsvc "github.com/RashmiRanjanSahu1997/library-management/service/auth"
	borrowsvc "github.com/RashmiRanjanSahu1997/library-management/service/borrow"
	catalogsvc "github.com/RashmiRanjanSahu1997/library-management/service/catalog"
	reviewsvc "github.com/RashmiRanjanSahu1997/library-management/service/review"
	"github.com/RashmiRanjanSahu1997/library-management/util/database"
	"github.com/RashmiRanjanSahu1997/library-management/util/throttle"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB over pgx
	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db.DB); err != nil {
		log.Error("schema setup failed", "err", err)
		os.Exit(1)
	}

	// repos
	ar := authrepo.New(db.DB)
	cr := catalogrepo.New(db.DB)
	br := borrowrepo.New(db.DB)
	rr := reviewrepo.New(db.DB)

	var mx mail.Mailer = mail.NewSMTP(cfg.SMTPAddr, cfg.MailFrom)
	if cfg.MailDisabled {
		mx = mail.NewNoop()
	}

	// borrow creation throttle: per-user rolling day
	lim := throttle.New(cfg.BorrowDailyLimit, 24*time.Hour)

	// services
	as := authsvc.New(ar, cfg.JWTSecret)
	cs := catalogsvc.New(cr)
	bs := borrowsvc.New(db, br, lim, mx, log)
	rs := reviewsvc.New(rr)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	catalogC := &catalogctrl.Controller{Svc: cs, V: v, Log: log}
	borrowC := &borrowctrl.Controller{Svc: bs, V: v, Log: log}
	reviewC := &reviewctrl.Controller{Svc: rs, V: v, Log: log}

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
		Auth:    authC,
		Catalog: catalogC,
		Borrow:  borrowC,
		Review:  reviewC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
