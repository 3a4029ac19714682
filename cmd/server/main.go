package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/config"
	"github.com/iliyamo/event-ticket-reservation/internal/database"
	"github.com/iliyamo/event-ticket-reservation/internal/handler"
	"github.com/iliyamo/event-ticket-reservation/internal/middleware"
	"github.com/iliyamo/event-ticket-reservation/internal/queue"
	"github.com/iliyamo/event-ticket-reservation/internal/repository"
	"github.com/iliyamo/event-ticket-reservation/internal/router"
	"github.com/iliyamo/event-ticket-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis backs the rate limiter only; a missing Redis disables
	// limiting instead of failing startup.
	rdb := config.NewRedisClient()
	rlCfg := config.LoadRateLimitConfig()

	store := repository.NewStore(db)
	users := repository.NewUserRepo(db)
	admins := repository.NewAdministratorRepo(db)
	tokens := repository.NewTokenRepo(db)
	events := repository.NewEventRepo(db)

	svc := service.NewReservations(store)

	authH := handler.NewAuthHandler(cfg, users, admins, tokens)
	eventH := handler.NewEventHandler(svc)
	resH := handler.NewReservationHandler(svc)
	adminH := handler.NewAdminHandler(events, svc)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(rlCfg, rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterEvents(e, eventH, resH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	// Background audit consumer; reconnects on broker failures.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
