package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/config"
	"github.com/iliyamo/railway-reservation/internal/database"
	"github.com/iliyamo/railway-reservation/internal/handler"
	"github.com/iliyamo/railway-reservation/internal/middleware"
	"github.com/iliyamo/railway-reservation/internal/queue"
	"github.com/iliyamo/railway-reservation/internal/repository"
	"github.com/iliyamo/railway-reservation/internal/router"
	queue_publisher "github.com/iliyamo/railway-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	stations := repository.NewStationRepo(db)
	trains := repository.NewTrainRepo(db)
	routes := repository.NewRouteRepo(db)
	schedules := repository.NewScheduleRepo(db)
	bookings := repository.NewBookingRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	bookingH := handler.NewBookingHandler(bookings, schedules, routes)
	journeyH := handler.NewJourneyHandler(bookings, schedules, routes, trains)
	catalogH := handler.NewCatalogHandler(stations, trains, routes, schedules)

	e := echo.New()

	// Redis backs the rate limiter and the public response cache.  A nil
	// client disables both instead of failing startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, rate limiting and response cache disabled")
	}
	var cacheMW echo.MiddlewareFunc
	if rdb != nil {
		rlCfg := config.LoadRateLimitConfig()
		if rlCfg.Enabled {
			e.Use(middleware.NewTokenBucket(rlCfg, rdb))
		}
		cacheCfg := config.LoadCacheConfig()
		if cacheCfg.Enabled {
			cacheMW = middleware.NewRedisCache(cacheCfg, rdb)
		}
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, journeyH, catalogH, cacheMW)
	router.RegisterBookings(e, bookingH, cfg.JWTSecret)
	router.RegisterCatalog(e, catalogH, cfg.JWTSecret)

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()
	go func() {
		if err := queue.StartReminderConsumer(); err != nil {
			log.Printf("reminder consumer stopped: %v", err)
		}
	}()
	go queue_publisher.StartDepartureNotifier(context.Background(), bookings)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
