package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/sanyovichhh/parkmate-backend/internal/config"
	"github.com/sanyovichhh/parkmate-backend/internal/database"
	"github.com/sanyovichhh/parkmate-backend/internal/handler"
	"github.com/sanyovichhh/parkmate-backend/internal/middleware"
	"github.com/sanyovichhh/parkmate-backend/internal/queue"
	"github.com/sanyovichhh/parkmate-backend/internal/repository"
	"github.com/sanyovichhh/parkmate-backend/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}

	users := repository.NewUserRepo(db)
	parkings := repository.NewParkingRepo(db)
	bookings := repository.NewBookingRepo(db)

	var events queue.Publisher
	if os.Getenv("QUEUE_ENABLED") != "false" {
		events = queue.NewAMQPPublisher()
	}
	if os.Getenv("QUEUE_CONSUMER_ENABLED") == "true" {
		go queue.StartAuditConsumer()
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e, router.Deps{
		Auth:      handler.NewAuthHandler(cfg, users),
		Users:     handler.NewUserHandler(users),
		Parking:   handler.NewParkingHandler(parkings),
		Bookings:  handler.NewBookingHandler(bookings, parkings, users, events),
		Principal: middleware.ResolvePrincipal(users, cfg.JWTSecret),
		RateLimit: middleware.RateLimit(config.LoadRateLimitConfig(), rdb),
		Cache:     middleware.CacheJSON(config.LoadCacheConfig(), rdb),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
