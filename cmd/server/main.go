package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/burgergo/loyalty-service/internal/cache"
	"github.com/burgergo/loyalty-service/internal/config"
	"github.com/burgergo/loyalty-service/internal/database"
	"github.com/burgergo/loyalty-service/internal/handler"
	"github.com/burgergo/loyalty-service/internal/queue"
	"github.com/burgergo/loyalty-service/internal/repository"
	"github.com/burgergo/loyalty-service/internal/router"
	"github.com/burgergo/loyalty-service/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: rate limiting, caching and kiosk convenience state disabled")
	}
	kioskCfg := config.LoadKioskConfig()

	customers := repository.NewCustomerRepo(db)
	activity := repository.NewActivityRepo(db)
	tokens := repository.NewTokenRepo(db)

	ledger := service.NewLedger(customers, activity, queue.PublishStampActivity)
	lookup := service.NewLookup(customers)

	selections := cache.NewSelectionCache(rdb, kioskCfg.SelectionTTL)
	sequences := cache.NewSequenceGuard(rdb, kioskCfg.SequenceTTL)

	// Background consumer mirrors stamp activity into logs/activity.log.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterPublic(e, handler.NewKioskHandler(lookup, customers, selections, sequences), rdb)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, tokens), cfg.JWTSecret)
	router.RegisterStaff(e, handler.NewStaffHandler(lookup, ledger, activity), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
