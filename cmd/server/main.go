package main // Entry point package

import (
	"context" // migration deadline
	"log"     // logging library
	"time"

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/tryonlabs/fitpassport/internal/config"     // environment config loaders
	"github.com/tryonlabs/fitpassport/internal/database"   // DB pool + embedded migrations
	"github.com/tryonlabs/fitpassport/internal/handler"    // HTTP handlers
	"github.com/tryonlabs/fitpassport/internal/middleware" // cache and rate-limit middleware
	"github.com/tryonlabs/fitpassport/internal/queue"      // broker consumer
	"github.com/tryonlabs/fitpassport/internal/repository" // data access layer
	"github.com/tryonlabs/fitpassport/internal/router"     // route registration
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	migCtx, migCancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := database.RunMigrations(migCtx, db); err != nil {
		migCancel()
		log.Fatalf("migrations: %v", err)
	}
	migCancel()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	passports := repository.NewPassportRepo(db)
	photos := repository.NewPhotoRepo(db)
	sessions := repository.NewSessionRepo(db)
	events := repository.NewEventRepo(db)
	brands := repository.NewBrandRepo(db)
	garments := repository.NewGarmentRepo(db)

	auth := handler.NewAuthHandler(cfg, users, tokens)
	shopper := handler.NewShopperHandler(users, passports, photos, sessions, events)
	catalog := handler.NewCatalogHandler(brands, garments)

	e := echo.New()
	e.HideBanner = true

	// Redis is optional: without it the service runs uncached and
	// unthrottled rather than refusing to start.
	var cacheMW, rateMW echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		cacheMW = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
		rateMW = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	}
	if rateMW != nil {
		e.Use(rateMW)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth)
	router.RegisterShopper(e, shopper, cfg.JWTSecret)
	router.RegisterCatalog(e, catalog, cacheMW)
	router.RegisterBrandAdmin(e, catalog, cfg.JWTSecret)

	// Broker consumer keeps its own connection and reconnect loop.
	go func() {
		if err := queue.StartPassportConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
