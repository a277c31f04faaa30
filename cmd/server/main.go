package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/mintgate/merchant-gateway/internal/auth"
	"github.com/mintgate/merchant-gateway/internal/config"
	"github.com/mintgate/merchant-gateway/internal/crossmint"
	"github.com/mintgate/merchant-gateway/internal/database"
	"github.com/mintgate/merchant-gateway/internal/handler"
	"github.com/mintgate/merchant-gateway/internal/queue"
	"github.com/mintgate/merchant-gateway/internal/repository"
	"github.com/mintgate/merchant-gateway/internal/router"
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	merchants := repository.NewMerchantRepo(db)
	admins := repository.NewAdminRepo(db)
	users := repository.NewUserRepo(db)
	uids := repository.NewUIDRepo(db)
	providers := repository.NewProviderRepo(db)
	if err := providers.EnsureDefaults(ctx); err != nil {
		log.Fatalf("seed providers: %v", err)
	}

	stores := auth.Stores{Merchants: merchants, Admins: admins, Users: users}
	issuer := auth.NewIssuer(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays, stores)
	resolver := &auth.Resolver{Merchants: merchants, UIDs: uids}

	publisher := queue.NewPublisher()
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	cm := crossmint.New(cfg.CrossmintBaseURL, cfg.CrossmintAPIKey)

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, issuer, stores),
		Merchant: handler.NewMerchantHandler(merchants, providers, resolver, publisher, cfg.BcryptCost),
		UID:      handler.NewUIDHandler(uids, merchants, publisher),
		Public:   handler.NewPublicHandler(resolver, providers),
		NFT:      handler.NewNFTHandler(cm),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	rdb := config.NewRedisClient()
	router.Register(e, h, issuer, stores, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
