package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/ksolovey/unimatch/internal/app"
	"github.com/ksolovey/unimatch/internal/bot"
	"github.com/ksolovey/unimatch/internal/cache"
	"github.com/ksolovey/unimatch/internal/config"
	"github.com/ksolovey/unimatch/internal/db"
	"github.com/ksolovey/unimatch/internal/gateway"
	"github.com/ksolovey/unimatch/internal/logger"
	"github.com/ksolovey/unimatch/internal/server"
	"github.com/ksolovey/unimatch/internal/session"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log)

	if cfg.App.Env == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	sessions := session.NewStore()
	router := bot.New(appCtx, sessions, cfg.App.ComplaintThreshold, cfg.App.MatchesPreview)

	// The platform adapter (chat transport) attaches to this gateway:
	// it submits intents and drains rendering effects.
	gw := gateway.NewLocalGateway(64)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting intent dispatcher")
	if err := server.NewRunner(gw, router, log).Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("dispatcher stopped", "err", err)
	}
}
