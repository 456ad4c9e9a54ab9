package main

import (
	"context"
	"log"
	"time"

	"github.com/pageza/afrocuisto-cms/backend/config"
	"github.com/pageza/afrocuisto-cms/backend/internal/app"
	"github.com/pageza/afrocuisto-cms/backend/internal/logger"
	"github.com/pageza/afrocuisto-cms/backend/internal/seed"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zlog, err := logger.New(cfg.Environment.LogMode(), cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zlog.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to build application", "error", err)
	}
	defer func() { _ = a.Shutdown(context.Background()) }()

	written, err := seed.Recipes(ctx, a.Store, seed.Catalog())
	if err != nil {
		zlog.Fatal("failed to seed recipes", "error", err)
	}
	zlog.Info("seeded recipes", "count", written, "total", len(seed.Catalog()))
}
