// Package app wires configuration, clients and services into a runnable server.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/pageza/afrocuisto-cms/backend/config"
	"github.com/pageza/afrocuisto-cms/backend/internal/api"
	"github.com/pageza/afrocuisto-cms/backend/internal/database"
	"github.com/pageza/afrocuisto-cms/backend/internal/logger"
	"github.com/pageza/afrocuisto-cms/backend/internal/middleware"
	"github.com/pageza/afrocuisto-cms/backend/internal/observability"
	"github.com/pageza/afrocuisto-cms/backend/internal/router"
	"github.com/pageza/afrocuisto-cms/backend/internal/server"
	"github.com/pageza/afrocuisto-cms/backend/internal/service"
	"github.com/pageza/afrocuisto-cms/backend/internal/storage"
	"github.com/pageza/afrocuisto-cms/backend/internal/store"
)

type App struct {
	Log      *logger.Logger
	Cfg      *config.Config
	Clients  *Clients
	Metrics  *observability.Collector
	Store    store.RecordStore
	Storage  storage.ObjectStorage
	Catalog  *service.Catalog
	Sessions *service.Sessions
	Router   *gin.Engine
	Server   *server.Server
}

// Option overrides part of the wiring.
type Option func(*App)

// WithObjectStorage replaces the configured image bucket.
func WithObjectStorage(s storage.ObjectStorage) Option {
	return func(a *App) { a.Storage = s }
}

// WithRecordStore replaces the configured record store.
func WithRecordStore(s store.RecordStore) Option {
	return func(a *App) { a.Store = s }
}

// New builds the application and performs the initial catalog fetch.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts ...Option) (*App, error) {
	a := &App{
		Log:     log,
		Cfg:     cfg,
		Clients: &Clients{},
		Metrics: observability.NewCollector("afrocuisto"),
	}
	for _, opt := range opts {
		opt(a)
	}

	var err error
	if a.Store == nil {
		if a.Store, err = wireRecordStore(cfg, a.Clients, a.Metrics, log); err != nil {
			a.Clients.Close()
			return nil, err
		}
	}
	if a.Storage == nil {
		if a.Storage, err = wireObjectStorage(ctx, cfg, a.Clients, log); err != nil {
			a.Clients.Close()
			return nil, err
		}
	}
	if err := wireRedis(cfg, a.Clients, log); err != nil {
		a.Clients.Close()
		return nil, err
	}

	a.Catalog = service.NewCatalog(a.Store, log, a.Metrics)
	if err := a.Catalog.FetchAll(ctx); err != nil {
		log.Warn("initial catalog fetch failed, starting empty", "error", err)
	}

	a.Sessions = service.NewSessions(service.EditorDeps{
		Store:              a.Store,
		Storage:            a.Storage,
		Catalog:            a.Catalog,
		Log:                log,
		Metrics:            a.Metrics,
		PathPrefix:         cfg.ObjectStore.PathPrefix,
		SaveCloseDelay:     cfg.Editor.SaveCloseDelay,
		ProgressResetDelay: cfg.Editor.ProgressResetDelay,
	})

	limiter := middleware.NewRateLimiter(a.Clients.Redis, middleware.RateLimitConfig{
		Window:    cfg.Redis.RateLimitWindow,
		Limit:     cfg.Redis.RateLimit,
		KeyPrefix: "afrocuisto:ratelimit",
	}, log)

	a.Router = router.SetupRouter(router.Deps{
		Catalog:        a.Catalog,
		Sessions:       a.Sessions,
		Limiter:        limiter,
		Metrics:        a.Metrics,
		Log:            log,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		HealthChecks:   a.healthChecks(),
	})
	a.Server = server.New(cfg.Server, a.Router, a.Sessions, log)
	return a, nil
}

func (a *App) healthChecks() map[string]api.HealthCheck {
	checks := map[string]api.HealthCheck{}
	if db := a.Clients.DB; db != nil {
		checks["database"] = func(ctx context.Context) error { return database.HealthCheck(ctx, db) }
	}
	if rdb := a.Clients.Redis; rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}

// Run serves HTTP until Shutdown.
func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Start()
}

// Shutdown stops the server and releases every client.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Server.Shutdown(ctx)
	a.Clients.Close()
	a.Log.Sync()
	return err
}
