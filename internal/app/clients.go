package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/supabase-community/supabase-go"
	"gorm.io/gorm"

	"github.com/pageza/afrocuisto-cms/backend/config"
	"github.com/pageza/afrocuisto-cms/backend/internal/database"
	"github.com/pageza/afrocuisto-cms/backend/internal/logger"
	"github.com/pageza/afrocuisto-cms/backend/internal/observability"
	"github.com/pageza/afrocuisto-cms/backend/internal/storage"
	"github.com/pageza/afrocuisto-cms/backend/internal/store"
)

// Clients are the external connections the application holds.
type Clients struct {
	DB       *gorm.DB
	Supabase *supabase.Client
	Redis    *redis.Client
	gcs      *storage.GCSStorage
}

func (c *Clients) supabaseClient(cfg config.SupabaseConfig) (*supabase.Client, error) {
	if c.Supabase != nil {
		return c.Supabase, nil
	}
	client, err := supabase.NewClient(cfg.URL, cfg.ServiceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("init supabase client: %w", err)
	}
	c.Supabase = client
	return client, nil
}

func wireRecordStore(cfg *config.Config, clients *Clients, metrics *observability.Collector, log *logger.Logger) (store.RecordStore, error) {
	log.Info("Wiring record store...", "backend", cfg.RecordStore.Backend)

	var rs store.RecordStore
	switch cfg.RecordStore.Backend {
	case config.RecordStorePostgres, config.RecordStoreSQLite:
		db, err := database.Open(cfg.RecordStore, log)
		if err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		if cfg.RecordStore.Backend == config.RecordStoreSQLite {
			if err := database.RunMigrations(db, "", log); err != nil {
				return nil, fmt.Errorf("sqlite automigrate: %w", err)
			}
		}
		clients.DB = db
		rs = store.NewGormStore(db)
	case config.RecordStoreSupabase:
		client, err := clients.supabaseClient(cfg.Supabase)
		if err != nil {
			return nil, err
		}
		rs = store.NewSupabaseStore(client)
	default:
		return nil, fmt.Errorf("unknown record store backend %q", cfg.RecordStore.Backend)
	}

	if b := cfg.RecordStore.Breaker; b.Enabled {
		rs = store.NewBreakerStore(rs, store.BreakerSettings{
			MinRequests:  b.MinRequests,
			FailureRatio: b.FailureRatio,
			Timeout:      b.Timeout,
		}, log)
	}
	return store.NewInstrumentedStore(rs, metrics), nil
}

func wireObjectStorage(ctx context.Context, cfg *config.Config, clients *Clients, log *logger.Logger) (storage.ObjectStorage, error) {
	obj := cfg.ObjectStore
	log.Info("Wiring object storage...", "backend", obj.Backend, "bucket", obj.Bucket)

	switch obj.Backend {
	case config.ObjectStoreS3:
		s3cfg, err := config.NewS3Config(ctx, obj)
		if err != nil {
			return nil, fmt.Errorf("init s3 client: %w", err)
		}
		if obj.S3ApplyReadPolicy {
			if err := s3cfg.SetupBucketPolicy(ctx); err != nil {
				log.Warn("failed to apply public read policy", "bucket", obj.Bucket, "error", err)
			}
		}
		return storage.NewS3Storage(s3cfg, obj.PublicBaseURL), nil
	case config.ObjectStoreSupabase:
		client, err := clients.supabaseClient(cfg.Supabase)
		if err != nil {
			return nil, err
		}
		return storage.NewSupabaseStorage(client.Storage, obj.Bucket), nil
	case config.ObjectStoreGCS:
		gcs, err := storage.NewGCSStorage(ctx, obj)
		if err != nil {
			return nil, fmt.Errorf("init gcs client: %w", err)
		}
		clients.gcs = gcs
		return gcs, nil
	default:
		return nil, fmt.Errorf("unknown object store backend %q", obj.Backend)
	}
}

func wireRedis(cfg *config.Config, clients *Clients, log *logger.Logger) error {
	if !cfg.Redis.Enabled() {
		log.Info("Redis not configured, rate limiting disabled")
		return nil
	}
	client, err := database.NewRedisClient(cfg.Redis, log)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	clients.Redis = client
	return nil
}

// Close releases every open connection.
func (c *Clients) Close() {
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.gcs != nil {
		_ = c.gcs.Close()
	}
}
