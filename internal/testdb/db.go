// Package testdb provides throwaway databases for tests.
package testdb

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/pageza/afrocuisto-cms/backend/config"
	"github.com/pageza/afrocuisto-cms/backend/internal/database"
	"github.com/pageza/afrocuisto-cms/backend/internal/logger"
)

// SQLite opens a migrated in-memory database private to the test.
func SQLite(t *testing.T) *gorm.DB {
	t.Helper()
	log := logger.NewNop()
	db, err := database.Open(config.RecordStoreConfig{
		Backend:    config.RecordStoreSQLite,
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	}, log)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db, "", log))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Postgres starts a disposable Postgres container and applies the SQL
// migrations. The test is skipped when -short is set or Docker is unavailable.
func Postgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(nat.Port("5432/tcp")),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Error cleaning up test database: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	log := logger.NewNop()
	db, err := database.Open(config.RecordStoreConfig{
		Backend:    config.RecordStorePostgres,
		DBHost:     host,
		DBPort:     port.Port(),
		DBUser:     "test",
		DBPassword: "test",
		DBName:     "test",
		DBSSLMode:  "disable",
	}, log)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db, MigrationsDir(), log))
	return db
}

// MigrationsDir locates the repository's migrations directory.
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}
