package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"

	"github.com/pageza/afrocuisto-cms/backend/config"
	"github.com/pageza/afrocuisto-cms/backend/internal/database"
	"github.com/pageza/afrocuisto-cms/backend/internal/logger"
)

const migrationsTable = `
	CREATE TABLE IF NOT EXISTS migrations (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	migrationsDir := flag.String("dir", "migrations", "Directory holding the SQL migrations")
	flag.Parse()

	zlog, err := logger.New(config.GetEnvironment().LogMode(), os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zlog.Sync()

	db, err := sql.Open("postgres", dsn(zlog))
	if err != nil {
		zlog.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()

	if _, err := db.Exec(migrationsTable); err != nil {
		zlog.Fatal("failed to create migrations table", "error", err)
	}

	if *rollback {
		rollbackLast(db, *migrationsDir, zlog)
		return
	}
	applyAll(db, *migrationsDir, zlog)
}

// dsn prefers DATABASE_URL and falls back to the record store settings.
func dsn(zlog *logger.Logger) string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		zlog.Fatal("DATABASE_URL is not set and configuration is invalid", "error", err)
	}
	if cfg.RecordStore.Backend != config.RecordStorePostgres {
		zlog.Fatal("migrations need a postgres record store", "backend", cfg.RecordStore.Backend)
	}
	return database.PostgresDSN(cfg.RecordStore)
}

func migrationFiles(dir string, zlog *logger.Logger) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		zlog.Fatal("failed to read migrations directory", "dir", dir, "error", err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if filepath.Ext(name) == ".sql" && !strings.HasSuffix(name, database.RollbackSuffix) {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files
}

func applyAll(db *sql.DB, dir string, zlog *logger.Logger) {
	for _, file := range migrationFiles(dir, zlog) {
		var applied bool
		if err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM migrations WHERE name = $1)", file).Scan(&applied); err != nil {
			zlog.Fatal("failed to check migration status", "file", file, "error", err)
		}
		if applied {
			zlog.Info("migration already applied", "file", file)
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			zlog.Fatal("failed to read migration", "file", file, "error", err)
		}

		tx, err := db.Begin()
		if err != nil {
			zlog.Fatal("failed to start transaction", "error", err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			zlog.Fatal("failed to apply migration", "file", file, "error", err)
		}
		if _, err := tx.Exec("INSERT INTO migrations (name) VALUES ($1)", file); err != nil {
			_ = tx.Rollback()
			zlog.Fatal("failed to record migration", "file", file, "error", err)
		}
		if err := tx.Commit(); err != nil {
			zlog.Fatal("failed to commit migration", "file", file, "error", err)
		}
		zlog.Info("applied migration", "file", file)
	}
	zlog.Info("all migrations applied")
}

func rollbackLast(db *sql.DB, dir string, zlog *logger.Logger) {
	var last string
	err := db.QueryRow("SELECT name FROM migrations ORDER BY applied_at DESC, id DESC LIMIT 1").Scan(&last)
	if err == sql.ErrNoRows {
		zlog.Fatal("no migrations to rollback")
	}
	if err != nil {
		zlog.Fatal("failed to get last migration", "error", err)
	}

	path := filepath.Join(dir, strings.TrimSuffix(last, ".sql")+database.RollbackSuffix)
	content, err := os.ReadFile(path)
	if err != nil {
		zlog.Fatal("failed to read rollback file", "path", path, "error", err)
	}

	tx, err := db.Begin()
	if err != nil {
		zlog.Fatal("failed to start transaction", "error", err)
	}
	if _, err := tx.Exec(string(content)); err != nil {
		_ = tx.Rollback()
		zlog.Fatal("failed to execute rollback", "file", path, "error", err)
	}
	if _, err := tx.Exec("DELETE FROM migrations WHERE name = $1", last); err != nil {
		_ = tx.Rollback()
		zlog.Fatal("failed to remove migration record", "error", err)
	}
	if err := tx.Commit(); err != nil {
		zlog.Fatal("failed to commit rollback", "error", err)
	}
	zlog.Info("rolled back migration", "file", last)
}
