package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// ValidateConfig checks the configuration required by the selected backends
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.Server.Port == "" {
		add("server.port", "is required")
	}

	switch cfg.RecordStore.Backend {
	case RecordStorePostgres:
		if cfg.RecordStore.DBHost == "" {
			add("record_store.db_host", "is required for postgres")
		}
		if cfg.RecordStore.DBName == "" {
			add("record_store.db_name", "is required for postgres")
		}
		if cfg.RecordStore.DBPassword == "" {
			if cfg.Environment == CI {
				add("record_store.db_password", "TEST_DB_PASSWORD environment variable is required in CI environment")
			} else {
				add("record_store.db_password", "db_password secret or DB_PASSWORD is required")
			}
		}
	case RecordStoreSQLite:
		if cfg.RecordStore.SQLitePath == "" {
			add("record_store.sqlite_path", "is required for sqlite")
		}
	case RecordStoreSupabase:
	default:
		add("record_store.backend", fmt.Sprintf("unknown backend %q", cfg.RecordStore.Backend))
	}

	needsSupabase := cfg.RecordStore.Backend == RecordStoreSupabase || cfg.ObjectStore.Backend == ObjectStoreSupabase
	if needsSupabase {
		if _, err := url.ParseRequestURI(cfg.Supabase.URL); err != nil {
			add("supabase.url", "must be an absolute URL")
		}
		if cfg.Supabase.ServiceKey == "" {
			add("supabase.service_key", "supabase_service_key secret or SUPABASE_SERVICE_ROLE_KEY is required")
		}
	}

	switch cfg.ObjectStore.Backend {
	case ObjectStoreS3, ObjectStoreSupabase, ObjectStoreGCS:
	default:
		add("object_store.backend", fmt.Sprintf("unknown backend %q", cfg.ObjectStore.Backend))
	}
	if cfg.ObjectStore.Bucket == "" {
		add("object_store.bucket", "is required")
	}
	if cfg.ObjectStore.Backend == ObjectStoreS3 && cfg.ObjectStore.S3Region == "" && cfg.ObjectStore.S3Endpoint == "" {
		add("object_store.s3_region", "AWS_REGION or S3_ENDPOINT is required for s3")
	}
	if raw := cfg.ObjectStore.PublicBaseURL; raw != "" {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			add("object_store.public_base_url", fmt.Sprintf("invalid URL %q", raw))
		}
	}

	if cfg.Editor.SaveCloseDelay < 0 || cfg.Editor.ProgressResetDelay < 0 {
		add("editor", "delays must not be negative")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
