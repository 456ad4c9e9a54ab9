package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Record store backends.
const (
	RecordStorePostgres = "postgres"
	RecordStoreSQLite   = "sqlite"
	RecordStoreSupabase = "supabase"
)

// Object store backends.
const (
	ObjectStoreS3       = "s3"
	ObjectStoreSupabase = "supabase"
	ObjectStoreGCS      = "gcs"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment `yaml:"-"`

	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	RecordStore RecordStoreConfig `yaml:"record_store"`
	Supabase    SupabaseConfig    `yaml:"supabase"`
	ObjectStore ObjectStoreConfig `yaml:"object_store"`
	Redis       RedisConfig       `yaml:"redis"`
	Editor      EditorConfig      `yaml:"editor"`
}

type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// RecordStoreConfig selects and configures the recipes relation backend.
type RecordStoreConfig struct {
	Backend    string        `yaml:"backend"`
	DBHost     string        `yaml:"db_host"`
	DBPort     string        `yaml:"db_port"`
	DBUser     string        `yaml:"db_user"`
	DBPassword string        `yaml:"-"`
	DBName     string        `yaml:"db_name"`
	DBSSLMode  string        `yaml:"db_ssl_mode"`
	SQLitePath string        `yaml:"sqlite_path"`
	Breaker    BreakerConfig `yaml:"breaker"`
}

// BreakerConfig tunes the circuit breaker wrapped around the record store.
type BreakerConfig struct {
	Enabled      bool          `yaml:"enabled"`
	MinRequests  uint32        `yaml:"min_requests"`
	FailureRatio float64       `yaml:"failure_ratio"`
	Timeout      time.Duration `yaml:"timeout"`
}

type SupabaseConfig struct {
	URL        string `yaml:"url"`
	ServiceKey string `yaml:"-"`
}

// ObjectStoreConfig selects and configures the recipe image bucket.
type ObjectStoreConfig struct {
	Backend       string `yaml:"backend"`
	Bucket        string `yaml:"bucket"`
	PathPrefix    string `yaml:"path_prefix"`
	PublicBaseURL string `yaml:"public_base_url"`

	S3Region          string `yaml:"s3_region"`
	S3Endpoint        string `yaml:"s3_endpoint"`
	S3UsePathStyle    bool   `yaml:"s3_use_path_style"`
	S3ApplyReadPolicy bool   `yaml:"s3_apply_read_policy"`

	GCSEndpoint        string `yaml:"gcs_endpoint"`
	GCSCredentialsFile string `yaml:"gcs_credentials_file"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"-"`
	DB       int    `yaml:"db"`
	URL      string `yaml:"url"`

	RateLimitWindow time.Duration `yaml:"rate_limit_window"`
	RateLimit       int           `yaml:"rate_limit"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Host != ""
}

// EditorConfig holds the editor's fixed UI delays.
type EditorConfig struct {
	SaveCloseDelay     time.Duration `yaml:"save_close_delay"`
	ProgressResetDelay time.Duration `yaml:"progress_reset_delay"`
}

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		Environment: Development,
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           "8080",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Log: LogConfig{Level: "info"},
		RecordStore: RecordStoreConfig{
			Backend:    RecordStoreSQLite,
			DBHost:     "localhost",
			DBPort:     "5432",
			DBUser:     "postgres",
			DBName:     "afrocuisto",
			DBSSLMode:  "disable",
			SQLitePath: "afrocuisto.db",
			Breaker: BreakerConfig{
				MinRequests:  5,
				FailureRatio: 0.8,
				Timeout:      30 * time.Second,
			},
		},
		ObjectStore: ObjectStoreConfig{
			Backend:    ObjectStoreS3,
			Bucket:     "recipe-images",
			PathPrefix: "recipes",
		},
		Redis: RedisConfig{
			RateLimitWindow: time.Minute,
			RateLimit:       30,
		},
		Editor: EditorConfig{
			SaveCloseDelay:     1500 * time.Millisecond,
			ProgressResetDelay: time.Second,
		},
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file,
// environment variables and (outside CI) Docker secrets, then validates it.
func LoadConfig() (*Config, error) {
	cfg := Default()
	cfg.Environment = GetEnvironment()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load configuration file: %w", err)
		}
	}

	loadEnv(cfg)

	if cfg.Environment == CI {
		// CI only ever sees injected environment variables
		cfg.RecordStore.DBPassword = getEnv("TEST_DB_PASSWORD", cfg.RecordStore.DBPassword)
		cfg.Supabase.ServiceKey = getEnv("TEST_SUPABASE_SERVICE_KEY", cfg.Supabase.ServiceKey)
		cfg.Redis.Password = getEnv("TEST_REDIS_PASSWORD", cfg.Redis.Password)
	} else {
		loadSecrets(cfg)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func loadEnv(cfg *Config) {
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnv("SERVER_PORT", cfg.Server.Port)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = splitList(origins)
	}
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	rs := &cfg.RecordStore
	rs.Backend = getEnv("RECORD_STORE", rs.Backend)
	rs.DBHost = getEnv("DB_HOST", rs.DBHost)
	rs.DBPort = getEnv("DB_PORT", rs.DBPort)
	rs.DBUser = getEnv("DB_USER", rs.DBUser)
	rs.DBPassword = getEnv("DB_PASSWORD", rs.DBPassword)
	rs.DBName = getEnv("DB_NAME", rs.DBName)
	rs.DBSSLMode = getEnv("DB_SSL_MODE", rs.DBSSLMode)
	rs.SQLitePath = getEnv("SQLITE_PATH", rs.SQLitePath)
	rs.Breaker.Enabled = getEnvBool("RECORD_STORE_BREAKER", rs.Breaker.Enabled)

	cfg.Supabase.URL = getEnv("SUPABASE_URL", cfg.Supabase.URL)
	cfg.Supabase.ServiceKey = getEnv("SUPABASE_SERVICE_ROLE_KEY", cfg.Supabase.ServiceKey)

	obj := &cfg.ObjectStore
	obj.Backend = getEnv("OBJECT_STORE", obj.Backend)
	obj.Bucket = getEnv("OBJECT_STORE_BUCKET", obj.Bucket)
	obj.PublicBaseURL = getEnv("OBJECT_STORE_PUBLIC_BASE_URL", obj.PublicBaseURL)
	obj.S3Region = getEnv("AWS_REGION", obj.S3Region)
	obj.S3Endpoint = getEnv("S3_ENDPOINT", obj.S3Endpoint)
	obj.S3UsePathStyle = getEnvBool("S3_USE_PATH_STYLE", obj.S3UsePathStyle)
	obj.GCSEndpoint = getEnv("GCS_ENDPOINT", obj.GCSEndpoint)
	obj.GCSCredentialsFile = getEnv("GOOGLE_APPLICATION_CREDENTIALS", obj.GCSCredentialsFile)

	cfg.Redis.Host = getEnv("REDIS_HOST", cfg.Redis.Host)
	cfg.Redis.Port = getEnv("REDIS_PORT", cfg.Redis.Port)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.URL = getEnv("REDIS_URL", cfg.Redis.URL)
	cfg.Redis.DB = getEnvInt("REDIS_DB", cfg.Redis.DB)

	cfg.Editor.SaveCloseDelay = getEnvDuration("EDITOR_SAVE_CLOSE_DELAY", cfg.Editor.SaveCloseDelay)
	cfg.Editor.ProgressResetDelay = getEnvDuration("EDITOR_PROGRESS_RESET_DELAY", cfg.Editor.ProgressResetDelay)
}

// loadSecrets overlays Docker secrets, when present, on the credential fields
func loadSecrets(cfg *Config) {
	if v := readSecret("db_password"); v != "" {
		cfg.RecordStore.DBPassword = v
	}
	if v := readSecret("supabase_service_key"); v != "" {
		cfg.Supabase.ServiceKey = v
	}
	if v := readSecret("redis_password"); v != "" {
		cfg.Redis.Password = v
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
