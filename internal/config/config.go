package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	TokenStoreFile     = "file"
	TokenStoreSQLite   = "sqlite"
	TokenStorePostgres = "postgres"
	TokenStoreRedis    = "redis"
	TokenStoreMemory   = "memory"
)

type Config struct {
	Profile     string
	APIURL      string
	HTTPTimeout time.Duration

	TokenStore  string
	TokenFile   string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	LogLevel  string
	LogFormat string

	OTELMetricsEnabled        bool
	OTELTracingEnabled        bool
	OTELLogsEnabled           bool
	OTELExporterOTLPEndpoint  string
	OTELExporterOTLPInsecure  bool
	OTELServiceName           string
	OTELEnvironment           string
	OTELMetricsExportInterval time.Duration

	ShutdownTimeout time.Duration
}

// Load reads an optional env file and then the process environment.
// Variables already present in the environment take precedence over the file.
func Load(envFile string) (*Config, error) {
	cfg, err := load(envFile)
	profile, store := "", ""
	if cfg != nil {
		profile, store = cfg.Profile, cfg.TokenStore
	}
	if err != nil {
		recordConfigValidationEvent(context.Background(), profile, store, "failure", classifyConfigLoadError(err))
		return nil, err
	}
	recordConfigValidationEvent(context.Background(), profile, store, "success", "none")
	return cfg, nil
}

func load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	home := userDataDir()
	cfg := &Config{
		Profile:         getEnv("DEXNOTE_PROFILE", "dev"),
		APIURL:          strings.TrimRight(getEnv("DEXNOTE_API_URL", "http://localhost:8000"), "/"),
		TokenStore:      strings.ToLower(getEnv("DEXNOTE_TOKEN_STORE", TokenStoreFile)),
		TokenFile:       getEnv("DEXNOTE_TOKEN_FILE", filepath.Join(home, "token")),
		DatabaseURL:     getEnv("DEXNOTE_DATABASE_URL", "file:"+filepath.Join(home, "dexnote.db")),
		RedisAddr:       getEnv("DEXNOTE_REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("DEXNOTE_REDIS_PASSWORD"),
		RedisPrefix:     getEnv("DEXNOTE_REDIS_PREFIX", "dexnote"),
		LogLevel:        strings.ToLower(getEnv("DEXNOTE_LOG_LEVEL", "warn")),
		LogFormat:       strings.ToLower(getEnv("DEXNOTE_LOG_FORMAT", "text")),
		OTELServiceName: getEnv("OTEL_SERVICE_NAME", "dexnote-client"),
		OTELEnvironment: getEnv("OTEL_ENVIRONMENT", "dev"),
	}
	cfg.OTELExporterOTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")

	var err error
	if cfg.HTTPTimeout, err = getDuration("DEXNOTE_HTTP_TIMEOUT", 10*time.Second); err != nil {
		return cfg, err
	}
	if cfg.ShutdownTimeout, err = getDuration("DEXNOTE_SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return cfg, err
	}
	if cfg.OTELMetricsExportInterval, err = getDuration("OTEL_METRICS_EXPORT_INTERVAL", 15*time.Second); err != nil {
		return cfg, err
	}
	if cfg.RedisDB, err = getInt("DEXNOTE_REDIS_DB", 0); err != nil {
		return cfg, err
	}
	if cfg.OTELMetricsEnabled, err = getBool("OTEL_METRICS_ENABLED", false); err != nil {
		return cfg, err
	}
	if cfg.OTELTracingEnabled, err = getBool("OTEL_TRACING_ENABLED", false); err != nil {
		return cfg, err
	}
	if cfg.OTELLogsEnabled, err = getBool("OTEL_LOGS_ENABLED", false); err != nil {
		return cfg, err
	}
	if cfg.OTELExporterOTLPInsecure, err = getBool("OTEL_EXPORTER_OTLP_INSECURE", true); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("DEXNOTE_API_URL must be an absolute http(s) URL, got %q", c.APIURL))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("DEXNOTE_HTTP_TIMEOUT must be positive"))
	}
	switch c.TokenStore {
	case TokenStoreFile:
		if strings.TrimSpace(c.TokenFile) == "" {
			errs = append(errs, errors.New("DEXNOTE_TOKEN_FILE is required for the file token store"))
		}
	case TokenStoreSQLite, TokenStorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			errs = append(errs, errors.New("DEXNOTE_DATABASE_URL is required for database token stores"))
		}
	case TokenStoreRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			errs = append(errs, errors.New("DEXNOTE_REDIS_ADDR is required for the redis token store"))
		}
	case TokenStoreMemory:
	default:
		errs = append(errs, fmt.Errorf("DEXNOTE_TOKEN_STORE must be one of file, sqlite, postgres, redis, memory, got %q", c.TokenStore))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("DEXNOTE_LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("DEXNOTE_LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}
	if (c.OTELMetricsEnabled || c.OTELTracingEnabled || c.OTELLogsEnabled) && c.OTELExporterOTLPEndpoint == "" {
		errs = append(errs, errors.New("OTEL_EXPORTER_OTLP_ENDPOINT is required when telemetry export is enabled"))
	}
	if c.OTELMetricsEnabled && c.OTELMetricsExportInterval <= 0 {
		errs = append(errs, errors.New("OTEL_METRICS_EXPORT_INTERVAL must be positive"))
	}
	return errors.Join(errs...)
}

// DatabaseDriver picks the gorm dialect for DatabaseURL.
func (c *Config) DatabaseDriver() string {
	if c.TokenStore == TokenStorePostgres {
		return TokenStorePostgres
	}
	lower := strings.ToLower(c.DatabaseURL)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return TokenStorePostgres
	}
	return TokenStoreSQLite
}

func userDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".dexnote"
	}
	return filepath.Join(home, ".dexnote")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return b, nil
}
