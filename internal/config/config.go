package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DebugModeEnv is the environment variable for debug mode.
	DebugModeEnv = "DEBUG_MODE"

	// HTTPServerPortEnv is the environment variable for HTTP server port.
	HTTPServerPortEnv = "HTTP_SERVER_PORT"

	// MetricsServerPortEnv is the environment variable for metrics server port.
	MetricsServerPortEnv = "METRICS_SERVER_PORT"

	// CatalogAPIURLEnv is the environment variable for the base URL of the product API.
	CatalogAPIURLEnv = "CATALOG_API_URL"

	// CatalogTimeoutEnv is the environment variable for the per-request timeout of the product API.
	CatalogTimeoutEnv = "CATALOG_TIMEOUT"

	// SyncMinLoadingEnv is the environment variable for the minimum visible loading time of a sync.
	SyncMinLoadingEnv = "SYNC_MIN_LOADING"

	// PrefsBackendEnv is the environment variable selecting where theme preferences are stored.
	PrefsBackendEnv = "PREFS_BACKEND"

	// DBHostEnv is the environment variable for database host.
	DBHostEnv = "DB_HOST"

	// DBPortEnv is the environment variable for database port.
	DBPortEnv = "DB_PORT"

	// DBUserEnv is the environment variable for database user.
	DBUserEnv = "DB_USER"

	// DBPassEnv is the environment variable for database password.
	DBPassEnv = "DB_PASS"

	// DBNameEnv is the environment variable for database name.
	DBNameEnv = "DB_NAME"

	// RedisAddrEnv is the environment variable for the redis address.
	RedisAddrEnv = "REDIS_ADDR"

	// RedisPasswordEnv is the environment variable for the redis password.
	RedisPasswordEnv = "REDIS_PASSWORD"

	// RedisDBEnv is the environment variable for the redis logical database.
	RedisDBEnv = "REDIS_DB"

	// AWSRegionEnv is the environment variable for AWS region.
	AWSRegionEnv = "AWS_REGION"

	// AWSEndpointEnv is the environment variable for AWS endpoint.
	AWSEndpointEnv = "AWS_ENDPOINT"

	// SQSQueueURLEnv is the environment variable for SQS queue URL.
	SQSQueueURLEnv = "SQS_QUEUE_URL"

	// MutationRateLimitEnv is the environment variable for allowed writes per second per profile.
	MutationRateLimitEnv = "MUTATION_RATE_LIMIT"

	// MutationRateBurstEnv is the environment variable for the write burst per profile.
	MutationRateBurstEnv = "MUTATION_RATE_BURST"

	// SessionIdleTTLEnv is the environment variable for how long an unused console session is kept.
	SessionIdleTTLEnv = "SESSION_IDLE_TTL"

	// SessionSweepIntervalEnv is the environment variable for how often idle sessions are evicted.
	SessionSweepIntervalEnv = "SESSION_SWEEP_INTERVAL"

	// CORSAllowOriginEnv is the environment variable for the origin allowed on the JSON API.
	CORSAllowOriginEnv = "CORS_ALLOW_ORIGIN"

	// EnvFilePath is the environment variable for .env file path (only for local/test environment).
	EnvFilePath = "ENV_PATH"

	// DefaultEnvFilePath is the default path to the .env file.
	DefaultEnvFilePath = ".env"
)

// Preference storage backends.
const (
	PrefsBackendMemory   = "memory"
	PrefsBackendPostgres = "postgres"
	PrefsBackendRedis    = "redis"
)

// Defaults applied when the matching variable is not set.
const (
	DefaultCatalogAPIURL     = "http://localhost:8000"
	DefaultCatalogTimeout    = 10 * time.Second
	DefaultSyncMinLoading    = 600 * time.Millisecond
	DefaultMutationRateLimit = 5.0
	DefaultMutationRateBurst = 10
	DefaultCORSAllowOrigin   = "*"
	DefaultSessionIdleTTL    = 30 * time.Minute
	DefaultSessionSweep      = time.Minute
)

var (
	// ErrMissingConfig is returned when required configuration values are missing.
	ErrMissingConfig = errors.New("missing config data")

	// ErrInvalidConfig is returned when a configuration value cannot be used.
	ErrInvalidConfig = errors.New("invalid config data")
)

// Config represents the application configuration.
type Config struct {
	DebugMode     bool
	HTTPServer    Server
	MetricsServer Server
	Catalog       CatalogConfig
	Prefs         PrefsConfig
	Database      DB
	Redis         RedisConfig
	AWS           AWSConfig
	RateLimit     RateLimitConfig
	Sessions      SessionConfig
	CORS          CORSConfig
}

// SessionConfig controls eviction of idle console sessions.
type SessionConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// CatalogConfig represents the product API settings.
type CatalogConfig struct {
	BaseURL        string
	Timeout        time.Duration
	SyncMinLoading time.Duration
}

// PrefsConfig selects the theme preference storage.
type PrefsConfig struct {
	Backend string
}

// DB represents database configuration settings.
type DB struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

// RedisConfig represents redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AWSConfig represents AWS-specific configuration settings.
// An empty SQSQueueURL disables product change events.
type AWSConfig struct {
	Region      string
	Endpoint    string
	SQSQueueURL string
}

// RateLimitConfig bounds how fast one profile may issue writes.
type RateLimitConfig struct {
	PerSecond float64
	Burst     int
}

// CORSConfig holds the origin allowed to read the JSON API.
type CORSConfig struct {
	AllowOrigin string
}

// Server represents server configuration settings.
type Server struct {
	Port string
}

func allNonEmpty(keyValues map[string]string) error {
	for key, value := range keyValues {
		if value == "" {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("error", "value is empty"))
			return fmt.Errorf("%w for key: %s", ErrMissingConfig, key)
		}
	}
	return nil
}

func allNumbers(keyValues map[string]string) error {
	for key, value := range keyValues {
		_, err := strconv.Atoi(value)
		if err != nil {
			slog.Error("configuration validation failed", slog.String("key", key), slog.String("value", value), slog.String("error", err.Error()))
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
	}
	return nil
}

func (c *Config) validate() error {
	if err := allNonEmpty(map[string]string{
		HTTPServerPortEnv:    c.HTTPServer.Port,
		MetricsServerPortEnv: c.MetricsServer.Port,
		CatalogAPIURLEnv:     c.Catalog.BaseURL,
	}); err != nil {
		return fmt.Errorf("server configuration incomplete: %w", err)
	}

	if err := allNumbers(map[string]string{
		HTTPServerPortEnv:    c.HTTPServer.Port,
		MetricsServerPortEnv: c.MetricsServer.Port,
	}); err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}

	switch c.Prefs.Backend {
	case PrefsBackendMemory:
	case PrefsBackendPostgres:
		if err := allNonEmpty(map[string]string{
			DBHostEnv: c.Database.Host,
			DBUserEnv: c.Database.User,
			DBNameEnv: c.Database.Name,
		}); err != nil {
			return fmt.Errorf("database configuration incomplete: %w", err)
		}
		if err := allNumbers(map[string]string{DBPortEnv: c.Database.Port}); err != nil {
			return fmt.Errorf("invalid port number: %w", err)
		}
	case PrefsBackendRedis:
		if err := allNonEmpty(map[string]string{RedisAddrEnv: c.Redis.Addr}); err != nil {
			return fmt.Errorf("redis configuration incomplete: %w", err)
		}
	default:
		return fmt.Errorf("%w: unknown %s %q", ErrInvalidConfig, PrefsBackendEnv, c.Prefs.Backend)
	}

	if c.RateLimit.PerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("%w: rate limit must be positive", ErrInvalidConfig)
	}

	if c.Sessions.IdleTTL <= 0 || c.Sessions.SweepInterval <= 0 {
		return fmt.Errorf("%w: session durations must be positive", ErrInvalidConfig)
	}

	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, CatalogTimeoutEnv)
	}

	if c.Catalog.SyncMinLoading < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, SyncMinLoadingEnv)
	}

	return nil
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if val, err := strconv.ParseBool(os.Getenv(name)); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if val, err := strconv.Atoi(os.Getenv(name)); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsFloat(name string, defaultValue float64) float64 {
	if val, err := strconv.ParseFloat(os.Getenv(name), 64); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultValue time.Duration) time.Duration {
	if val, err := time.ParseDuration(os.Getenv(name)); err == nil {
		return val
	}
	return defaultValue
}

func getEnv(name, defaultValue string) string {
	if val := os.Getenv(name); val != "" {
		return val
	}
	return defaultValue
}

// ApplyEnvFile loads environment variables from the specified .env files.
func ApplyEnvFile(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables and validates it.
func LoadFromEnv() (*Config, error) {
	envPath := os.Getenv(EnvFilePath)
	if envPath == "" {
		envPath = DefaultEnvFilePath
	}
	err := ApplyEnvFile(envPath)
	if err != nil {
		// just log the error, maybe all envs are set in another way
		slog.Info("failed to load from .env", slog.Any("err", err))
	}

	conf := &Config{
		DebugMode: getEnvAsBool(DebugModeEnv, false),
		HTTPServer: Server{
			Port: os.Getenv(HTTPServerPortEnv),
		},
		MetricsServer: Server{
			Port: os.Getenv(MetricsServerPortEnv),
		},
		Catalog: CatalogConfig{
			BaseURL:        getEnv(CatalogAPIURLEnv, DefaultCatalogAPIURL),
			Timeout:        getEnvAsDuration(CatalogTimeoutEnv, DefaultCatalogTimeout),
			SyncMinLoading: getEnvAsDuration(SyncMinLoadingEnv, DefaultSyncMinLoading),
		},
		Prefs: PrefsConfig{
			Backend: getEnv(PrefsBackendEnv, PrefsBackendMemory),
		},
		Database: DB{
			Host:     os.Getenv(DBHostEnv),
			User:     os.Getenv(DBUserEnv),
			Password: os.Getenv(DBPassEnv),
			Name:     os.Getenv(DBNameEnv),
			Port:     getEnv(DBPortEnv, "5432"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv(RedisAddrEnv),
			Password: os.Getenv(RedisPasswordEnv),
			DB:       getEnvAsInt(RedisDBEnv, 0),
		},
		AWS: AWSConfig{
			Region:      os.Getenv(AWSRegionEnv),
			Endpoint:    os.Getenv(AWSEndpointEnv),
			SQSQueueURL: os.Getenv(SQSQueueURLEnv),
		},
		RateLimit: RateLimitConfig{
			PerSecond: getEnvAsFloat(MutationRateLimitEnv, DefaultMutationRateLimit),
			Burst:     getEnvAsInt(MutationRateBurstEnv, DefaultMutationRateBurst),
		},
		Sessions: SessionConfig{
			IdleTTL:       getEnvAsDuration(SessionIdleTTLEnv, DefaultSessionIdleTTL),
			SweepInterval: getEnvAsDuration(SessionSweepIntervalEnv, DefaultSessionSweep),
		},
		CORS: CORSConfig{
			AllowOrigin: getEnv(CORSAllowOriginEnv, DefaultCORSAllowOrigin),
		},
	}

	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return conf, nil
}
