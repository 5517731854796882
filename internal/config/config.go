// Package config loads runtime configuration from environment variables.
// A .env file in the working directory is applied first when present, so
// local development does not need exported variables.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting. Each field maps to one environment
// variable; zero values fall back to development defaults.
type Config struct {
	Addr    string // listen address (FRONTERA_ADDR)
	DBPath  string // SQLite database path (FRONTERA_DB)
	LogPath string // optional log file, stdout/stderr when empty (FRONTERA_LOG)

	// JWTSecret overrides the persisted signing secret. Normally empty,
	// in which case the secret is generated once and stored in the DB.
	JWTSecret string

	// ServiceKey authorizes the administrative user-deletion endpoint.
	// The endpoint is disabled when empty.
	ServiceKey string

	Blob      BlobConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// BlobConfig selects and parameterizes the avatar storage driver.
type BlobConfig struct {
	Driver    string // "fs" (default) or "s3"
	FSRoot    string
	FSBaseURL string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string // set for MinIO and other S3-compatible servers
	S3PathStyle bool
	S3PublicURL string
}

// RedisConfig points at the Redis server backing rate limiting.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig tunes the per-client token bucket.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
}

// Load reads the configuration. Missing .env files are ignored.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:       envStr("FRONTERA_ADDR", ":8080"),
		DBPath:     envStr("FRONTERA_DB", "frontera.db"),
		LogPath:    os.Getenv("FRONTERA_LOG"),
		JWTSecret:  os.Getenv("FRONTERA_JWT_SECRET"),
		ServiceKey: os.Getenv("FRONTERA_SERVICE_KEY"),
		Blob: BlobConfig{
			Driver:      envStr("FRONTERA_BLOB_DRIVER", "fs"),
			FSRoot:      envStr("FRONTERA_BLOB_FS_ROOT", "./data/blobs"),
			FSBaseURL:   envStr("FRONTERA_BLOB_FS_BASE_URL", "/blobs"),
			S3Bucket:    os.Getenv("FRONTERA_BLOB_S3_BUCKET"),
			S3Region:    os.Getenv("FRONTERA_BLOB_S3_REGION"),
			S3Endpoint:  os.Getenv("FRONTERA_BLOB_S3_ENDPOINT"),
			S3PathStyle: envBool("FRONTERA_BLOB_S3_PATH_STYLE", false),
			S3PublicURL: os.Getenv("FRONTERA_BLOB_S3_PUBLIC_URL"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("FRONTERA_REDIS_ADDR"),
			Password: os.Getenv("FRONTERA_REDIS_PASSWORD"),
			DB:       envInt("FRONTERA_REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Enabled:        envBool("FRONTERA_RATE_LIMIT_ENABLED", true),
			Capacity:       envInt("FRONTERA_RATE_LIMIT_CAPACITY", 60),
			RefillTokens:   envInt("FRONTERA_RATE_LIMIT_REFILL_TOKENS", 1),
			RefillInterval: envDur("FRONTERA_RATE_LIMIT_REFILL_INTERVAL", time.Second),
		},
	}

	if cfg.RateLimit.Capacity < 1 {
		cfg.RateLimit.Capacity = 1
	}
	if cfg.RateLimit.RefillTokens < 1 {
		cfg.RateLimit.RefillTokens = 1
	}
	if cfg.RateLimit.RefillInterval <= 0 {
		cfg.RateLimit.RefillInterval = time.Second
	}
	return cfg
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
