package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.DBPath != "frontera.db" {
		t.Errorf("DBPath = %q, want frontera.db", cfg.DBPath)
	}
	if cfg.Blob.Driver != "fs" {
		t.Errorf("Blob.Driver = %q, want fs", cfg.Blob.Driver)
	}
	if !cfg.RateLimit.Enabled {
		t.Error("expected rate limiting enabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FRONTERA_ADDR", ":9999")
	t.Setenv("FRONTERA_BLOB_DRIVER", "s3")
	t.Setenv("FRONTERA_BLOB_S3_BUCKET", "avatars")
	t.Setenv("FRONTERA_RATE_LIMIT_ENABLED", "false")
	t.Setenv("FRONTERA_RATE_LIMIT_REFILL_INTERVAL", "250ms")

	cfg := Load()
	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", cfg.Addr)
	}
	if cfg.Blob.Driver != "s3" || cfg.Blob.S3Bucket != "avatars" {
		t.Errorf("Blob = %+v", cfg.Blob)
	}
	if cfg.RateLimit.Enabled {
		t.Error("expected rate limiting disabled")
	}
	if cfg.RateLimit.RefillInterval != 250*time.Millisecond {
		t.Errorf("RefillInterval = %v, want 250ms", cfg.RateLimit.RefillInterval)
	}
}

func TestLoadClampsRateLimit(t *testing.T) {
	t.Setenv("FRONTERA_RATE_LIMIT_CAPACITY", "0")
	t.Setenv("FRONTERA_RATE_LIMIT_REFILL_TOKENS", "-3")

	cfg := Load()
	if cfg.RateLimit.Capacity != 1 {
		t.Errorf("Capacity = %d, want 1", cfg.RateLimit.Capacity)
	}
	if cfg.RateLimit.RefillTokens != 1 {
		t.Errorf("RefillTokens = %d, want 1", cfg.RateLimit.RefillTokens)
	}
}

func TestNewRedisClientNilWithoutAddr(t *testing.T) {
	if client := NewRedisClient(RedisConfig{}); client != nil {
		t.Error("expected nil client when no address configured")
	}
}
