package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Indexer.NumShards != 4 {
		t.Errorf("NumShards = %d, want 4", cfg.Indexer.NumShards)
	}
	if cfg.Search.WindowMaxDefault != math.MaxUint32 {
		t.Errorf("WindowMaxDefault = %d, want unbounded", cfg.Search.WindowMaxDefault)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 9000
indexer:
  numShards: 2
search:
  defaultLimit: 5
  maxResults: 50
  windowMinDefault: 2
  windowMaxDefault: 8
redis:
  cacheTTL: 5s
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SP_SERVER_PORT", "9100")
	t.Setenv("SP_KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Port = %d, want env override 9100", cfg.Server.Port)
	}
	if cfg.Indexer.NumShards != 2 || cfg.Search.WindowMaxDefault != 8 {
		t.Errorf("file values not applied: %+v %+v", cfg.Indexer, cfg.Search)
	}
	if cfg.Redis.CacheTTL != 5*time.Second {
		t.Errorf("CacheTTL = %v, want 5s", cfg.Redis.CacheTTL)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("Brokers = %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_RejectsInvalidWindowDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("search:\n  windowMinDefault: 5\n  windowMaxDefault: 2\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoad_RateLimitEnv(t *testing.T) {
	t.Setenv("SP_SERVER_RATE_LIMIT", "120")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.RateLimitPerMinute != 120 {
		t.Errorf("RateLimitPerMinute = %d, want 120", cfg.Server.RateLimitPerMinute)
	}

	t.Setenv("SP_SERVER_RATE_LIMIT", "-1")
	if _, err := Load(""); err == nil {
		t.Error("negative rate limit accepted")
	}
}
