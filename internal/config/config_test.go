package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := []byte(`
logging:
  level: debug
platform:
  baseUrl: https://mirror.example.org/
  timeout: 5s
cache:
  backend: Redis
  ttl: 2h
enrich:
  failurePolicy: partial
  maxConcurrency: 8
journals:
  - id: "8782710"
  - id: "6287639"
    sortType: "sequence"
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(redisAddrEnv, "redis:6380")

	cfg := Load()

	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected level: %s", cfg.Logging.Level)
	}
	if cfg.Platform.BaseURL != "https://mirror.example.org" {
		t.Fatalf("unexpected base url: %s", cfg.Platform.BaseURL)
	}
	if cfg.Platform.Timeout != 5*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Platform.Timeout)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.TTL != 2*time.Hour {
		t.Fatalf("unexpected cache config: %+v", cfg.Cache)
	}
	if cfg.Cache.Redis.Addr != "redis:6380" || cfg.Cache.Redis.Prefix != "ieee:article:" {
		t.Fatalf("unexpected redis config: %+v", cfg.Cache.Redis)
	}
	if cfg.Enrich.FailurePolicy != Partial || cfg.Enrich.MaxConcurrency != 8 {
		t.Fatalf("unexpected enrich config: %+v", cfg.Enrich)
	}
	if len(cfg.Journals) != 2 || cfg.Journals[0].SortTypeOrDefault() != defaultSortType || cfg.Journals[1].SortTypeOrDefault() != "sequence" {
		t.Fatalf("unexpected journals: %+v", cfg.Journals)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(cacheBackendEnv, "bogus")

	cfg := Load()

	if cfg.Platform.BaseURL != defaultBaseURL {
		t.Fatalf("unexpected base url: %s", cfg.Platform.BaseURL)
	}
	if cfg.Cache.Backend != CacheMemory {
		t.Fatalf("expected memory fallback, got %s", cfg.Cache.Backend)
	}
	if cfg.Enrich.FailurePolicy != FailFast {
		t.Fatalf("unexpected failure policy: %s", cfg.Enrich.FailurePolicy)
	}
	if cfg.Scheduler.Location() == nil {
		t.Fatalf("expected scheduler location")
	}
}

func TestSortTypeOrDefault(t *testing.T) {
	t.Parallel()

	if got := SortTypeOrDefault(" "); got != "vol-only-seq" {
		t.Fatalf("unexpected default: %s", got)
	}
	if got := SortTypeOrDefault("sequence"); got != "sequence" {
		t.Fatalf("unexpected sort type: %s", got)
	}
}
