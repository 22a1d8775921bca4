package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 2*time.Hour {
		t.Errorf("expected default cache TTL 2h, got %v", cfg.Cache.TTL)
	}
	if cfg.Data.Source != "mock" {
		t.Errorf("expected default source mock, got %s", cfg.Data.Source)
	}
	if cfg.Data.PollInterval != 30*time.Second {
		t.Errorf("expected default poll interval 30s, got %v", cfg.Data.PollInterval)
	}
	if cfg.Query.DefaultPageSize != 25 {
		t.Errorf("expected default page size 25, got %d", cfg.Query.DefaultPageSize)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VPS_COMPARE_PORT", "9090")
	t.Setenv("VPS_COMPARE_CACHE_TTL", "15m")
	t.Setenv("VPS_COMPARE_DATA_SOURCE", "real")

	globalConfig = DefaultConfig()
	loadEnvOverrides()

	if globalConfig.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", globalConfig.Server.Port)
	}
	if globalConfig.Cache.TTL != 15*time.Minute {
		t.Errorf("expected TTL 15m, got %v", globalConfig.Cache.TTL)
	}
	if globalConfig.Data.Source != "real" {
		t.Errorf("expected source real, got %s", globalConfig.Data.Source)
	}
}

func TestEnvOverridesIgnoreInvalid(t *testing.T) {
	t.Setenv("VPS_COMPARE_PORT", "not-a-port")
	t.Setenv("VPS_COMPARE_CACHE_TTL", "soon")

	globalConfig = DefaultConfig()
	loadEnvOverrides()

	if globalConfig.Server.Port != 8000 {
		t.Errorf("invalid port should keep default, got %d", globalConfig.Server.Port)
	}
	if globalConfig.Cache.TTL != 2*time.Hour {
		t.Errorf("invalid TTL should keep default, got %v", globalConfig.Cache.TTL)
	}
}
