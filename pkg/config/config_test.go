package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "environment: test\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Screening.LookbackBars != 60 {
		t.Fatalf("lookback default: got %d, want 60", cfg.Screening.LookbackBars)
	}
	if cfg.Strategy.PlatformWindow != 20 {
		t.Fatalf("platform window default: got %d, want 20", cfg.Strategy.PlatformWindow)
	}
	if cfg.Strategy.Scoring.BreakoutPoints != 40 {
		t.Fatalf("breakout points default: got %d, want 40", cfg.Strategy.Scoring.BreakoutPoints)
	}
	if len(cfg.Screening.ExcludeTags) != 2 {
		t.Fatalf("exclude tags default: %v", cfg.Screening.ExcludeTags)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
screening:
  min_score: 75
  concurrency: 2
strategy:
  max_volatility: 0.10
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Screening.MinScore != 75 {
		t.Fatalf("min_score: got %d, want 75", cfg.Screening.MinScore)
	}
	if cfg.Screening.Concurrency != 2 {
		t.Fatalf("concurrency: got %d, want 2", cfg.Screening.Concurrency)
	}
	if cfg.Strategy.MaxVolatility != 0.10 {
		t.Fatalf("max_volatility: got %v, want 0.10", cfg.Strategy.MaxVolatility)
	}
}

func TestValidateRejectsInvertedPriceBounds(t *testing.T) {
	_, err := Load(writeConfig(t, `
screening:
  min_price: 300
  max_price: 200
`))
	if err == nil {
		t.Fatalf("min_price above max_price must not validate")
	}
}

func TestValidateRejectsInvertedRSIBand(t *testing.T) {
	_, err := Load(writeConfig(t, `
screening:
  rsi_min: 90
  rsi_max: 80
`))
	if err == nil {
		t.Fatalf("rsi_min above rsi_max must not validate")
	}
}

func TestValidateRejectsUnorderedCutoffs(t *testing.T) {
	_, err := Load(writeConfig(t, `
strategy:
  scoring:
    strong_buy_cutoff: 50
    buy_cutoff: 60
`))
	if err == nil {
		t.Fatalf("cutoffs must be strictly descending")
	}
}

func TestValidateRequiresBrokersWhenKafkaEnabled(t *testing.T) {
	_, err := Load(writeConfig(t, `
kafka:
  enabled: true
  brokers: []
`))
	if err == nil {
		t.Fatalf("enabled kafka without brokers must not validate")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis-test:6379")
	t.Setenv("UNIVERSE", "600000,600519")

	cfg, err := LoadWithEnv(writeConfig(t, "environment: test\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Redis.Addr != "redis-test:6379" {
		t.Fatalf("redis addr: got %s", cfg.Redis.Addr)
	}
	if len(cfg.Screening.Universe) != 2 || cfg.Screening.Universe[0] != "600000" {
		t.Fatalf("universe: %v", cfg.Screening.Universe)
	}
}
