package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("TICK_RATE_HZ", "")
	t.Setenv("MAX_FRAME_DELTA_MS", "")
	t.Setenv("MIGRATE_ON_START", "")

	cfg := Load()
	if cfg.Environment != "development" {
		t.Errorf("expected development, got %s", cfg.Environment)
	}
	if cfg.TickInterval() != time.Second/60 {
		t.Errorf("expected 60Hz tick, got %v", cfg.TickInterval())
	}
	if cfg.MaxFrameDelta() != 100*time.Millisecond {
		t.Errorf("expected 100ms frame cap, got %v", cfg.MaxFrameDelta())
	}
	if cfg.MigrateOnStart {
		t.Error("migrations should be off by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TICK_RATE_HZ", "30")
	t.Setenv("RUN_IDLE_TIMEOUT_SECONDS", "60")
	t.Setenv("MIGRATE_ON_START", "true")
	t.Setenv("LEADERBOARD_SIZE", "not-a-number")

	cfg := Load()
	if cfg.TickInterval() != time.Second/30 {
		t.Errorf("expected 30Hz tick, got %v", cfg.TickInterval())
	}
	if cfg.RunIdleTimeout() != time.Minute {
		t.Errorf("expected 1m idle timeout, got %v", cfg.RunIdleTimeout())
	}
	if !cfg.MigrateOnStart {
		t.Error("MIGRATE_ON_START=true should enable migrations")
	}
	if cfg.LeaderboardSize != 10 {
		t.Errorf("invalid int should fall back to default, got %d", cfg.LeaderboardSize)
	}
}
