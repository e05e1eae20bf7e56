package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIPort != 8000 || cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("unexpected defaults: port=%d level=%s", cfg.APIPort, cfg.LogLevel)
	}
	if cfg.Countdown != 30*time.Second || cfg.FixtureGap != 10*time.Second || cfg.SeasonGap != time.Minute {
		t.Fatalf("unexpected pacing: %s %s %s", cfg.Countdown, cfg.FixtureGap, cfg.SeasonGap)
	}
	if got := cfg.Timing().MinutesPerTick(); got != 0.15 {
		t.Fatalf("expected 0.15 minutes per tick, got %v", got)
	}
	if cfg.ArchiveEnabled() || cfg.KafkaEnabled() {
		t.Fatalf("optional sinks should be off by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LEAGUES", "premier-league, la-liga ,")
	t.Setenv("TICK_INTERVAL_MS", "100")
	t.Setenv("REAL_MATCH_DURATION_MS", "9000")
	t.Setenv("COUNTDOWN_SECONDS", "0")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("DATABASE_URL", "postgres://localhost/sim")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIPort != 9090 {
		t.Fatalf("PORT fallback not used: %d", cfg.APIPort)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("unexpected level: %s", cfg.LogLevel)
	}
	if len(cfg.Leagues) != 2 || cfg.Leagues[1] != "la-liga" {
		t.Fatalf("unexpected leagues: %v", cfg.Leagues)
	}
	sc := cfg.Season()
	if sc.Countdown != 0 || sc.Timing.MinutesPerTick() != 1 || sc.FirstSeason != 1 {
		t.Fatalf("unexpected season config: %+v", sc)
	}
	if !cfg.ArchiveEnabled() || !cfg.KafkaEnabled() || len(cfg.KafkaBrokers) != 2 {
		t.Fatalf("optional sinks not enabled")
	}
}

func TestLoadRejectsBadTiming(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"zero tick", map[string]string{"TICK_INTERVAL_MS": "0"}, "TICK_INTERVAL_MS must be positive"},
		{"tick too long", map[string]string{"TICK_INTERVAL_MS": "5000", "REAL_MATCH_DURATION_MS": "5000"}, "must be shorter"},
		{"negative gap", map[string]string{"SEASON_GAP_SECONDS": "-1"}, "must not be negative"},
		{"no workers", map[string]string{"SIM_WORKERS": "0"}, "SIM_WORKERS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestEnvHelpersIgnoreGarbage(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_LEVEL", "loud")
	if envInt("X_INT", 7) != 7 || !envBool("X_BOOL", true) || envLevel("X_LEVEL", slog.LevelWarn) != slog.LevelWarn {
		t.Fatalf("helpers should fall back on unparsable values")
	}
}
