package config

import (
	"strings"
	"testing"
	"time"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, k := range []string{"JWT_SECRET", "STORE_BACKEND", "DB_USER", "DB_HOST", "DB_NAME", "RESTAURANT_TZ", "ACCESS_TOKEN_TTL_MIN", "NOTIFY_DELIVERY"} {
		t.Setenv(k, "")
	}
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestLoadMemoryBackend(t *testing.T) {
	setEnv(t, map[string]string{
		"JWT_SECRET":      "x",
		"STORE_BACKEND":   "memory",
		"RESTAURANT_TZ":   "Europe/Rome",
		"NOTIFY_DELIVERY": "LOG",
	})
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store != "memory" || cfg.Delivery != "log" || cfg.AccessTTLMin != 60 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Location.String() != "Europe/Rome" {
		t.Fatalf("location = %v", cfg.Location)
	}
}

func TestLoadReportsEveryProblem(t *testing.T) {
	setEnv(t, map[string]string{
		"RESTAURANT_TZ":        "Mars/Olympus",
		"ACCESS_TOKEN_TTL_MIN": "soon",
	})
	_, err := Load()
	if err == nil {
		t.Fatal("Load succeeded")
	}
	for _, want := range []string{"JWT_SECRET", "DB_USER", "DB_HOST", "DB_NAME", "RESTAURANT_TZ", "ACCESS_TOKEN_TTL_MIN"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestRateLimitNormalize(t *testing.T) {
	cfg := RateLimitConfig{Capacity: 0, RefillTokens: 0, RefillInterval: 0, TTL: time.Second}.normalize()
	if cfg.Capacity != 1 || cfg.RefillTokens != 1 || cfg.RefillInterval != time.Second || cfg.TTL != 5*time.Second {
		t.Fatalf("normalized = %+v", cfg)
	}
}

func TestReminderConfigFloor(t *testing.T) {
	t.Setenv("REMINDER_INTERVAL", "10ms")
	if got := LoadReminderConfig().Interval; got != time.Second {
		t.Fatalf("interval = %v", got)
	}
}
