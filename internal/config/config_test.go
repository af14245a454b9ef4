package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "HTTP_TIMEOUT", "FORECAST_REFRESH_INTERVAL", "FORECAST_REFRESH_CRON",
		"FORECAST_LOOKAHEAD_DAYS", "FORECAST_MAX_AGE", "FORECAST_CACHE_SIZE", "REMINDER_SEED_FILE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("unexpected server defaults: %+v", cfg)
	}
	if cfg.RefreshInterval != 30*time.Minute || cfg.RefreshCron != "" || cfg.LookaheadDays != 7 {
		t.Errorf("unexpected refresh defaults: %+v", cfg)
	}
	if cfg.ForecastMaxAge != 6*time.Hour || cfg.ForecastCacheSize != 256 {
		t.Errorf("unexpected forecast defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FORECAST_REFRESH_CRON", "*/15 * * * *")
	t.Setenv("FORECAST_LOOKAHEAD_DAYS", "3")
	t.Setenv("FORECAST_MAX_AGE", "0")
	t.Setenv("CSC_API_KEY", "csc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.RefreshCron != "*/15 * * * *" || cfg.LookaheadDays != 3 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.ForecastMaxAge != 0 || cfg.DirectoryAPIKey != "csc" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"bad duration":   {"FORECAST_MAX_AGE", "six hours"},
		"short interval": {"FORECAST_REFRESH_INTERVAL", "10s"},
		"bad cron":       {"FORECAST_REFRESH_CRON", "every day"},
		"negative days":  {"FORECAST_LOOKAHEAD_DAYS", "-1"},
		"bad cache size": {"FORECAST_CACHE_SIZE", "lots"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", kv[0], kv[1])
			}
		})
	}
}
