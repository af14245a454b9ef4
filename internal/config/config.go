package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

type AppConfig struct {
	Port        string
	HTTPTimeout time.Duration

	OpenWeatherAPIKey string
	WeatherAPIKey     string
	GeocoderAPIKey    string // enables the Open-Meteo provider
	DirectoryAPIKey   string // countrystatecity.in

	// RefreshInterval controls how often upcoming forecasts are refreshed.
	// RefreshCron, when set, takes precedence.
	RefreshInterval time.Duration
	RefreshCron     string

	// LookaheadDays is how many days from today the refresh job covers.
	LookaheadDays int

	// Forecast retention.
	ForecastMaxAge    time.Duration // attached forecasts older than this are refetched (0 = never)
	ForecastCacheSize int           // max cached provider answers (0 = unlimited)

	SeedFile string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}
	var err error

	cfg.Port = getenvDefault("PORT", "8080")
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.DirectoryAPIKey = os.Getenv("CSC_API_KEY")

	if cfg.RefreshInterval, err = getenvDuration("FORECAST_REFRESH_INTERVAL", "30m"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval < time.Minute {
		return nil, fmt.Errorf("invalid FORECAST_REFRESH_INTERVAL: must be at least 1m, got %s", cfg.RefreshInterval)
	}

	cfg.RefreshCron = os.Getenv("FORECAST_REFRESH_CRON")
	if cfg.RefreshCron != "" {
		if _, err := cron.ParseStandard(cfg.RefreshCron); err != nil {
			return nil, fmt.Errorf("invalid FORECAST_REFRESH_CRON: %w", err)
		}
	}

	if cfg.LookaheadDays, err = getenvInt("FORECAST_LOOKAHEAD_DAYS", 7); err != nil {
		return nil, err
	}
	if cfg.ForecastMaxAge, err = getenvDuration("FORECAST_MAX_AGE", "6h"); err != nil {
		return nil, err
	}
	if cfg.ForecastCacheSize, err = getenvInt("FORECAST_CACHE_SIZE", 256); err != nil {
		return nil, err
	}

	cfg.SeedFile = os.Getenv("REMINDER_SEED_FILE")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative, got %d", key, n)
	}
	return n, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative, got %s", key, d)
	}
	return d, nil
}
