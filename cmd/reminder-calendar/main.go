package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/i474232898/reminder-calendar/internal/agenda"
	httpapi "github.com/i474232898/reminder-calendar/internal/api/http"
	"github.com/i474232898/reminder-calendar/internal/config"
	"github.com/i474232898/reminder-calendar/internal/directory"
	"github.com/i474232898/reminder-calendar/internal/scheduler"
	"github.com/i474232898/reminder-calendar/internal/store"
	"github.com/i474232898/reminder-calendar/internal/weather"
	"github.com/i474232898/reminder-calendar/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider and directory calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	memStore := store.NewMemoryStore()
	if cfg.SeedFile != "" {
		n, err := memStore.LoadSeed(cfg.SeedFile)
		if err != nil {
			log.Fatalf("failed to load seed file: %v", err)
		}
		log.Printf("INFO: loaded %d reminders from %s", n, cfg.SeedFile)
	}

	// Providers with resilience (backoff + circuit breaker), tried in order.
	var provs []weather.Provider
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey))
	}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey))
	}
	// Open-Meteo does not require an API key, but geocoding requires a Google API key.
	if cfg.GeocoderAPIKey != "" {
		provs = append(provs, providers.NewOpenMeteoProvider(httpClient, providers.NewGoogleGeocoder(cfg.GeocoderAPIKey)))
	}
	if len(provs) == 0 {
		log.Println("INFO: no weather provider configured; day views will fail for located reminders")
	}

	forecasts := weather.NewService(provs, cfg.ForecastCacheSize, cfg.ForecastMaxAge)
	svc := agenda.NewService(memStore, forecasts, cfg.ForecastMaxAge)
	dir := directory.NewClient(httpClient, cfg.DirectoryAPIKey)

	// Scheduler that keeps upcoming forecasts fresh.
	sched := scheduler.New(svc, cfg.RefreshInterval, cfg.RefreshCron, cfg.LookaheadDays)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "reminder-calendar",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2 * cfg.HTTPTimeout,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"service":   "reminder-calendar",
			"providers": len(provs),
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, svc, dir)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
