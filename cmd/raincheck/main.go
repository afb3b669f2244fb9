package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	httpapi "github.com/raincheck/raincheck/internal/api/http"
	"github.com/raincheck/raincheck/internal/config"
	"github.com/raincheck/raincheck/internal/geocode"
	"github.com/raincheck/raincheck/internal/route"
	"github.com/raincheck/raincheck/internal/route/providers"
	"github.com/raincheck/raincheck/internal/scheduler"
	"github.com/raincheck/raincheck/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls; the timeout is the
	// bound that keeps one slow provider from stalling a whole cycle.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Geocoding for the route endpoints.
	gc := geocode.NewGoogleGeocoder(cfg.GeocoderAPIKey)

	// Primary source is keyless; the secondary runs only when entitled.
	primary := providers.NewMetNoProvider(httpClient, cfg.UserAgent)

	var secondary route.Provider
	if cfg.TomorrowAPIKey != "" {
		secondary = providers.NewTomorrowProvider(httpClient, cfg.TomorrowAPIKey)
	} else {
		log.Println("INFO: TOMORROWIO_API_KEY not set; running primary-only")
	}

	// In-memory advisory history with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Core pipeline service.
	service := route.NewService(gc, primary, secondary, memStore, cfg.StartLocation, cfg.EndLocation)

	// Scheduler that re-fetches the advisory periodically.
	sched := scheduler.New(cfg.FetchInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "raincheck",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "raincheck",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	// Start server with graceful shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
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
