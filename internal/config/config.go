package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// defaultLocation is used for both endpoints when none are configured.
const defaultLocation = "Copenhagen, Denmark"

type AppConfig struct {
	// Route endpoints as free-form location text.
	StartLocation string
	EndLocation   string

	// TomorrowAPIKey enables the secondary forecast source. Empty is a
	// valid configuration: the pipeline runs primary-only.
	TomorrowAPIKey string

	// GeocoderAPIKey authenticates against the Google Geocoding API.
	GeocoderAPIKey string

	// UserAgent identifies us to MET Norway, which requires it.
	UserAgent string

	// FetchInterval controls how often the advisory is recomputed.
	FetchInterval time.Duration

	// HTTPTimeout bounds each outbound provider call.
	HTTPTimeout time.Duration

	// Advisory history retention.
	StoreMaxHistory int           // max results kept (0 = unlimited)
	StoreMaxAge     time.Duration // max result age (0 = unlimited)

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.StartLocation = getenvDefault("START_LOCATION", defaultLocation)
	cfg.EndLocation = getenvDefault("END_LOCATION", defaultLocation)

	cfg.TomorrowAPIKey = os.Getenv("TOMORROWIO_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")
	cfg.UserAgent = getenvDefault("USER_AGENT", "RainCheck/1.0 (contact@example.com)")

	intervalStr := getenvDefault("FETCH_INTERVAL", "2m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "5s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 90) // roughly 3h at 2-minute cycles

	maxAgeStr := getenvDefault("STORE_MAX_AGE", "3h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
