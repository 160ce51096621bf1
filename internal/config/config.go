package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Provider settings.
	NominatimURL     string
	OverpassURL      string
	OpenMeteoURL     string
	ProviderTimeout  time.Duration
	RadiusM          int
	MaxPOIs          int
	GeocodeCacheSize int

	// Kafka card publishing (optional sink).
	KafkaBrokers    []string
	KafkaCardsTopic string
	KafkaEnabled    bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	providerTimeout, err := parseDuration("PROVIDER_TIMEOUT", "8s")
	if err != nil {
		return nil, err
	}
	radiusM, err := parsePositiveInt("RADIUS_M", 150)
	if err != nil {
		return nil, err
	}
	maxPOIs, err := parsePositiveInt("MAX_POIS", 5)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("GEOCODE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		NominatimURL:     envOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		OverpassURL:      envOrDefault("OVERPASS_URL", "https://overpass-api.de"),
		OpenMeteoURL:     envOrDefault("OPENMETEO_URL", "https://archive-api.open-meteo.com"),
		ProviderTimeout:  providerTimeout,
		RadiusM:          radiusM,
		MaxPOIs:          maxPOIs,
		GeocodeCacheSize: cacheSize,

		KafkaBrokers:    brokers,
		KafkaCardsTopic: envOrDefault("KAFKA_CARDS_TOPIC", "scene-cards"),
		KafkaEnabled:    kafkaEnabled,
	}

	// Map-context queries past ~250m get slow and noisy; refuse outliers
	// early instead of timing out per request.
	if cfg.RadiusM > 1000 {
		return nil, errors.New("RADIUS_M must be at most 1000")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaCardsTopic == "" {
		return nil, errors.New("KAFKA_CARDS_TOPIC is required when Kafka publishing is enabled")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
