// Command scenecard runs the scene card construction service: an HTTP API
// that turns a coordinate and local datetime into a validated scene card,
// optionally publishing each card to Kafka.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/scene-card-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/scene-card-service/internal/adapter/kafka"
	"github.com/couchcryptid/scene-card-service/internal/adapter/nominatim"
	"github.com/couchcryptid/scene-card-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/scene-card-service/internal/adapter/overpass"
	"github.com/couchcryptid/scene-card-service/internal/adapter/solar"
	"github.com/couchcryptid/scene-card-service/internal/builder"
	"github.com/couchcryptid/scene-card-service/internal/config"
	"github.com/couchcryptid/scene-card-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	geocoder := nominatim.NewCachedGeocoder(
		nominatim.NewClient(cfg.NominatimURL, cfg.ProviderTimeout, logger),
		cfg.GeocodeCacheSize,
		metrics,
	)
	mapContext := overpass.NewClient(cfg.OverpassURL, cfg.ProviderTimeout, cfg.MaxPOIs, logger)
	sun := solar.NewCalculator()
	weather := openmeteo.NewClient(cfg.OpenMeteoURL, cfg.ProviderTimeout, logger)

	b := builder.New(
		builder.Providers{
			Geocoder:   geocoder,
			MapContext: mapContext,
			Sun:        sun,
			Weather:    weather,
		},
		builder.Options{
			Timeout:        cfg.ProviderTimeout,
			MaxRetries:     1,
			DefaultRadiusM: cfg.RadiusM,
			Names: builder.ProvenanceNames{
				Geocoder:   "nominatim",
				MapContext: "overpass",
				Sun:        "solar-noaa",
				Weather:    "open-meteo",
				Climate:    "koppen-latitude",
			},
		},
		logger,
		metrics,
	)

	var publisher httpadapter.CardPublisher
	var closePublisher func() error
	if cfg.KafkaEnabled {
		kp := kafkaadapter.NewPublisher(cfg, logger, metrics)
		publisher = kp
		closePublisher = kp.Close
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaCardsTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka publishing disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, b, publisher, b, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if closePublisher != nil {
		if err := closePublisher(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
