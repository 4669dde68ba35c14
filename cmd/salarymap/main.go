package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/salary-map/internal/adapter/dataset"
	"github.com/couchcryptid/salary-map/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/salary-map/internal/adapter/kafka"
	"github.com/couchcryptid/salary-map/internal/adapter/mapbox"
	"github.com/couchcryptid/salary-map/internal/app"
	"github.com/couchcryptid/salary-map/internal/config"
	"github.com/couchcryptid/salary-map/internal/domain"
	"github.com/couchcryptid/salary-map/internal/mapview"
	"github.com/couchcryptid/salary-map/internal/observability"
	"github.com/couchcryptid/salary-map/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	ds, err := dataset.Load(ctx, cfg.DatasetPath, geocoder, logger)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}

	// Initialize event forwarding (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	var (
		publisher app.EventPublisher
		forwarder *pipeline.Pipeline
		writer    *kafkaadapter.Writer
	)
	forwarderDone := make(chan struct{})
	if cfg.KafkaEnabled {
		queue := pipeline.NewQueue(pipeline.DefaultQueueCapacity, metrics)
		writer = kafkaadapter.NewWriter(cfg, logger)
		forwarder = pipeline.New(queue, writer, logger, metrics, cfg.EventBatchSize)
		publisher = queue
		logger.Info("kafka event publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaEventsTopic)

		go func() {
			defer close(forwarderDone)
			if err := forwarder.Run(ctx); err != nil {
				logger.Error("event forwarder error", "error", err)
			}
		}()
	} else {
		close(forwarderDone)
		logger.Info("kafka event publishing disabled")
	}

	store := app.NewStore(app.NewState(ds), publisher, geocoder, logger, metrics)
	mv := mapview.New(ds, mapview.Options{MaxClusterRadius: cfg.ClusterRadius, MaxZoom: cfg.MaxZoom})
	srv := httpadapter.NewServer(cfg.HTTPAddr, store, mv, httpadapter.Options{
		DefaultZoom: cfg.DefaultZoom,
		FitBounds:   cfg.FitBoundsOnLoad,
	}, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	<-forwarderDone
	if forwarder != nil {
		if err := forwarder.Flush(shutdownCtx); err != nil {
			logger.Error("event flush error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
