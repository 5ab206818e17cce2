package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/canyon-lake-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/canyon-lake-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/canyon-lake-dashboard/internal/adapter/usgs"
	"github.com/couchcryptid/canyon-lake-dashboard/internal/config"
	"github.com/couchcryptid/canyon-lake-dashboard/internal/domain"
	"github.com/couchcryptid/canyon-lake-dashboard/internal/hitlog"
	"github.com/couchcryptid/canyon-lake-dashboard/internal/observability"
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

	// Visit-event publishing is feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED.
	var sink hitlog.VisitSink
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, logger, metrics)
		sink = publisher
		logger.Info("visit event publishing enabled",
			"brokers", cfg.KafkaBrokers, "topic", cfg.KafkaVisitsTopic)
	} else {
		logger.Info("visit event publishing disabled")
	}

	classifier := domain.NewClassifier()
	storage := hitlog.NewFileStorage(cfg.HitLogPath)
	store := hitlog.NewStore(storage, classifier, sink, logger, metrics)

	client := usgs.NewClient(cfg.USGSSiteID, cfg.USGSTimeout, metrics, logger)
	fetcher := usgs.NewCachedFetcher(client, cfg.USGSCacheSize, cfg.USGSCacheTTL, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, store, fetcher, metrics, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start visit publisher loop.
	if publisher != nil {
		go func() {
			if err := publisher.Run(ctx); err != nil {
				logger.Error("visit publisher error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("visit publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
