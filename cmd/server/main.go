package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/setupscatalog/linkengine/config"
	httpDelivery "github.com/setupscatalog/linkengine/internal/delivery/http"
	"github.com/setupscatalog/linkengine/internal/domain"
	"github.com/setupscatalog/linkengine/internal/infrastructure/cache"
	"github.com/setupscatalog/linkengine/internal/infrastructure/fetcher"
	"github.com/setupscatalog/linkengine/internal/infrastructure/redisnotify"
	"github.com/setupscatalog/linkengine/internal/stores"
	"github.com/setupscatalog/linkengine/internal/usecase"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		logrus.WithError(err).Fatal("failed to configure logger")
	}

	logger.WithFields(logrus.Fields{
		"environment":     cfg.Server.Environment,
		"port":            cfg.Server.Port,
		"affiliate_store": cfg.Affiliate.Store,
		"cache_ttl":       cfg.Affiliate.CacheTTL.String(),
		"redis_enabled":   cfg.Redis.Enabled,
	}).Info("starting linkengine v1.0.0")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize infrastructure dependencies
	affiliateStore, closeStore, err := newAffiliateStore(ctx, cfg.Affiliate)
	if err != nil {
		logger.WithError(err).Fatal("failed to open affiliate config store")
	}
	defer closeStore()

	configCache := cache.NewAffiliateConfigCache(affiliateStore, cfg.Affiliate.CacheTTL, logger)

	var notifier domain.UpdateNotifier
	if cfg.Redis.Enabled {
		redisClient, err := redisnotify.NewClient(ctx, redisnotify.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to redis")
		}
		defer redisClient.Close()

		notifier = redisnotify.NewPublisher(redisClient, cfg.Redis.Channel)
		subscriber := redisnotify.NewSubscriber(redisClient, cfg.Redis.Channel, configCache, logger)
		go func() {
			if err := subscriber.Run(ctx); err != nil {
				logger.WithError(err).Error("affiliate config subscriber stopped")
			}
		}()
	}

	pageFetcher := fetcher.NewClient(fetcher.Config{
		Timeout:        cfg.Fetcher.Timeout,
		UserAgent:      cfg.Fetcher.UserAgent,
		AcceptLanguage: cfg.Fetcher.AcceptLanguage,
		MaxBodyBytes:   cfg.Fetcher.MaxBodyBytes,
		MaxRedirects:   cfg.Fetcher.MaxRedirects,
		PerHostRPS:     cfg.Fetcher.PerHostRPS,
		PerHostBurst:   cfg.Fetcher.PerHostBurst,
	}, logger)

	// Initialize usecase layer
	extractionService := usecase.NewExtractionService(pageFetcher, stores.Default(), logger, usecase.ExtractionServiceConfig{
		MinBodyBytes:     cfg.Fetcher.MinBodyBytes,
		BatchConcurrency: cfg.Batch.Concurrency,
	})
	affiliateService := usecase.NewAffiliateService(configCache, logger)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(extractionService, affiliateService, configCache, notifier, httpDelivery.HandlerConfig{
		MaxBatchURLs:        cfg.Batch.MaxURLs,
		MaxBatchConcurrency: cfg.Batch.Concurrency,
		KnownStores:         stores.Default(),
	}, logger)

	router := httpDelivery.SetupRouter(cfg, handler, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.WithField("addr", server.Addr).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("failed to start server")
		}
	}()

	waitForShutdown(logger, server, cancel)
}

func waitForShutdown(logger logrus.FieldLogger, server *http.Server, cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("shutdown signal received")
	cancel()

	ctx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("server shutdown did not complete cleanly")
	}
	logger.Info("shutdown complete")
}

// newLogger builds the root logger from the logging section
func newLogger(cfg config.LoggingConfig) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	logger.SetLevel(level)

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	}
	return logger, nil
}
