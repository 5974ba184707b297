package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"iqtest-service/internal/config"
	"iqtest-service/internal/event"
	"iqtest-service/internal/lib/slogcustom"
	"iqtest-service/internal/metrics"
	"iqtest-service/internal/repository"
	"iqtest-service/internal/scheduler"
	"iqtest-service/internal/server"
	"iqtest-service/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	logger := slogcustom.New(os.Stdout, cfg.Log.Level)
	slog.SetDefault(logger)

	gin.SetMode(cfg.Server.GinMode)
	if cfg.Server.Debug {
		logger.Warn("debug mode is on: error details are returned to clients")
	}

	store := repository.NewMemorySessionStore(nil)

	// RabbitMQ event publisher
	var publisher service.Publisher
	if cfg.RabbitMQ.Enabled() {
		p, err := event.NewEventPublisher(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange, cfg.Server.ServiceName, logger)
		if err != nil {
			logger.Error("failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := p.Close(); err != nil {
				logger.Error("error closing event publisher", "error", err)
			}
		}()
		publisher = p
	} else {
		logger.Info("RabbitMQ not configured, funnel events will not be published")
	}

	var funnelMetrics *metrics.Metrics
	var recorder service.Recorder
	if cfg.Metrics.Enabled {
		funnelMetrics = metrics.New(store)
		recorder = funnelMetrics
	}

	funnelService := service.NewFunnelService(store, publisher, recorder, logger)

	router, err := server.NewRouter(cfg, server.Dependencies{
		Funnel:  funnelService,
		Counter: store,
		Metrics: funnelMetrics,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	stats := scheduler.New(store, cfg.Stats.Interval, logger)
	if err := stats.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer stats.Stop()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "service", cfg.Server.ServiceName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case sig := <-shutdownChan:
		logger.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			logger.Error("server stopped", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("error shutting down HTTP server", "error", err)
	}

	logger.Info("server shutdown complete", "stored_results", store.Count())
}
