package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/romp/internal/adapters/http/api"
	"github.com/okian/romp/internal/adapters/repository"
	"github.com/okian/romp/internal/adapters/sensors"
	service "github.com/okian/romp/internal/app"
	"github.com/okian/romp/internal/config"
	"github.com/okian/romp/internal/domain/engine"
	"github.com/okian/romp/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Session history store: SQLite when a path is configured, in-memory
	// otherwise.
	var store repository.Store
	if cfg.DBPath != "" {
		store, err = repository.NewSQLiteStore(ctx, cfg.DBPath)
		if err != nil {
			os.Stderr.WriteString("failed to open session store: " + err.Error() + "\n")
			return
		}
		log.Info(ctx, "using sqlite session store", logger.String("path", cfg.DBPath))
	} else {
		store = repository.NewMemStore()
	}

	// The feed is the single latest-value sample cache; the WebSocket
	// stream and the optional MQTT subscriber both write into it.
	feed := sensors.NewFeed()
	if cfg.MQTTBroker != "" {
		sub := sensors.NewMQTTSubscriber(feed, cfg.MQTTBroker, sensors.WithTopic(cfg.MQTTTopic))
		if err := sub.Start(ctx); err != nil {
			os.Stderr.WriteString("failed to start MQTT subscriber: " + err.Error() + "\n")
			return
		}
		defer sub.Stop()
		log.Info(ctx, "MQTT sample subscriber started",
			logger.String("broker", cfg.MQTTBroker),
			logger.String("topic", cfg.MQTTTopic),
		)
	}

	// Create and start the service with configuration options
	svc := service.New(
		service.WithLogger(log),
		service.WithSource(feed),
		service.WithStore(store),
		service.WithPollInterval(time.Duration(cfg.PollIntervalMS)*time.Millisecond),
		service.WithChallengeTimeout(time.Duration(cfg.ChallengeTimeoutS)*time.Second),
		service.WithDifficulty(cfg.Difficulty),
		service.WithBaseThresholds(engine.Thresholds{
			StepMagnitude: cfg.StepMagnitude,
			RotationSpeed: cfg.RotationSpeed,
			TiltAngle:     cfg.TiltAngle,
			Tolerance:     cfg.DirectionTolerance,
		}),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, feed, api.WithHistoryLimit(cfg.HistoryLimit))
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
