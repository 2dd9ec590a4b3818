// Package main is the entry point for the OI sentinel, which samples the NSE
// index option chain during trading hours, stores each snapshot, and sends a
// Telegram alert with open interest, volatility and volume changes.
//
// The process runs two independent tasks:
// - the scheduler, driving one sampling cycle every SAMPLE_INTERVAL
// - the HTTP server, answering health and status requests
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/oi-sentinel/internal/config"
	"github.com/aristath/oi-sentinel/internal/di"
	"github.com/aristath/oi-sentinel/internal/scheduler"
	"github.com/aristath/oi-sentinel/internal/server"
	"github.com/aristath/oi-sentinel/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		File:   cfg.LogFile,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("symbol", cfg.Symbol).
		Str("timezone", cfg.Location.String()).
		Dur("interval", cfg.SampleInterval).
		Msg("Starting OI sentinel")

	// Cancelled on shutdown so an in-flight cycle stops waiting on the network
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The store is the only dependency whose failure aborts startup
	container, jobs, err := di.Wire(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer container.DB.Close()

	srv := server.New(server.Config{
		Log:       log,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
		Container: container,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	sched := scheduler.New(cfg.Location, log)
	if err := di.ScheduleJobs(sched, jobs, cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule jobs")
	}
	sched.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	cancel()
	sched.Stop()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
