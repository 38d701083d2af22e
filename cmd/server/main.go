package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/portfolio-sentinel/internal/clients/marketdata"
	"github.com/aristath/portfolio-sentinel/internal/config"
	"github.com/aristath/portfolio-sentinel/internal/engine"
	"github.com/aristath/portfolio-sentinel/internal/events"
	"github.com/aristath/portfolio-sentinel/internal/scheduler"
	"github.com/aristath/portfolio-sentinel/internal/server"
	"github.com/aristath/portfolio-sentinel/internal/store"
	"github.com/aristath/portfolio-sentinel/pkg/logger"
)

func main() {
	// Load configuration first so the logger honors LOG_LEVEL
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting Portfolio Sentinel")

	// Initialize database
	db, err := store.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	holdings := store.NewHoldingsRepository(db, log)

	// Wire the analytics engine
	eventManager := events.NewManager(log)
	dataClient := marketdata.NewClient(cfg.MarketDataURL, log)
	eng := engine.New(dataClient, eventManager, log)

	// Re-run analytics on every holdings change
	changes := holdings.Subscribe()
	go func() {
		for range changes {
			eventManager.Emit(events.HoldingsChanged, "store", nil)

			current, err := holdings.All()
			if err != nil {
				log.Error().Err(err).Msg("Failed to load holdings after change")
				continue
			}
			if err := eng.Refresh(context.Background(), current); err != nil {
				log.Warn().Err(err).Msg("Analytics run did not complete")
			}
		}
	}()

	// Initial run when holdings already exist at startup
	go func() {
		initial, err := holdings.All()
		if err != nil {
			log.Error().Err(err).Msg("Failed to load holdings at startup")
			return
		}
		if len(initial) > 0 {
			if err := eng.Refresh(context.Background(), initial); err != nil {
				log.Warn().Err(err).Msg("Initial analytics run did not complete")
			}
		}
	}()

	// Periodic refresh
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	refreshJob := scheduler.NewRefreshCycleJob(eng, holdings, log)
	if err := sched.AddJob(cfg.RefreshSchedule, refreshJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register refresh job")
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:     cfg.Port,
		Log:      log,
		Engine:   eng,
		Holdings: holdings,
		DevMode:  cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
