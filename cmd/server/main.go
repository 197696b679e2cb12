// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/safetystock-sim/internal/api"
	"github.com/andresuchdata/safetystock-sim/internal/config"
	"github.com/andresuchdata/safetystock-sim/internal/metrics"
	"github.com/andresuchdata/safetystock-sim/internal/service"
	"github.com/andresuchdata/safetystock-sim/internal/session"
	"github.com/andresuchdata/safetystock-sim/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	limits := cfg.Simulation.Limits()
	if err := limits.Validate(); err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid simulation limits")
	}

	// Initialize session store
	store, err := session.NewStore(cfg.Session, cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize session store")
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	// Initialize services
	m := metrics.New()
	simulationService := service.NewSimulationService(store, limits, cfg.Simulation.Defaults(), m)

	router := api.NewRouter(&api.Services{SimulationService: simulationService}, cfg.Server.AllowedOrigins, m)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Expired sessions are dropped on a schedule
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Session.SweepSchedule, func() {
		remaining, err := simulationService.SweepSessions(context.Background())
		if err != nil {
			logger.Log.Error().Err(err).Msg("Session sweep failed")
			return
		}
		logger.Log.Debug().Int("active_sessions", remaining).Msg("Session sweep completed")
	}); err != nil {
		logger.Log.Fatal().Err(err).Str("schedule", cfg.Session.SweepSchedule).Msg("Invalid session sweep schedule")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Log.Info().
			Str("port", cfg.Server.Port).
			Str("session_store", cfg.Session.Store).
			Int("weeks", limits.Weeks).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		scheduler.Start()
		<-gctx.Done()
		<-scheduler.Stop().Done()
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info().Msg("Shutting down server...")

		// The server has 5 seconds to finish the requests it is currently handling
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server stopped with error")
	}

	logger.Log.Info().Msg("Server exiting")
}
