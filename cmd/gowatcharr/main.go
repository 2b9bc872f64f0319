package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/amaumene/gowatcharr/internal/api"
	"github.com/amaumene/gowatcharr/internal/cache"
	"github.com/amaumene/gowatcharr/internal/config"
	"github.com/amaumene/gowatcharr/internal/controllers"
	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/amaumene/gowatcharr/internal/repository"
	"github.com/amaumene/gowatcharr/internal/scheduler"
	"github.com/amaumene/gowatcharr/internal/services/omdb"
	"github.com/amaumene/gowatcharr/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting Gowatcharr")
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Initialize OMDb client and detail cache
	omdbClient, err := omdb.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OMDb client: %w", err)
	}
	logger.Info("OMDb client initialized")

	detailCache := cache.NewDetailCache(time.Duration(cfg.CacheTTLMinutes) * time.Minute)

	// 5. Initialize repositories
	movieRepo := repository.NewMovieRepository(db, logger)
	seriesRepo := repository.NewSeriesRepository(db, logger)
	episodeRepo := repository.NewEpisodeRepository(db, seriesRepo, omdbClient, logger)
	logger.Info("Repositories initialized")

	// 6. Initialize controllers
	detailsCtrl := controllers.NewDetailsController(detailCache, omdbClient, movieRepo, seriesRepo, episodeRepo, logger)
	libraryCtrl := controllers.NewLibraryController(omdbClient, movieRepo, seriesRepo, episodeRepo, logger)
	logger.Info("Controllers initialized")

	// 7. Initialize scheduler
	sched := scheduler.NewScheduler(db, episodeRepo, cfg.EnrichCron, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 8. Initialize HTTP server
	server := api.NewServer(cfg, api.Deps{
		Client:   omdbClient,
		Details:  detailsCtrl,
		Library:  libraryCtrl,
		Movies:   movieRepo,
		Series:   seriesRepo,
		Episodes: episodeRepo,
	}, logger)

	// Start server in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 9. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Gowatcharr is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Gowatcharr stopped")
	return nil
}
