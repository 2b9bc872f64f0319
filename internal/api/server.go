package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/gowatcharr/internal/api/handlers"
	"github.com/amaumene/gowatcharr/internal/api/middleware"
	"github.com/amaumene/gowatcharr/internal/config"
	"github.com/amaumene/gowatcharr/internal/controllers"
	"github.com/amaumene/gowatcharr/internal/repository"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

// Deps bundles everything the route handlers need
type Deps struct {
	Client   controllers.MetadataClient
	Details  *controllers.DetailsController
	Library  *controllers.LibraryController
	Movies   *repository.MovieRepository
	Series   *repository.SeriesRepository
	Episodes *repository.EpisodeRepository
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, deps Deps, logger *logrus.Logger) *Server {
	s := &Server{logger: logger}

	mux := http.NewServeMux()
	s.setupRoutes(mux, deps)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux, deps Deps) {
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.Handle("GET /health", healthHandler)

	statusHandler := handlers.NewStatusHandler(deps.Movies, deps.Series, s.logger)
	mux.Handle("GET /status", statusHandler)

	mux.Handle("GET /metrics", promhttp.Handler())

	searchHandler := handlers.NewSearchHandler(deps.Client, s.logger)
	mux.Handle("GET /api/search", searchHandler)

	contentHandler := handlers.NewContentHandler(deps.Details, s.logger)
	mux.HandleFunc("GET /api/content/{id}", contentHandler.Load)
	mux.HandleFunc("POST /api/content/{id}/release", contentHandler.Release)

	moviesHandler := handlers.NewMoviesHandler(deps.Library, deps.Movies, s.logger)
	mux.HandleFunc("GET /api/movies", moviesHandler.List)
	mux.HandleFunc("POST /api/movies", moviesHandler.Create)
	mux.HandleFunc("DELETE /api/movies/{id}", moviesHandler.Delete)
	mux.HandleFunc("POST /api/movies/{id}/watched", moviesHandler.ToggleWatched)

	seriesHandler := handlers.NewSeriesHandler(deps.Library, deps.Series, deps.Episodes, s.logger)
	mux.HandleFunc("GET /api/series", seriesHandler.List)
	mux.HandleFunc("POST /api/series", seriesHandler.Create)
	mux.HandleFunc("DELETE /api/series/{id}", seriesHandler.Delete)
	mux.HandleFunc("GET /api/series/{id}/episodes", seriesHandler.Episodes)
	mux.HandleFunc("POST /api/series/{id}/next", seriesHandler.MarkNext)
	mux.HandleFunc("POST /api/series/{id}/previous", seriesHandler.MarkPrevious)

	episodesHandler := handlers.NewEpisodesHandler(deps.Library, s.logger)
	mux.HandleFunc("POST /api/episodes/{id}/watched", episodesHandler.ToggleWatched)

	streamHandler := handlers.NewStreamHandler(deps.Movies, deps.Series, s.logger)
	mux.Handle("GET /api/ws", streamHandler)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("addr", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
