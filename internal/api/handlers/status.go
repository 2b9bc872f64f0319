package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/gowatcharr/internal/repository"
)

// StatusHandler reports watchlist-wide statistics
type StatusHandler struct {
	movies *repository.MovieRepository
	series *repository.SeriesRepository
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(movies *repository.MovieRepository, series *repository.SeriesRepository, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		movies: movies,
		series: series,
		logger: logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	TotalMovies     int `json:"total_movies"`
	WatchedMovies   int `json:"watched_movies"`
	TotalSeries     int `json:"total_series"`
	CompletedSeries int `json:"completed_series"`
	TotalEpisodes   int `json:"total_episodes"`
	WatchedEpisodes int `json:"watched_episodes"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	movies, err := h.movies.List()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get movies")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	progress, err := h.series.ListWithProgress()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get series")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response := StatusResponse{
		TotalMovies: len(movies),
		TotalSeries: len(progress),
	}

	for _, movie := range movies {
		if movie.WatchedDate != nil {
			response.WatchedMovies++
		}
	}

	for _, p := range progress {
		response.TotalEpisodes += p.TotalCount
		response.WatchedEpisodes += p.WatchedCount
		if p.TotalCount > 0 && p.WatchedCount == p.TotalCount {
			response.CompletedSeries++
		}
	}

	writeJSON(w, http.StatusOK, response)
}
