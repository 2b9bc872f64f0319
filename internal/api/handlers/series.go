package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/gowatcharr/internal/controllers"
	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/amaumene/gowatcharr/internal/repository"
)

// SeriesHandler serves the series watchlist endpoints
type SeriesHandler struct {
	library  *controllers.LibraryController
	series   *repository.SeriesRepository
	episodes *repository.EpisodeRepository
	logger   *logrus.Logger
}

// NewSeriesHandler creates a new series handler
func NewSeriesHandler(
	library *controllers.LibraryController,
	series *repository.SeriesRepository,
	episodes *repository.EpisodeRepository,
	logger *logrus.Logger,
) *SeriesHandler {
	return &SeriesHandler{
		library:  library,
		series:   series,
		episodes: episodes,
		logger:   logger,
	}
}

// List handles GET /api/series, returning every series with derived progress
func (h *SeriesHandler) List(w http.ResponseWriter, r *http.Request) {
	progress, err := h.series.ListWithProgress()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list series")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// Create handles POST /api/series
func (h *SeriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload addRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.ImdbID == "" {
		writeError(w, http.StatusBadRequest, "imdbId is required")
		return
	}

	series, err := h.library.SaveSeries(r.Context(), payload.ImdbID)
	if err != nil {
		h.logger.WithError(err).WithField("imdb_id", payload.ImdbID).Error("Failed to add series")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, series)
}

// Delete handles DELETE /api/series/{id}
func (h *SeriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.library.DeleteSeries(r.PathValue("id")); err != nil {
		h.logger.WithError(err).Error("Failed to delete series")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Episodes handles GET /api/series/{id}/episodes
func (h *SeriesHandler) Episodes(w http.ResponseWriter, r *http.Request) {
	episodes, err := h.episodes.ListBySeries(r.PathValue("id"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to list episodes")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, episodes)
}

// MarkNext handles POST /api/series/{id}/next. With nothing left unwatched
// the series is untouched and the response has no episode.
func (h *SeriesHandler) MarkNext(w http.ResponseWriter, r *http.Request) {
	episode, err := h.library.MarkNextWatched(r.PathValue("id"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to mark next episode watched")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	h.writeMarkResult(w, episode)
}

// MarkPrevious handles POST /api/series/{id}/previous
func (h *SeriesHandler) MarkPrevious(w http.ResponseWriter, r *http.Request) {
	episode, err := h.library.MarkPreviousUnwatched(r.PathValue("id"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to mark previous episode unwatched")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	h.writeMarkResult(w, episode)
}

func (h *SeriesHandler) writeMarkResult(w http.ResponseWriter, episode *models.Episode) {
	if episode == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"episode": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"episode": episode})
}
