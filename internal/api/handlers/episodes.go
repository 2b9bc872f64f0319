package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/gowatcharr/internal/controllers"
	"github.com/amaumene/gowatcharr/internal/models"
)

// EpisodesHandler serves single-episode mutations
type EpisodesHandler struct {
	library *controllers.LibraryController
	logger  *logrus.Logger
}

// NewEpisodesHandler creates a new episodes handler
func NewEpisodesHandler(library *controllers.LibraryController, logger *logrus.Logger) *EpisodesHandler {
	return &EpisodesHandler{
		library: library,
		logger:  logger,
	}
}

// ToggleWatched handles POST /api/episodes/{id}/watched
func (h *EpisodesHandler) ToggleWatched(w http.ResponseWriter, r *http.Request) {
	episode, err := h.library.ToggleEpisodeWatched(r.PathValue("id"))
	if err != nil {
		if models.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "episode not found")
			return
		}
		h.logger.WithError(err).Error("Failed to toggle episode watched flag")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, episode)
}
