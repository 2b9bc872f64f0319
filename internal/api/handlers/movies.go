package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/gowatcharr/internal/controllers"
	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/amaumene/gowatcharr/internal/repository"
)

// MoviesHandler serves the movie watchlist endpoints
type MoviesHandler struct {
	library *controllers.LibraryController
	movies  *repository.MovieRepository
	logger  *logrus.Logger
}

// NewMoviesHandler creates a new movies handler
func NewMoviesHandler(library *controllers.LibraryController, movies *repository.MovieRepository, logger *logrus.Logger) *MoviesHandler {
	return &MoviesHandler{
		library: library,
		movies:  movies,
		logger:  logger,
	}
}

type addRequest struct {
	ImdbID string `json:"imdbId"`
}

// List handles GET /api/movies
func (h *MoviesHandler) List(w http.ResponseWriter, r *http.Request) {
	movies, err := h.movies.List()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list movies")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

// Create handles POST /api/movies
func (h *MoviesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload addRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.ImdbID == "" {
		writeError(w, http.StatusBadRequest, "imdbId is required")
		return
	}

	movie, err := h.library.SaveMovie(r.Context(), payload.ImdbID)
	if err != nil {
		h.logger.WithError(err).WithField("imdb_id", payload.ImdbID).Error("Failed to add movie")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, movie)
}

// Delete handles DELETE /api/movies/{id}
func (h *MoviesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.library.DeleteMovie(r.PathValue("id")); err != nil {
		h.logger.WithError(err).Error("Failed to delete movie")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleWatched handles POST /api/movies/{id}/watched
func (h *MoviesHandler) ToggleWatched(w http.ResponseWriter, r *http.Request) {
	movie, err := h.library.ToggleMovieWatched(r.PathValue("id"))
	if err != nil {
		if models.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "movie not found")
			return
		}
		h.logger.WithError(err).Error("Failed to toggle movie watched state")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}
