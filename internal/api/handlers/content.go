package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/gowatcharr/internal/controllers"
)

// ContentHandler serves content-detail lookups and screen release notifications
type ContentHandler struct {
	details *controllers.DetailsController
	logger  *logrus.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(details *controllers.DetailsController, logger *logrus.Logger) *ContentHandler {
	return &ContentHandler{
		details: details,
		logger:  logger,
	}
}

// Load handles GET /api/content/{id}
func (h *ContentHandler) Load(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "content id is required")
		return
	}

	state := h.details.Load(r.Context(), id)

	status := http.StatusOK
	switch state.State {
	case controllers.StateNotFound:
		status = http.StatusNotFound
	case controllers.StateError:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, state)
}

// Release handles POST /api/content/{id}/release, called when the detail
// screen goes away; it arms the cache clear timer
func (h *ContentHandler) Release(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "content id is required")
		return
	}

	h.details.Release(id)
	w.WriteHeader(http.StatusNoContent)
}
