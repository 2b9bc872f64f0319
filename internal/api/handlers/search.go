package handlers

import (
	"net/http"
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"

	"github.com/amaumene/gowatcharr/internal/controllers"
)

// SearchHandler performs remote title searches
type SearchHandler struct {
	client controllers.MetadataClient
	logger *logrus.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(client controllers.MetadataClient, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		client: client,
		logger: logger,
	}
}

// ServeHTTP handles GET /api/search?q=&type=
// Results come back from the API in page order, not relevance order, so they
// are re-ranked by edit distance between the case-folded query and title.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	mediaType := r.URL.Query().Get("type")
	if mediaType != "" && mediaType != "movie" && mediaType != "series" {
		writeError(w, http.StatusBadRequest, "type must be movie or series")
		return
	}

	results, err := h.client.Search(r.Context(), query, mediaType)
	if err != nil {
		h.logger.WithError(err).WithField("query", query).Warn("Search failed")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	fold := cases.Fold()
	foldedQuery := fold.String(query)
	sort.SliceStable(results, func(i, j int) bool {
		di := levenshtein.ComputeDistance(foldedQuery, fold.String(results[i].Title))
		dj := levenshtein.ComputeDistance(foldedQuery, fold.String(results[j].Title))
		return di < dj
	})

	writeJSON(w, http.StatusOK, results)
}
