package controllers

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/gowatcharr/internal/cache"
	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/amaumene/gowatcharr/internal/repository"
	"github.com/amaumene/gowatcharr/internal/services/omdb"
)

// MetadataClient is the remote dependency of the controllers
type MetadataClient interface {
	Search(ctx context.Context, title, mediaType string) ([]omdb.SearchResult, error)
	GetByID(ctx context.Context, imdbID string) (*omdb.Detail, error)
	GetSeason(ctx context.Context, imdbID string, season int) (*omdb.Season, error)
}

// Detail load outcomes. Exactly one of the payload fields is set per state.
const (
	StateSuccess      = "success"       // Detail holds a remote (or cached) snapshot
	StateMovieLoaded  = "movie_loaded"  // Movie holds the locally stored record
	StateSeriesLoaded = "series_loaded" // Series and Episodes hold the locally stored records
	StateNotFound     = "not_found"     // unknown remotely and locally
	StateError        = "error"         // remote failed and nothing stored locally
)

// DetailState is the tagged outcome of loading content by ID
type DetailState struct {
	State    string           `json:"state"`
	Detail   *omdb.Detail     `json:"detail,omitempty"`
	Movie    *models.Movie    `json:"movie,omitempty"`
	Series   *models.Series   `json:"series,omitempty"`
	Episodes []models.Episode `json:"episodes,omitempty"`
	Message  string           `json:"message,omitempty"`
}

// DetailsController loads content details with a fixed policy: cache first,
// then remote, then the local store as fallback with movie taking precedence
// over series.
type DetailsController struct {
	cache    *cache.DetailCache
	client   MetadataClient
	movies   *repository.MovieRepository
	series   *repository.SeriesRepository
	episodes *repository.EpisodeRepository
	logger   *logrus.Logger
}

// NewDetailsController creates a new details controller
func NewDetailsController(
	detailCache *cache.DetailCache,
	client MetadataClient,
	movies *repository.MovieRepository,
	series *repository.SeriesRepository,
	episodes *repository.EpisodeRepository,
	logger *logrus.Logger,
) *DetailsController {
	return &DetailsController{
		cache:    detailCache,
		client:   client,
		movies:   movies,
		series:   series,
		episodes: episodes,
		logger:   logger,
	}
}

// Load resolves the content behind an external ID. A cache hit skips both the
// network and the local store. On a cache miss the remote detail fetch runs;
// its result is cached. Any remote failure falls back to the local store,
// movie first, then series; a locally found series also gets its episodes
// loaded. Only when nothing is found anywhere does the outcome become
// NotFound (remote said so) or Error (remote failed for another reason).
func (c *DetailsController) Load(ctx context.Context, imdbID string) *DetailState {
	// The screen is visible again; a pending removal must not fire
	c.cache.CancelClearTimer(imdbID)

	if detail, ok := c.cache.Get(imdbID); ok {
		c.logger.WithField("imdb_id", imdbID).Debug("Detail cache hit")
		return &DetailState{State: StateSuccess, Detail: detail}
	}

	detail, err := c.client.GetByID(ctx, imdbID)
	if err == nil {
		c.cache.Put(imdbID, detail)
		return &DetailState{State: StateSuccess, Detail: detail}
	}

	c.logger.WithError(err).WithField("imdb_id", imdbID).Debug("Remote detail fetch failed, falling back to local store")

	// Movie takes precedence over series; the two must never share an ID
	if movie, merr := c.movies.GetByID(imdbID); merr == nil {
		return &DetailState{State: StateMovieLoaded, Movie: movie}
	}

	if series, serr := c.series.GetByID(imdbID); serr == nil {
		episodes, eerr := c.episodes.ListBySeries(imdbID)
		if eerr != nil {
			c.logger.WithError(eerr).WithField("imdb_id", imdbID).Error("Failed to load episodes for local series")
		}
		return &DetailState{State: StateSeriesLoaded, Series: series, Episodes: episodes}
	}

	if errors.Is(err, omdb.ErrNotFound) {
		return &DetailState{State: StateNotFound}
	}
	return &DetailState{State: StateError, Message: err.Error()}
}

// Release marks the content's screen as torn down and starts the cache clear
// timer, so the snapshot survives quick re-entry but not a long absence
func (c *DetailsController) Release(imdbID string) {
	c.cache.StartClearTimer(imdbID)
}
