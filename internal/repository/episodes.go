package repository

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/gowatcharr/internal/metrics"
	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/amaumene/gowatcharr/internal/services/omdb"
)

// DetailFetcher is the remote dependency of episode enrichment
type DetailFetcher interface {
	GetByID(ctx context.Context, imdbID string) (*omdb.Detail, error)
}

// EpisodeRepository is the episode façade over the store. Mutations republish
// through the series repository, whose snapshots carry the derived progress.
type EpisodeRepository struct {
	db      *models.Database
	series  *SeriesRepository
	fetcher DetailFetcher
	logger  *logrus.Logger
}

// NewEpisodeRepository creates a new episode repository
func NewEpisodeRepository(db *models.Database, series *SeriesRepository, fetcher DetailFetcher, logger *logrus.Logger) *EpisodeRepository {
	return &EpisodeRepository{
		db:      db,
		series:  series,
		fetcher: fetcher,
		logger:  logger,
	}
}

// SaveBatch bulk-inserts episodes, replacing existing rows
func (r *EpisodeRepository) SaveBatch(episodes []models.Episode) error {
	if err := r.db.UpsertEpisodes(episodes); err != nil {
		return err
	}
	r.series.publishSnapshot()
	return nil
}

// GetByID retrieves an episode by external ID
func (r *EpisodeRepository) GetByID(imdbID string) (*models.Episode, error) {
	return r.db.GetEpisodeByID(imdbID)
}

// ListBySeries retrieves all episodes of a series in airing order
func (r *EpisodeRepository) ListBySeries(seriesID string) ([]models.Episode, error) {
	return r.db.GetEpisodesBySeriesID(seriesID)
}

// ToggleWatched flips an episode's watched flag
func (r *EpisodeRepository) ToggleWatched(imdbID string) (*models.Episode, error) {
	episode, err := r.db.GetEpisodeByID(imdbID)
	if err != nil {
		return nil, err
	}

	if err := r.db.SetEpisodeWatched(imdbID, !episode.Watched); err != nil {
		return nil, err
	}
	episode.Watched = !episode.Watched

	r.series.publishSnapshot()
	return episode, nil
}

// Delete removes a single episode by external ID
func (r *EpisodeRepository) Delete(imdbID string) error {
	if err := r.db.DeleteEpisode(imdbID); err != nil {
		return err
	}
	r.series.publishSnapshot()
	return nil
}

// MarkNextWatched marks the unwatched episode with the lowest
// season*100+episode key as watched. Returns nil when every episode is
// already watched; that case is a no-op.
func (r *EpisodeRepository) MarkNextWatched(seriesID string) (*models.Episode, error) {
	episodes, err := r.db.GetEpisodesBySeriesID(seriesID)
	if err != nil {
		return nil, err
	}

	var next *models.Episode
	for i := range episodes {
		ep := &episodes[i]
		if ep.Watched {
			continue
		}
		if next == nil || ep.Ordinal() < next.Ordinal() {
			next = ep
		}
	}
	if next == nil {
		return nil, nil
	}

	if err := r.db.SetEpisodeWatched(next.ImdbID, true); err != nil {
		return nil, err
	}
	next.Watched = true

	r.series.publishSnapshot()
	return next, nil
}

// MarkPreviousUnwatched marks the watched episode with the highest
// season*100+episode key as unwatched. Returns nil when no episode is
// watched; that case is a no-op.
func (r *EpisodeRepository) MarkPreviousUnwatched(seriesID string) (*models.Episode, error) {
	episodes, err := r.db.GetEpisodesBySeriesID(seriesID)
	if err != nil {
		return nil, err
	}

	var previous *models.Episode
	for i := range episodes {
		ep := &episodes[i]
		if !ep.Watched {
			continue
		}
		if previous == nil || ep.Ordinal() > previous.Ordinal() {
			previous = ep
		}
	}
	if previous == nil {
		return nil, nil
	}

	if err := r.db.SetEpisodeWatched(previous.ImdbID, false); err != nil {
		return nil, err
	}
	previous.Watched = false

	r.series.publishSnapshot()
	return previous, nil
}

// Enrich fetches full detail for every episode of the series that has not
// been enriched yet, one at a time. A failed fetch leaves the episode
// unchanged and the loop moves on; the DetailsFetched marker makes a later
// pass re-attempt only the still-unfetched subset.
func (r *EpisodeRepository) Enrich(ctx context.Context, seriesID string) error {
	episodes, err := r.db.GetUnfetchedEpisodes(seriesID)
	if err != nil {
		return err
	}

	if len(episodes) == 0 {
		r.logger.WithField("series_id", seriesID).Debug("No episodes to enrich")
		return nil
	}

	r.logger.WithFields(logrus.Fields{
		"series_id": seriesID,
		"count":     len(episodes),
	}).Info("Enriching episodes")

	enriched := 0
	for _, episode := range episodes {
		detail, err := r.fetcher.GetByID(ctx, episode.ImdbID)
		if err != nil {
			metrics.EnrichedEpisodes.WithLabelValues("failure").Inc()
			r.logger.WithError(err).WithFields(logrus.Fields{
				"episode_id": episode.ImdbID,
				"season":     episode.Season,
				"episode":    episode.Episode,
			}).Warn("Failed to enrich episode, will retry on a later pass")
			continue
		}

		if err := r.db.SetEpisodeDetails(episode.ImdbID, omdb.FieldOrNil(detail.Runtime), omdb.FieldOrNil(detail.Plot)); err != nil {
			metrics.EnrichedEpisodes.WithLabelValues("failure").Inc()
			r.logger.WithError(err).WithField("episode_id", episode.ImdbID).Error("Failed to store episode details")
			continue
		}

		metrics.EnrichedEpisodes.WithLabelValues("success").Inc()
		enriched++
	}

	r.logger.WithFields(logrus.Fields{
		"series_id": seriesID,
		"enriched":  enriched,
		"skipped":   len(episodes) - enriched,
	}).Info("Episode enrichment completed")

	if enriched > 0 {
		r.series.publishSnapshot()
	}
	return nil
}
