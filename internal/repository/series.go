package repository

import (
	"github.com/sirupsen/logrus"

	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/amaumene/gowatcharr/internal/stream"
)

// SeriesRepository is the series façade over the store. Snapshots carry the
// derived progress (next unwatched episode, watched/total counts), so episode
// mutations republish here as well.
type SeriesRepository struct {
	db      *models.Database
	updates *stream.Publisher[[]models.SeriesProgress]
	logger  *logrus.Logger
}

// NewSeriesRepository creates a new series repository
func NewSeriesRepository(db *models.Database, logger *logrus.Logger) *SeriesRepository {
	return &SeriesRepository{
		db:      db,
		updates: stream.NewPublisher[[]models.SeriesProgress](),
		logger:  logger,
	}
}

// Save inserts or replaces a series
func (r *SeriesRepository) Save(series *models.Series) error {
	if err := r.db.UpsertSeries(series); err != nil {
		return err
	}
	r.publishSnapshot()
	return nil
}

// GetByID retrieves a series by external ID
func (r *SeriesRepository) GetByID(imdbID string) (*models.Series, error) {
	return r.db.GetSeriesByID(imdbID)
}

// List retrieves all series
func (r *SeriesRepository) List() ([]models.Series, error) {
	return r.db.GetAllSeries()
}

// ListWithProgress retrieves all series with their derived watch progress
func (r *SeriesRepository) ListWithProgress() ([]models.SeriesProgress, error) {
	series, err := r.db.GetAllSeries()
	if err != nil {
		return nil, err
	}

	progress := make([]models.SeriesProgress, 0, len(series))
	for _, s := range series {
		episodes, err := r.db.GetEpisodesBySeriesID(s.ImdbID)
		if err != nil {
			return nil, err
		}
		progress = append(progress, models.NewSeriesProgress(s, episodes))
	}
	return progress, nil
}

// GetProgress retrieves one series with its derived watch progress
func (r *SeriesRepository) GetProgress(imdbID string) (*models.SeriesProgress, error) {
	series, err := r.db.GetSeriesByID(imdbID)
	if err != nil {
		return nil, err
	}
	episodes, err := r.db.GetEpisodesBySeriesID(imdbID)
	if err != nil {
		return nil, err
	}
	progress := models.NewSeriesProgress(*series, episodes)
	return &progress, nil
}

// Delete removes a series and all of its episodes
func (r *SeriesRepository) Delete(imdbID string) error {
	if err := r.db.DeleteSeries(imdbID); err != nil {
		return err
	}
	r.publishSnapshot()
	return nil
}

// Subscribe returns a stream of full series-progress snapshots
func (r *SeriesRepository) Subscribe() (<-chan []models.SeriesProgress, func()) {
	return r.updates.Subscribe()
}

func (r *SeriesRepository) publishSnapshot() {
	progress, err := r.ListWithProgress()
	if err != nil {
		r.logger.WithError(err).Error("Failed to read series for snapshot")
		return
	}
	r.updates.Publish(progress)
}
