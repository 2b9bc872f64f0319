package repository

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/amaumene/gowatcharr/internal/stream"
)

// MovieRepository is the movie façade over the store. Every mutation
// republishes the full movie list to all subscribers.
type MovieRepository struct {
	db      *models.Database
	updates *stream.Publisher[[]models.Movie]
	logger  *logrus.Logger
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *models.Database, logger *logrus.Logger) *MovieRepository {
	return &MovieRepository{
		db:      db,
		updates: stream.NewPublisher[[]models.Movie](),
		logger:  logger,
	}
}

// Save inserts a movie; an existing row with the same ID wins
func (r *MovieRepository) Save(movie *models.Movie) error {
	if err := r.db.CreateMovie(movie); err != nil {
		return err
	}
	r.publishSnapshot()
	return nil
}

// GetByID retrieves a movie by external ID
func (r *MovieRepository) GetByID(imdbID string) (*models.Movie, error) {
	return r.db.GetMovieByID(imdbID)
}

// List retrieves all movies
func (r *MovieRepository) List() ([]models.Movie, error) {
	return r.db.GetAllMovies()
}

// ToggleWatched flips a movie between watched (today's date) and unwatched (nil)
func (r *MovieRepository) ToggleWatched(imdbID string) (*models.Movie, error) {
	movie, err := r.db.GetMovieByID(imdbID)
	if err != nil {
		return nil, err
	}

	var date *string
	if movie.WatchedDate == nil {
		today := time.Now().Format("2006-01-02")
		date = &today
	}

	if err := r.db.SetMovieWatchedDate(imdbID, date); err != nil {
		return nil, err
	}
	movie.WatchedDate = date

	r.publishSnapshot()
	return movie, nil
}

// Delete removes a movie by external ID
func (r *MovieRepository) Delete(imdbID string) error {
	if err := r.db.DeleteMovie(imdbID); err != nil {
		return err
	}
	r.publishSnapshot()
	return nil
}

// Subscribe returns a stream of full movie-list snapshots
func (r *MovieRepository) Subscribe() (<-chan []models.Movie, func()) {
	return r.updates.Subscribe()
}

func (r *MovieRepository) publishSnapshot() {
	movies, err := r.db.GetAllMovies()
	if err != nil {
		r.logger.WithError(err).Error("Failed to read movies for snapshot")
		return
	}
	r.updates.Publish(movies)
}
