package controllers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/amaumene/gowatcharr/internal/repository"
	"github.com/amaumene/gowatcharr/internal/services/omdb"
)

// LibraryController adds and removes watchlist entries and flips watch state
type LibraryController struct {
	client   MetadataClient
	movies   *repository.MovieRepository
	series   *repository.SeriesRepository
	episodes *repository.EpisodeRepository
	logger   *logrus.Logger
}

// NewLibraryController creates a new library controller
func NewLibraryController(
	client MetadataClient,
	movies *repository.MovieRepository,
	series *repository.SeriesRepository,
	episodes *repository.EpisodeRepository,
	logger *logrus.Logger,
) *LibraryController {
	return &LibraryController{
		client:   client,
		movies:   movies,
		series:   series,
		episodes: episodes,
		logger:   logger,
	}
}

// SaveMovie fetches a movie's detail and stores it unwatched.
// An existing entry with the same ID is kept as-is.
func (c *LibraryController) SaveMovie(ctx context.Context, imdbID string) (*models.Movie, error) {
	detail, err := c.client.GetByID(ctx, imdbID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movie detail: %w", err)
	}

	movie := &models.Movie{
		ImdbID:   detail.ImdbID,
		Title:    detail.Title,
		Poster:   omdb.FieldOrNil(detail.Poster),
		Released: omdb.FieldOrNil(detail.Released),
		Runtime:  omdb.FieldOrNil(detail.Runtime),
		Genre:    omdb.FieldOrNil(detail.Genre),
		Plot:     omdb.FieldOrNil(detail.Plot),
	}

	if err := c.movies.Save(movie); err != nil {
		return nil, fmt.Errorf("failed to save movie: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"imdb_id": movie.ImdbID,
		"title":   movie.Title,
	}).Info("Movie added to watchlist")

	return movie, nil
}

// SaveSeries fetches a series' detail, stores it, then walks its seasons
// sequentially collecting minimal episode records. A failed season fetch is
// logged and contributes zero episodes without aborting the rest. Episodes
// missing a parsable number or an external ID are skipped. The accumulated
// list is bulk-inserted once, then enrichment starts in the background
// without being awaited.
func (c *LibraryController) SaveSeries(ctx context.Context, imdbID string) (*models.Series, error) {
	detail, err := c.client.GetByID(ctx, imdbID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch series detail: %w", err)
	}

	totalSeasons, err := strconv.Atoi(detail.TotalSeasons)
	if err != nil {
		totalSeasons = 0
	}

	series := &models.Series{
		ImdbID:       detail.ImdbID,
		Title:        detail.Title,
		Poster:       omdb.FieldOrNil(detail.Poster),
		TotalSeasons: totalSeasons,
		Genre:        omdb.FieldOrNil(detail.Genre),
		Released:     omdb.FieldOrNil(detail.Released),
		Runtime:      omdb.FieldOrNil(detail.Runtime),
		Plot:         omdb.FieldOrNil(detail.Plot),
	}

	if err := c.series.Save(series); err != nil {
		return nil, fmt.Errorf("failed to save series: %w", err)
	}

	var episodes []models.Episode
	for season := 1; season <= totalSeasons; season++ {
		listing, err := c.client.GetSeason(ctx, series.ImdbID, season)
		if err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"imdb_id": series.ImdbID,
				"season":  season,
			}).Warn("Failed to fetch season, skipping")
			continue
		}

		for _, entry := range listing.Episodes {
			number, err := strconv.Atoi(entry.Episode)
			if err != nil || entry.ImdbID == "" {
				c.logger.WithFields(logrus.Fields{
					"imdb_id": series.ImdbID,
					"season":  season,
					"title":   entry.Title,
				}).Warn("Skipping episode without usable number or ID")
				continue
			}

			episodes = append(episodes, models.Episode{
				ImdbID:   entry.ImdbID,
				SeriesID: series.ImdbID,
				Title:    entry.Title,
				Season:   season,
				Episode:  number,
				Released: omdb.FieldOrNil(entry.Released),
			})
		}
	}

	if err := c.episodes.SaveBatch(episodes); err != nil {
		return nil, fmt.Errorf("failed to save episodes: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"imdb_id":  series.ImdbID,
		"title":    series.Title,
		"seasons":  totalSeasons,
		"episodes": len(episodes),
	}).Info("Series added to watchlist")

	go func() {
		if err := c.episodes.Enrich(context.Background(), series.ImdbID); err != nil {
			c.logger.WithError(err).WithField("imdb_id", series.ImdbID).Error("Background enrichment failed")
		}
	}()

	return series, nil
}

// DeleteMovie removes a movie from the watchlist
func (c *LibraryController) DeleteMovie(imdbID string) error {
	return c.movies.Delete(imdbID)
}

// DeleteSeries removes a series and all of its episodes
func (c *LibraryController) DeleteSeries(imdbID string) error {
	return c.series.Delete(imdbID)
}

// ToggleMovieWatched flips a movie's watched state
func (c *LibraryController) ToggleMovieWatched(imdbID string) (*models.Movie, error) {
	return c.movies.ToggleWatched(imdbID)
}

// ToggleEpisodeWatched flips an episode's watched flag
func (c *LibraryController) ToggleEpisodeWatched(imdbID string) (*models.Episode, error) {
	return c.episodes.ToggleWatched(imdbID)
}

// MarkNextWatched marks a series' next unwatched episode as watched
func (c *LibraryController) MarkNextWatched(seriesID string) (*models.Episode, error) {
	return c.episodes.MarkNextWatched(seriesID)
}

// MarkPreviousUnwatched marks a series' most recently watched episode as unwatched
func (c *LibraryController) MarkPreviousUnwatched(seriesID string) (*models.Episode, error) {
	return c.episodes.MarkPreviousUnwatched(seriesID)
}
