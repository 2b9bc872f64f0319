package models

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// schemaVersion is bumped on any schema change. Evolution is destructive:
// a version mismatch drops all tables and starts over instead of migrating.
const schemaVersion = 1

type schemaMeta struct {
	ID      uint `gorm:"primaryKey"`
	Version int
}

// Database wraps the gorm store
type Database struct {
	db *gorm.DB
}

// NewDatabase opens the sqlite database, enforcing foreign keys so episode rows
// cascade with their series. Existing data is discarded when the stored schema
// version does not match schemaVersion.
func NewDatabase(path string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := resetOnVersionMismatch(db); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&schemaMeta{}, &Movie{}, &Series{}, &Episode{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	meta := schemaMeta{ID: 1, Version: schemaVersion}
	if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&meta).Error; err != nil {
		return nil, fmt.Errorf("failed to store schema version: %w", err)
	}

	return &Database{db: db}, nil
}

func resetOnVersionMismatch(db *gorm.DB) error {
	if !db.Migrator().HasTable(&schemaMeta{}) {
		return nil
	}

	var meta schemaMeta
	if err := db.First(&meta, "id = ?", 1).Error; err != nil {
		return nil
	}
	if meta.Version == schemaVersion {
		return nil
	}

	if err := db.Migrator().DropTable(&Episode{}, &Series{}, &Movie{}, &schemaMeta{}); err != nil {
		return fmt.Errorf("failed to reset schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Movie operations

// CreateMovie inserts a movie, keeping the existing row on conflict
func (d *Database) CreateMovie(movie *Movie) error {
	return d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(movie).Error
}

// GetMovieByID retrieves a movie by external ID
func (d *Database) GetMovieByID(imdbID string) (*Movie, error) {
	var movie Movie
	if err := d.db.First(&movie, "imdb_id = ?", imdbID).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetAllMovies retrieves all movies
func (d *Database) GetAllMovies() ([]Movie, error) {
	var movies []Movie
	err := d.db.Order("title").Find(&movies).Error
	return movies, err
}

// SetMovieWatchedDate updates a movie's watched date; nil marks it unwatched
func (d *Database) SetMovieWatchedDate(imdbID string, date *string) error {
	return d.db.Model(&Movie{}).Where("imdb_id = ?", imdbID).Update("watched_date", date).Error
}

// DeleteMovie deletes a movie by external ID
func (d *Database) DeleteMovie(imdbID string) error {
	return d.db.Delete(&Movie{}, "imdb_id = ?", imdbID).Error
}

// Series operations

// UpsertSeries inserts a series, replacing the existing row on conflict
func (d *Database) UpsertSeries(series *Series) error {
	return d.db.Omit("Episodes").Clauses(clause.OnConflict{UpdateAll: true}).Create(series).Error
}

// GetSeriesByID retrieves a series by external ID
func (d *Database) GetSeriesByID(imdbID string) (*Series, error) {
	var series Series
	if err := d.db.First(&series, "imdb_id = ?", imdbID).Error; err != nil {
		return nil, err
	}
	return &series, nil
}

// GetAllSeries retrieves all series
func (d *Database) GetAllSeries() ([]Series, error) {
	var series []Series
	err := d.db.Order("title").Find(&series).Error
	return series, err
}

// DeleteSeries deletes a series and all of its episodes in one transaction.
// The schema already cascades, the explicit two-step delete keeps the behavior
// independent of the engine's foreign-key enforcement.
func (d *Database) DeleteSeries(imdbID string) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Episode{}, "series_id = ?", imdbID).Error; err != nil {
			return err
		}
		return tx.Delete(&Series{}, "imdb_id = ?", imdbID).Error
	})
}

// Episode operations

// UpsertEpisodes bulk-inserts episodes, replacing existing rows on conflict
func (d *Database) UpsertEpisodes(episodes []Episode) error {
	if len(episodes) == 0 {
		return nil
	}
	return d.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&episodes).Error
}

// GetEpisodeByID retrieves an episode by external ID
func (d *Database) GetEpisodeByID(imdbID string) (*Episode, error) {
	var episode Episode
	if err := d.db.First(&episode, "imdb_id = ?", imdbID).Error; err != nil {
		return nil, err
	}
	return &episode, nil
}

// GetEpisodesBySeriesID retrieves all episodes of a series in airing order
func (d *Database) GetEpisodesBySeriesID(seriesID string) ([]Episode, error) {
	var episodes []Episode
	err := d.db.Where("series_id = ?", seriesID).Order("season, episode").Find(&episodes).Error
	return episodes, err
}

// GetUnfetchedEpisodes retrieves the episodes of a series still awaiting enrichment
func (d *Database) GetUnfetchedEpisodes(seriesID string) ([]Episode, error) {
	var episodes []Episode
	err := d.db.Where("series_id = ? AND details_fetched = ?", seriesID, false).
		Order("season, episode").Find(&episodes).Error
	return episodes, err
}

// GetSeriesIDsWithUnfetchedEpisodes lists series that still have episodes awaiting enrichment
func (d *Database) GetSeriesIDsWithUnfetchedEpisodes() ([]string, error) {
	var ids []string
	err := d.db.Model(&Episode{}).Distinct("series_id").
		Where("details_fetched = ?", false).Pluck("series_id", &ids).Error
	return ids, err
}

// SetEpisodeWatched updates an episode's watched flag
func (d *Database) SetEpisodeWatched(imdbID string, watched bool) error {
	return d.db.Model(&Episode{}).Where("imdb_id = ?", imdbID).Update("watched", watched).Error
}

// SetEpisodeDetails stores enrichment results and marks the episode as fetched
func (d *Database) SetEpisodeDetails(imdbID string, runtime, plot *string) error {
	return d.db.Model(&Episode{}).Where("imdb_id = ?", imdbID).Updates(map[string]interface{}{
		"runtime":         runtime,
		"plot":            plot,
		"details_fetched": true,
	}).Error
}

// DeleteEpisode deletes a single episode by external ID
func (d *Database) DeleteEpisode(imdbID string) error {
	return d.db.Delete(&Episode{}, "imdb_id = ?", imdbID).Error
}

// IsNotFound reports whether err means the record does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
