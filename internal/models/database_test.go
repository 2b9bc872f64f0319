package models

import (
	"path/filepath"
	"testing"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(s string) *string { return &s }

func TestCreateMovieKeepsExistingRow(t *testing.T) {
	db := newTestDatabase(t)

	original := &Movie{ImdbID: "tt0133093", Title: "The Matrix", WatchedDate: strPtr("2024-01-01")}
	if err := db.CreateMovie(original); err != nil {
		t.Fatalf("CreateMovie failed: %v", err)
	}

	// Insert-or-ignore: a second insert with the same ID must not overwrite
	duplicate := &Movie{ImdbID: "tt0133093", Title: "Different Title"}
	if err := db.CreateMovie(duplicate); err != nil {
		t.Fatalf("Duplicate CreateMovie failed: %v", err)
	}

	stored, err := db.GetMovieByID("tt0133093")
	if err != nil {
		t.Fatalf("GetMovieByID failed: %v", err)
	}
	if stored.Title != "The Matrix" {
		t.Errorf("Existing row should win, got title %q", stored.Title)
	}
	if stored.WatchedDate == nil || *stored.WatchedDate != "2024-01-01" {
		t.Errorf("Watched date should be preserved, got %v", stored.WatchedDate)
	}
}

func TestMovieWatchedDateRoundTrip(t *testing.T) {
	db := newTestDatabase(t)

	if err := db.CreateMovie(&Movie{ImdbID: "tt0133093", Title: "The Matrix"}); err != nil {
		t.Fatalf("CreateMovie failed: %v", err)
	}

	if err := db.SetMovieWatchedDate("tt0133093", strPtr("2024-06-15")); err != nil {
		t.Fatalf("SetMovieWatchedDate failed: %v", err)
	}

	movie, err := db.GetMovieByID("tt0133093")
	if err != nil {
		t.Fatalf("GetMovieByID failed: %v", err)
	}
	if movie.WatchedDate == nil || *movie.WatchedDate != "2024-06-15" {
		t.Fatalf("Expected watched date 2024-06-15, got %v", movie.WatchedDate)
	}

	// Back to nil means unwatched again
	if err := db.SetMovieWatchedDate("tt0133093", nil); err != nil {
		t.Fatalf("SetMovieWatchedDate(nil) failed: %v", err)
	}

	movie, err = db.GetMovieByID("tt0133093")
	if err != nil {
		t.Fatalf("GetMovieByID failed: %v", err)
	}
	if movie.WatchedDate != nil {
		t.Errorf("Expected nil watched date, got %q", *movie.WatchedDate)
	}
}

func TestUpsertSeriesReplacesRow(t *testing.T) {
	db := newTestDatabase(t)

	if err := db.UpsertSeries(&Series{ImdbID: "tt0903747", Title: "Braking Bad", TotalSeasons: 4}); err != nil {
		t.Fatalf("UpsertSeries failed: %v", err)
	}
	if err := db.UpsertSeries(&Series{ImdbID: "tt0903747", Title: "Breaking Bad", TotalSeasons: 5}); err != nil {
		t.Fatalf("Second UpsertSeries failed: %v", err)
	}

	series, err := db.GetSeriesByID("tt0903747")
	if err != nil {
		t.Fatalf("GetSeriesByID failed: %v", err)
	}
	if series.Title != "Breaking Bad" || series.TotalSeasons != 5 {
		t.Errorf("New row should win, got %q with %d seasons", series.Title, series.TotalSeasons)
	}
}

func TestDeleteSeriesCascadesToEpisodes(t *testing.T) {
	db := newTestDatabase(t)

	if err := db.UpsertSeries(&Series{ImdbID: "tt0903747", Title: "Breaking Bad", TotalSeasons: 1}); err != nil {
		t.Fatalf("UpsertSeries failed: %v", err)
	}
	episodes := []Episode{
		{ImdbID: "tt0959621", SeriesID: "tt0903747", Title: "Pilot", Season: 1, Episode: 1},
		{ImdbID: "tt0959622", SeriesID: "tt0903747", Title: "Cat's in the Bag...", Season: 1, Episode: 2},
	}
	if err := db.UpsertEpisodes(episodes); err != nil {
		t.Fatalf("UpsertEpisodes failed: %v", err)
	}

	if err := db.DeleteSeries("tt0903747"); err != nil {
		t.Fatalf("DeleteSeries failed: %v", err)
	}

	if _, err := db.GetSeriesByID("tt0903747"); !IsNotFound(err) {
		t.Errorf("Expected series to be gone, got %v", err)
	}
	remaining, err := db.GetEpisodesBySeriesID("tt0903747")
	if err != nil {
		t.Fatalf("GetEpisodesBySeriesID failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("Expected 0 episodes after cascade, got %d", len(remaining))
	}
}

func TestUnfetchedEpisodeQueries(t *testing.T) {
	db := newTestDatabase(t)

	if err := db.UpsertSeries(&Series{ImdbID: "tt0903747", Title: "Breaking Bad", TotalSeasons: 1}); err != nil {
		t.Fatalf("UpsertSeries failed: %v", err)
	}
	episodes := []Episode{
		{ImdbID: "tt0959621", SeriesID: "tt0903747", Title: "Pilot", Season: 1, Episode: 1},
		{ImdbID: "tt0959622", SeriesID: "tt0903747", Title: "Cat's in the Bag...", Season: 1, Episode: 2},
	}
	if err := db.UpsertEpisodes(episodes); err != nil {
		t.Fatalf("UpsertEpisodes failed: %v", err)
	}

	if err := db.SetEpisodeDetails("tt0959621", strPtr("58 min"), strPtr("Walter White turns to crime.")); err != nil {
		t.Fatalf("SetEpisodeDetails failed: %v", err)
	}

	unfetched, err := db.GetUnfetchedEpisodes("tt0903747")
	if err != nil {
		t.Fatalf("GetUnfetchedEpisodes failed: %v", err)
	}
	if len(unfetched) != 1 || unfetched[0].ImdbID != "tt0959622" {
		t.Fatalf("Expected only tt0959622 unfetched, got %+v", unfetched)
	}

	ids, err := db.GetSeriesIDsWithUnfetchedEpisodes()
	if err != nil {
		t.Fatalf("GetSeriesIDsWithUnfetchedEpisodes failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != "tt0903747" {
		t.Errorf("Expected [tt0903747], got %v", ids)
	}

	enriched, err := db.GetEpisodeByID("tt0959621")
	if err != nil {
		t.Fatalf("GetEpisodeByID failed: %v", err)
	}
	if !enriched.DetailsFetched || enriched.Runtime == nil || *enriched.Runtime != "58 min" {
		t.Errorf("Enrichment fields not stored: %+v", enriched)
	}
}

func TestSetEpisodeWatched(t *testing.T) {
	db := newTestDatabase(t)

	if err := db.UpsertSeries(&Series{ImdbID: "tt0903747", Title: "Breaking Bad", TotalSeasons: 1}); err != nil {
		t.Fatalf("UpsertSeries failed: %v", err)
	}
	if err := db.UpsertEpisodes([]Episode{{ImdbID: "tt0959621", SeriesID: "tt0903747", Title: "Pilot", Season: 1, Episode: 1}}); err != nil {
		t.Fatalf("UpsertEpisodes failed: %v", err)
	}

	if err := db.SetEpisodeWatched("tt0959621", true); err != nil {
		t.Fatalf("SetEpisodeWatched failed: %v", err)
	}
	episode, err := db.GetEpisodeByID("tt0959621")
	if err != nil {
		t.Fatalf("GetEpisodeByID failed: %v", err)
	}
	if !episode.Watched {
		t.Error("Expected episode to be watched")
	}

	if err := db.SetEpisodeWatched("tt0959621", false); err != nil {
		t.Fatalf("SetEpisodeWatched(false) failed: %v", err)
	}
	episode, err = db.GetEpisodeByID("tt0959621")
	if err != nil {
		t.Fatalf("GetEpisodeByID failed: %v", err)
	}
	if episode.Watched {
		t.Error("Expected episode to be unwatched again")
	}
}

func TestVersionMismatchDiscardsAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := db.CreateMovie(&Movie{ImdbID: "tt0133093", Title: "The Matrix"}); err != nil {
		t.Fatalf("CreateMovie failed: %v", err)
	}
	if err := db.UpsertSeries(&Series{ImdbID: "tt0903747", Title: "Breaking Bad"}); err != nil {
		t.Fatalf("UpsertSeries failed: %v", err)
	}
	if err := db.UpsertEpisodes([]Episode{{ImdbID: "e1", SeriesID: "tt0903747", Season: 1, Episode: 1}}); err != nil {
		t.Fatalf("UpsertEpisodes failed: %v", err)
	}

	// Make the stored version stale, as if the file came from an older build
	if err := db.db.Model(&schemaMeta{}).Where("id = ?", 1).Update("version", schemaVersion+1).Error; err != nil {
		t.Fatalf("Failed to rewrite schema version: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewDatabase(path)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	t.Cleanup(func() { reopened.Close() })

	movies, err := reopened.GetAllMovies()
	if err != nil {
		t.Fatalf("GetAllMovies failed: %v", err)
	}
	if len(movies) != 0 {
		t.Errorf("Expected no movies after reset, got %d", len(movies))
	}

	series, err := reopened.GetAllSeries()
	if err != nil {
		t.Fatalf("GetAllSeries failed: %v", err)
	}
	if len(series) != 0 {
		t.Errorf("Expected no series after reset, got %d", len(series))
	}

	if _, err := reopened.GetEpisodeByID("e1"); !IsNotFound(err) {
		t.Errorf("Expected episode to be gone after reset, got %v", err)
	}

	var meta schemaMeta
	if err := reopened.db.First(&meta, "id = ?", 1).Error; err != nil {
		t.Fatalf("Failed to read schema meta: %v", err)
	}
	if meta.Version != schemaVersion {
		t.Errorf("Expected version %d after reset, got %d", schemaVersion, meta.Version)
	}
}

func TestMatchingVersionKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := db.CreateMovie(&Movie{ImdbID: "tt0133093", Title: "The Matrix"}); err != nil {
		t.Fatalf("CreateMovie failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewDatabase(path)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	t.Cleanup(func() { reopened.Close() })

	if _, err := reopened.GetMovieByID("tt0133093"); err != nil {
		t.Errorf("Data should survive a reopen at the same version: %v", err)
	}
}
