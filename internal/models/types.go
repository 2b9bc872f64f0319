package models

// MediaType represents the type of media (movie or series)
type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeSeries MediaType = "series"
)

// SeriesProgress combines a series with the watch-state derived from its episodes.
type SeriesProgress struct {
	Series       Series   `json:"series"`
	NextEpisode  *Episode `json:"nextEpisode,omitempty"`
	WatchedCount int      `json:"watchedCount"`
	TotalCount   int      `json:"totalCount"`
}

// NewSeriesProgress derives the progress view from a series and its episodes.
// The next episode is the unwatched one with the lowest season*100+episode key.
func NewSeriesProgress(series Series, episodes []Episode) SeriesProgress {
	progress := SeriesProgress{
		Series:     series,
		TotalCount: len(episodes),
	}

	for i := range episodes {
		ep := &episodes[i]
		if ep.Watched {
			progress.WatchedCount++
			continue
		}
		if progress.NextEpisode == nil || ep.Ordinal() < progress.NextEpisode.Ordinal() {
			next := *ep
			progress.NextEpisode = &next
		}
	}

	return progress
}
