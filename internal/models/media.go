package models

// Movie is a watchlist entry for a single film.
// WatchedDate is nil while unwatched and holds the watch date (YYYY-MM-DD) once watched.
type Movie struct {
	ImdbID      string  `gorm:"primaryKey;column:imdb_id" json:"imdbId"`
	Title       string  `json:"title"`
	Poster      *string `json:"poster,omitempty"`
	Released    *string `json:"released,omitempty"`
	Runtime     *string `json:"runtime,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Plot        *string `json:"plot,omitempty"`
	WatchedDate *string `json:"watchedDate,omitempty"`
}

// Series is a watchlist entry for a show. Completion is derived from episode
// watched counts; WatchedDate stays in the schema but is never written.
type Series struct {
	ImdbID       string  `gorm:"primaryKey;column:imdb_id" json:"imdbId"`
	Title        string  `json:"title"`
	Poster       *string `json:"poster,omitempty"`
	TotalSeasons int     `json:"totalSeasons"`
	Genre        *string `json:"genre,omitempty"`
	Released     *string `json:"released,omitempty"`
	Runtime      *string `json:"runtime,omitempty"`
	Plot         *string `json:"plot,omitempty"`
	WatchedDate  *string `json:"watchedDate,omitempty"`

	Episodes []Episode `gorm:"foreignKey:SeriesID;references:ImdbID;constraint:OnDelete:CASCADE" json:"-"`
}

// Episode belongs to a Series and is deleted with it.
// Rows are created from season listings with basic fields only; Runtime and Plot
// are filled in later by enrichment, which flips DetailsFetched.
type Episode struct {
	ImdbID         string  `gorm:"primaryKey;column:imdb_id" json:"imdbId"`
	SeriesID       string  `gorm:"index;column:series_id" json:"seriesId"`
	Title          string  `json:"title"`
	Season         int     `json:"season"`
	Episode        int     `json:"episode"`
	Released       *string `json:"released,omitempty"`
	Runtime        *string `json:"runtime,omitempty"`
	Plot           *string `json:"plot,omitempty"`
	Watched        bool    `gorm:"default:false" json:"watched"`
	DetailsFetched bool    `gorm:"default:false" json:"detailsFetched"`
}

// Ordinal returns the season*100+episode key used to order episodes
// when selecting the next or previous one.
func (e *Episode) Ordinal() int {
	return e.Season*100 + e.Episode
}
