package omdb

// Rating is a single (source, value) rating pair, e.g. ("Internet Movie Database", "8.7/10")
type Rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// Detail represents the full detail response for a title or an episode.
// String fields use "N/A" for absent values, passed through as-is.
type Detail struct {
	Title        string   `json:"Title"`
	Year         string   `json:"Year"`
	Released     string   `json:"Released"`
	Runtime      string   `json:"Runtime"`
	Genre        string   `json:"Genre"`
	Actors       string   `json:"Actors"`
	Plot         string   `json:"Plot"`
	Poster       string   `json:"Poster"`
	Ratings      []Rating `json:"Ratings"`
	ImdbID       string   `json:"imdbID"`
	Type         string   `json:"Type"`
	TotalSeasons string   `json:"totalSeasons"`
	Response     string   `json:"Response"`
	Error        string   `json:"Error,omitempty"`
}

// SearchResult is a single entry of a title search
type SearchResult struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

type searchResponse struct {
	Search       []SearchResult `json:"Search"`
	TotalResults string         `json:"totalResults"`
	Response     string         `json:"Response"`
	Error        string         `json:"Error,omitempty"`
}

// SeasonEpisode is one episode entry of a season listing.
// Episode numbers are strings on the wire and may be unparsable.
type SeasonEpisode struct {
	Title      string `json:"Title"`
	Released   string `json:"Released"`
	Episode    string `json:"Episode"`
	ImdbRating string `json:"imdbRating"`
	ImdbID     string `json:"imdbID"`
}

// Season is the episode listing of one season of a series
type Season struct {
	Title        string          `json:"Title"`
	Season       string          `json:"Season"`
	TotalSeasons string          `json:"totalSeasons"`
	Episodes     []SeasonEpisode `json:"Episodes"`
	Response     string          `json:"Response"`
	Error        string          `json:"Error,omitempty"`
}
