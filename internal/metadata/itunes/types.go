// Package itunes provides a client for the Apple iTunes Search API ebook catalogue.
package itunes

// EbookResult is one ebook from an iTunes search.
type EbookResult struct {
	TrackID          int64    `json:"track_id"`
	Title            string   `json:"title"`
	Author           string   `json:"author"`
	ArtworkURL       string   `json:"artwork_url"` // 600x600 cover
	Description      string   `json:"description,omitempty"`
	PlainDescription string   `json:"plain_description,omitempty"`
	Genres           []string `json:"genres,omitempty"`
}

// SearchParams narrows an ebook search.
type SearchParams struct {
	Term    string
	GenreID string // empty searches every genre
	Limit   int    // defaults to 50
}

// searchResponse is the raw iTunes API response.
type searchResponse struct {
	ResultCount int            `json:"resultCount"`
	Results     []searchResult `json:"results"`
}

// searchResult is a single result from iTunes search.
type searchResult struct {
	Kind          string   `json:"kind"`
	TrackID       int64    `json:"trackId"`
	TrackName     string   `json:"trackName"`
	ArtistName    string   `json:"artistName"`
	ArtworkURL60  string   `json:"artworkUrl60"`
	ArtworkURL100 string   `json:"artworkUrl100"`
	Description   string   `json:"description,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	ReleaseDate   string   `json:"releaseDate,omitempty"`
}
