package tmdb

// MediaType is the TMDB path segment for a title kind.
type MediaType string

const (
	MediaMovie MediaType = "movie"
	MediaTV    MediaType = "tv"
)

// Valid reports whether m is one of the two title media types.
func (m MediaType) Valid() bool {
	return m == MediaMovie || m == MediaTV
}

// PagedResponse is the envelope shared by search, discover, similar and upcoming endpoints.
type PagedResponse struct {
	Page         int           `json:"page"`
	Results      []MediaResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// MediaResult is a movie or TV series entry from a TMDB list endpoint.
// Movies fill Title and ReleaseDate, series fill Name and FirstAirDate.
// MediaType is only present on multi-search and combined-credit entries.
type MediaResult struct {
	ID               int       `json:"id"`
	MediaType        MediaType `json:"media_type,omitempty"`
	Title            string    `json:"title,omitempty"`
	Name             string    `json:"name,omitempty"`
	OriginalTitle    string    `json:"original_title,omitempty"`
	OriginalName     string    `json:"original_name,omitempty"`
	Overview         string    `json:"overview"`
	ReleaseDate      string    `json:"release_date,omitempty"`
	FirstAirDate     string    `json:"first_air_date,omitempty"`
	PosterPath       *string   `json:"poster_path"`
	BackdropPath     *string   `json:"backdrop_path"`
	VoteAverage      float64   `json:"vote_average"`
	VoteCount        int       `json:"vote_count"`
	Popularity       float64   `json:"popularity"`
	Adult            bool      `json:"adult"`
	GenreIDs         []int     `json:"genre_ids"`
	OriginalLanguage string    `json:"original_language"`

	// Combined credits only.
	Character string `json:"character,omitempty"`
	Job       string `json:"job,omitempty"`
}

// DisplayTitle returns the title for movies and the name for series.
func (r MediaResult) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// VideosResponse is the response from /{media}/{id}/videos.
type VideosResponse struct {
	ID      int     `json:"id"`
	Results []Video `json:"results"`
}

// Video is a trailer, teaser or clip attached to a title.
type Video struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// PersonSearchResponse is the response from /search/person.
type PersonSearchResponse struct {
	Page    int      `json:"page"`
	Results []Person `json:"results"`
}

// Person is a cast or crew member from person search.
type Person struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	KnownForDepartment string  `json:"known_for_department"`
	Popularity         float64 `json:"popularity"`
}

// CombinedCredits is the response from /person/{id}/combined_credits.
type CombinedCredits struct {
	ID   int           `json:"id"`
	Cast []MediaResult `json:"cast"`
	Crew []MediaResult `json:"crew"`
}

// KeywordSearchResponse is the response from /search/keyword.
type KeywordSearchResponse struct {
	Page    int       `json:"page"`
	Results []Keyword `json:"results"`
}

// Keyword is a TMDB thematic keyword.
type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DiscoverParams are the filters of a discover call. Zero values are omitted.
type DiscoverParams struct {
	Genres   []int
	Language string
	YearFrom int
	YearTo   int
	Keywords []int
	Page     int
}

// ErrorResponse is an error from the TMDB API.
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
