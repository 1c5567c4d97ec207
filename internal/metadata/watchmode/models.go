package watchmode

// SearchResponse is the response from /search/.
type SearchResponse struct {
	TitleResults []TitleResult `json:"title_results"`
}

// TitleResult is a Watchmode title match.
type TitleResult struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Year       int    `json:"year"`
	ImdbID     string `json:"imdb_id"`
	TmdbID     int    `json:"tmdb_id"`
	TmdbType   string `json:"tmdb_type"`
	ResultType string `json:"resultType"`
}

// Source is one streaming, rental or purchase offer for a title in a region.
type Source struct {
	SourceID int     `json:"source_id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"` // sub, free, rent, buy, tve
	Region   string  `json:"region"`
	WebURL   string  `json:"web_url,omitempty"`
	Format   string  `json:"format,omitempty"`
	Price    float64 `json:"price,omitempty"`
}

// errorResponse is the body Watchmode returns on failures.
type errorResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	StatusMsg  string `json:"statusMessage"`
}
