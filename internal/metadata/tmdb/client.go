package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/moviechat/moviechat/internal/config"
	"github.com/moviechat/moviechat/internal/metrics"
)

var (
	ErrAPIKeyMissing = errors.New("TMDB API key is not configured")
	ErrNotFound      = errors.New("TMDB resource not found")
	ErrAPIError      = errors.New("TMDB API error")
	ErrRateLimited   = errors.New("TMDB API rate limited")
	ErrInvalidMedia  = errors.New("invalid TMDB media type")
)

const youtubeWatchURL = "https://www.youtube.com/watch?v="

// Client is a TMDB API client.
type Client struct {
	httpClient *http.Client
	config     config.TMDBConfig
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "tmdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tmdb"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// Test verifies connectivity to the TMDB API by making a configuration request.
func (c *Client) Test(ctx context.Context) error {
	if !c.IsConfigured() {
		return ErrAPIKeyMissing
	}

	var result struct {
		Images struct {
			BaseURL string `json:"base_url"`
		} `json:"images"`
	}

	return c.doRequest(ctx, "configuration", "/configuration", c.params(), &result)
}

// Discover lists titles of the given media type matching params, most popular first.
func (c *Client) Discover(ctx context.Context, media MediaType, p DiscoverParams) ([]MediaResult, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}
	if !media.Valid() {
		return nil, ErrInvalidMedia
	}

	params := c.params()
	params.Set("sort_by", "popularity.desc")
	params.Set("include_adult", "false")
	params.Set("page", strconv.Itoa(max(p.Page, 1)))
	if len(p.Genres) > 0 {
		params.Set("with_genres", joinInts(p.Genres, ","))
	}
	if p.Language != "" {
		params.Set("with_original_language", p.Language)
	}
	if len(p.Keywords) > 0 {
		// Any of the keywords, not all of them.
		params.Set("with_keywords", joinInts(p.Keywords, "|"))
	}

	dateField := "primary_release_date"
	if media == MediaTV {
		dateField = "first_air_date"
	}
	if p.YearFrom > 0 {
		params.Set(dateField+".gte", fmt.Sprintf("%04d-01-01", p.YearFrom))
	}
	if p.YearTo > 0 {
		params.Set(dateField+".lte", fmt.Sprintf("%04d-12-31", p.YearTo))
	}

	var response PagedResponse
	if err := c.doRequest(ctx, "discover", "/discover/"+string(media), params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("media", string(media)).
		Ints("genres", p.Genres).
		Str("language", p.Language).
		Int("yearFrom", p.YearFrom).
		Int("yearTo", p.YearTo).
		Int("page", p.Page).
		Int("results", len(response.Results)).
		Msg("Discover completed")

	return tagMedia(response.Results, media), nil
}

// SearchMovies searches movies by free text.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) ([]MediaResult, error) {
	return c.search(ctx, MediaMovie, query, page)
}

// SearchSeries searches TV series by free text.
func (c *Client) SearchSeries(ctx context.Context, query string, page int) ([]MediaResult, error) {
	return c.search(ctx, MediaTV, query, page)
}

// SearchMulti searches movies, series and people at once. Each result carries its MediaType.
func (c *Client) SearchMulti(ctx context.Context, query string, page int) ([]MediaResult, error) {
	return c.search(ctx, "multi", query, page)
}

func (c *Client) search(ctx context.Context, kind MediaType, query string, page int) ([]MediaResult, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	params := c.params()
	params.Set("query", query)
	params.Set("page", strconv.Itoa(max(page, 1)))
	params.Set("include_adult", "false")

	var response PagedResponse
	if err := c.doRequest(ctx, "search_"+string(kind), "/search/"+string(kind), params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("kind", string(kind)).
		Str("query", query).
		Int("results", len(response.Results)).
		Msg("Search completed")

	if kind.Valid() {
		return tagMedia(response.Results, kind), nil
	}
	return response.Results, nil
}

// Similar lists titles similar to the given one.
func (c *Client) Similar(ctx context.Context, id int, media MediaType, page int) ([]MediaResult, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}
	if !media.Valid() {
		return nil, ErrInvalidMedia
	}

	params := c.params()
	params.Set("page", strconv.Itoa(max(page, 1)))

	var response PagedResponse
	path := fmt.Sprintf("/%s/%d/similar", media, id)
	if err := c.doRequest(ctx, "similar", path, params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("id", id).
		Str("media", string(media)).
		Int("results", len(response.Results)).
		Msg("Got similar titles")

	return tagMedia(response.Results, media), nil
}

// GetVideos lists the videos attached to a title.
func (c *Client) GetVideos(ctx context.Context, id int, media MediaType) ([]Video, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}
	if !media.Valid() {
		return nil, ErrInvalidMedia
	}

	var response VideosResponse
	path := fmt.Sprintf("/%s/%d/videos", media, id)
	if err := c.doRequest(ctx, "videos", path, c.params(), &response); err != nil {
		return nil, err
	}
	return response.Results, nil
}

// PickTrailer chooses the first YouTube trailer, else the first YouTube video of any type.
func PickTrailer(videos []Video) string {
	for _, v := range videos {
		if v.Site == "YouTube" && v.Type == "Trailer" && v.Key != "" {
			return youtubeWatchURL + v.Key
		}
	}
	for _, v := range videos {
		if v.Site == "YouTube" && v.Key != "" {
			return youtubeWatchURL + v.Key
		}
	}
	return ""
}

// SearchPerson searches people by name.
func (c *Client) SearchPerson(ctx context.Context, name string) ([]Person, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	params := c.params()
	params.Set("query", name)
	params.Set("page", "1")
	params.Set("include_adult", "false")

	var response PersonSearchResponse
	if err := c.doRequest(ctx, "search_person", "/search/person", params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("name", name).
		Int("results", len(response.Results)).
		Msg("Person search completed")

	return response.Results, nil
}

// GetPersonCredits returns the movie and TV credits of a person.
func (c *Client) GetPersonCredits(ctx context.Context, personID int) (*CombinedCredits, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	var credits CombinedCredits
	path := fmt.Sprintf("/person/%d/combined_credits", personID)
	if err := c.doRequest(ctx, "person_credits", path, c.params(), &credits); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("personID", personID).
		Int("cast", len(credits.Cast)).
		Int("crew", len(credits.Crew)).
		Msg("Got person credits")

	return &credits, nil
}

// SearchKeyword searches TMDB thematic keywords.
func (c *Client) SearchKeyword(ctx context.Context, query string) ([]Keyword, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	params := c.params()
	params.Set("query", query)
	params.Set("page", "1")

	var response KeywordSearchResponse
	if err := c.doRequest(ctx, "search_keyword", "/search/keyword", params, &response); err != nil {
		return nil, err
	}
	return response.Results, nil
}

// Upcoming lists movies that are about to be released.
func (c *Client) Upcoming(ctx context.Context, page int) ([]MediaResult, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	params := c.params()
	params.Set("page", strconv.Itoa(max(page, 1)))

	var response PagedResponse
	if err := c.doRequest(ctx, "upcoming", "/movie/upcoming", params, &response); err != nil {
		return nil, err
	}
	return tagMedia(response.Results, MediaMovie), nil
}

// GetImageURL returns a full image URL for a given path and size.
// Size options: "w92", "w154", "w185", "w342", "w500", "w780", "original"
func (c *Client) GetImageURL(path string, size string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", c.config.ImageBaseURL, size, path)
}

func (c *Client) params() url.Values {
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)
	return params
}

// doRequest performs an HTTP GET request and decodes the JSON response.
// op labels the call in upstream metrics.
func (c *Client) doRequest(ctx context.Context, op, path string, params url.Values, result interface{}) error {
	endpoint := c.config.BaseURL + path
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues("tmdb").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("tmdb", op, "error").Inc()
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestsTotal.WithLabelValues("tmdb", op, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("message", errResp.StatusMessage).
				Str("op", op).
				Msg("TMDB API error")
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: invalid API key", ErrAPIError)
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// tagMedia sets the media type on results from single-type endpoints.
func tagMedia(results []MediaResult, media MediaType) []MediaResult {
	for i := range results {
		if results[i].MediaType == "" {
			results[i].MediaType = media
		}
	}
	return results
}

func joinInts(ids []int, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, sep)
}
