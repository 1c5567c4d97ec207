// Package recommend turns a resolved intent into a ranked, enriched list of titles.
//
// The pipeline runs strictly forward: retrieve candidates through the first productive
// route, dedupe them, select a page, enrich the selection with trailers and streaming
// availability, then score and rank.
package recommend

import (
	"context"
	"errors"

	"github.com/moviechat/moviechat/internal/intent"
	"github.com/moviechat/moviechat/internal/metadata/tmdb"
	"github.com/moviechat/moviechat/internal/metadata/watchmode"
)

// ErrDependencyUnavailable is returned when a required provider has no credentials.
var ErrDependencyUnavailable = errors.New("recommendation dependency unavailable")

// Catalog is the movie and TV metadata provider. *tmdb.Client implements it.
type Catalog interface {
	IsConfigured() bool
	Discover(ctx context.Context, media tmdb.MediaType, p tmdb.DiscoverParams) ([]tmdb.MediaResult, error)
	SearchMovies(ctx context.Context, query string, page int) ([]tmdb.MediaResult, error)
	SearchSeries(ctx context.Context, query string, page int) ([]tmdb.MediaResult, error)
	SearchMulti(ctx context.Context, query string, page int) ([]tmdb.MediaResult, error)
	Similar(ctx context.Context, id int, media tmdb.MediaType, page int) ([]tmdb.MediaResult, error)
	GetVideos(ctx context.Context, id int, media tmdb.MediaType) ([]tmdb.Video, error)
	SearchPerson(ctx context.Context, name string) ([]tmdb.Person, error)
	GetPersonCredits(ctx context.Context, personID int) (*tmdb.CombinedCredits, error)
	SearchKeyword(ctx context.Context, query string) ([]tmdb.Keyword, error)
	Upcoming(ctx context.Context, page int) ([]tmdb.MediaResult, error)
	GetImageURL(path string, size string) string
}

// Availability is the streaming availability provider. *watchmode.Client implements it.
type Availability interface {
	IsConfigured() bool
	Region() string
	SearchTitle(ctx context.Context, title string) ([]watchmode.TitleResult, error)
	GetSources(ctx context.Context, titleID int, region string) ([]watchmode.Source, error)
}

var (
	_ Catalog      = (*tmdb.Client)(nil)
	_ Availability = (*watchmode.Client)(nil)
)

// Request is one recommendation call. Zero values mean "not supplied".
type Request struct {
	Text        string
	ContentType string
	Language    string
	Page        int
	PageSize    int
	Limit       int
}

// Item is a ranked, caller-facing recommendation.
type Item struct {
	Type           intent.ContentType `json:"type"`
	Title          string             `json:"title"`
	Overview       string             `json:"overview"`
	Rating         float64            `json:"rating"`
	Popularity     float64            `json:"popularity"`
	Language       string             `json:"language"`
	ReleaseDate    string             `json:"release_date,omitempty"`
	FirstAirDate   string             `json:"first_air_date,omitempty"`
	TMDBID         int                `json:"tmdb_id"`
	PosterURL      *string            `json:"poster_url"`
	BackdropURL    *string            `json:"backdrop_url"`
	TrailerURL     *string            `json:"trailer_url"`
	AvailableOn    string             `json:"available_on"`
	OnSubscription bool               `json:"on_subscription"`
	Score          int                `json:"score"`
}

// ResolvedIntent is the intent echoed back to callers.
type ResolvedIntent struct {
	intent.Intent
	Route           Route `json:"route"`
	SemanticEnabled bool  `json:"semantic_enabled"`
}

// Response is the paginated recommendation envelope.
type Response struct {
	Items    []Item         `json:"items"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Intent   ResolvedIntent `json:"intent"`
}

// UpcomingItem is one entry of the upcoming releases feed.
type UpcomingItem struct {
	TMDBID      int     `json:"tmdb_id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	Rating      float64 `json:"rating"`
	PosterURL   *string `json:"poster_url"`
}

// UpcomingResponse is the upcoming releases envelope.
type UpcomingResponse struct {
	Items []UpcomingItem `json:"items"`
	Page  int            `json:"page"`
}

// ContentTypeFor maps a catalog media type to the caller-facing content type.
func ContentTypeFor(m tmdb.MediaType) intent.ContentType {
	if m == tmdb.MediaTV {
		return intent.ContentSeries
	}
	return intent.ContentMovie
}

// MediaFor maps a concrete content type to the catalog media type.
func MediaFor(ct intent.ContentType) tmdb.MediaType {
	if ct == intent.ContentSeries {
		return tmdb.MediaTV
	}
	return tmdb.MediaMovie
}
