package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/moviechat/moviechat/internal/cache"
	"github.com/moviechat/moviechat/internal/config"
	"github.com/moviechat/moviechat/internal/intent"
	"github.com/moviechat/moviechat/internal/metadata/tmdb"
	"github.com/moviechat/moviechat/internal/metadata/watchmode"
	"github.com/moviechat/moviechat/internal/recommend"
)

// stubCatalog serves a fixed discover page and upcoming feed.
type stubCatalog struct {
	configured  bool
	discover    []tmdb.MediaResult
	upcoming    []tmdb.MediaResult
	upcomingErr error
	lastPage    int
}

func (s *stubCatalog) IsConfigured() bool { return s.configured }

func (s *stubCatalog) Discover(_ context.Context, media tmdb.MediaType, p tmdb.DiscoverParams) ([]tmdb.MediaResult, error) {
	if p.Page != 1 {
		return nil, nil
	}
	out := make([]tmdb.MediaResult, len(s.discover))
	for i, r := range s.discover {
		r.MediaType = media
		out[i] = r
	}
	return out, nil
}

func (s *stubCatalog) SearchMovies(context.Context, string, int) ([]tmdb.MediaResult, error) {
	return nil, nil
}

func (s *stubCatalog) SearchSeries(context.Context, string, int) ([]tmdb.MediaResult, error) {
	return nil, nil
}

func (s *stubCatalog) SearchMulti(context.Context, string, int) ([]tmdb.MediaResult, error) {
	return nil, nil
}

func (s *stubCatalog) Similar(context.Context, int, tmdb.MediaType, int) ([]tmdb.MediaResult, error) {
	return nil, nil
}

func (s *stubCatalog) GetVideos(context.Context, int, tmdb.MediaType) ([]tmdb.Video, error) {
	return nil, nil
}

func (s *stubCatalog) SearchPerson(context.Context, string) ([]tmdb.Person, error) {
	return nil, nil
}

func (s *stubCatalog) GetPersonCredits(context.Context, int) (*tmdb.CombinedCredits, error) {
	return &tmdb.CombinedCredits{}, nil
}

func (s *stubCatalog) SearchKeyword(context.Context, string) ([]tmdb.Keyword, error) {
	return nil, nil
}

func (s *stubCatalog) Upcoming(_ context.Context, page int) ([]tmdb.MediaResult, error) {
	s.lastPage = page
	return s.upcoming, s.upcomingErr
}

func (s *stubCatalog) GetImageURL(path string, size string) string {
	return "https://img.test/" + size + path
}

type stubAvailability struct {
	configured bool
}

func (s stubAvailability) IsConfigured() bool { return s.configured }
func (s stubAvailability) Region() string     { return "US" }

func (s stubAvailability) SearchTitle(context.Context, string) ([]watchmode.TitleResult, error) {
	return nil, nil
}

func (s stubAvailability) GetSources(context.Context, int, string) ([]watchmode.Source, error) {
	return nil, nil
}

func setupTestServer(t *testing.T, catalog *stubCatalog, configured bool) *Server {
	t.Helper()

	cfg := config.Default()
	cfg.Recommend.AvailabilityDelay = 0

	svc := recommend.NewService(catalog, stubAvailability{configured: configured}, intent.NoOracle{},
		cache.NewMemoryStore(), cfg.Recommend, zerolog.Nop())
	return NewServer(svc, cfg, zerolog.Nop())
}

func newCatalog() *stubCatalog {
	poster := "/poster.jpg"
	return &stubCatalog{
		configured: true,
		discover: []tmdb.MediaResult{
			{ID: 1, Title: "Golmaal", VoteAverage: 6.5, Popularity: 20, OriginalLanguage: "hi", GenreIDs: []int{35}, ReleaseDate: "2016-01-01"},
			{ID: 2, Title: "Stree", VoteAverage: 7.5, Popularity: 40, OriginalLanguage: "hi", GenreIDs: []int{35, 27}, ReleaseDate: "2018-08-31"},
		},
		upcoming: []tmdb.MediaResult{
			{ID: 10, Title: "Sequel", Overview: "Again.", ReleaseDate: "2026-12-01", VoteAverage: 0, PosterPath: &poster},
		},
	}
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	s := setupTestServer(t, newCatalog(), true)

	rec := doRequest(s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("HealthCheck status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	want := healthResponse{OK: true, Catalog: true, Availability: true, Semantic: false}
	if got != want {
		t.Errorf("HealthCheck = %+v, want %+v", got, want)
	}

	if id := rec.Header().Get("X-Request-Id"); len(id) != 36 {
		t.Errorf("X-Request-Id = %q, want a UUID", id)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers not applied")
	}
}

func TestRecommend(t *testing.T) {
	s := setupTestServer(t, newCatalog(), true)

	rec := doRequest(s, http.MethodPost, "/ai", `{"text":"hindi comedy movies released after 2015"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Recommend status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", rec.Header().Get("Cache-Control"))
	}

	var got recommend.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if got.Page != 1 || got.PageSize != 10 {
		t.Errorf("page = %d, page_size = %d, want 1, 10", got.Page, got.PageSize)
	}
	if got.Intent.Route != recommend.RouteDiscover {
		t.Errorf("route = %q, want %q", got.Intent.Route, recommend.RouteDiscover)
	}
	if got.Intent.ContentType != intent.ContentMovie || got.Intent.Language != "hi" {
		t.Errorf("intent = %+v", got.Intent.Intent)
	}
	if got.Intent.YearFrom == nil || *got.Intent.YearFrom != 2016 {
		t.Errorf("year_from = %v, want 2016", got.Intent.YearFrom)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(got.Items))
	}
	if got.Items[0].Title != "Stree" {
		t.Errorf("first item = %q, want Stree", got.Items[0].Title)
	}
	if got.Items[0].Score < got.Items[1].Score {
		t.Errorf("items not ranked: %d < %d", got.Items[0].Score, got.Items[1].Score)
	}
}

func TestRecommend_LimitMode(t *testing.T) {
	s := setupTestServer(t, newCatalog(), true)

	rec := doRequest(s, http.MethodPost, "/ai", `{"text":"comedy","limit":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Recommend status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var got recommend.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if got.Page != 1 || got.PageSize != 1 || len(got.Items) != 1 {
		t.Errorf("page = %d, page_size = %d, items = %d, want 1, 1, 1", got.Page, got.PageSize, len(got.Items))
	}
}

func TestRecommend_Validation(t *testing.T) {
	s := setupTestServer(t, newCatalog(), true)

	tests := []struct {
		name string
		body string
	}{
		{"missing text", `{"page":1}`},
		{"blank text", `{"text":"   "}`},
		{"page below one", `{"text":"comedy","page":-1}`},
		{"page size too large", `{"text":"comedy","page_size":31}`},
		{"limit too large", `{"text":"comedy","limit":50}`},
		{"bad language", `{"text":"comedy","language":"english"}`},
		{"malformed body", `{"text":`},
		{"wrong field type", `{"text":"comedy","page":"two"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(s, http.MethodPost, "/ai", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
			}
		})
	}
}

func TestRecommend_DependencyUnavailable(t *testing.T) {
	s := setupTestServer(t, newCatalog(), false)

	rec := doRequest(s, http.MethodPost, "/ai", `{"text":"comedy"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestUpcoming(t *testing.T) {
	catalog := newCatalog()
	s := setupTestServer(t, catalog, true)

	rec := doRequest(s, http.MethodGet, "/upcoming?page=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Upcoming status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got recommend.UpcomingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if got.Page != 2 || catalog.lastPage != 2 {
		t.Errorf("page = %d (catalog saw %d), want 2", got.Page, catalog.lastPage)
	}
	if len(got.Items) != 1 || got.Items[0].Title != "Sequel" {
		t.Fatalf("items = %+v", got.Items)
	}
	if got.Items[0].PosterURL == nil || *got.Items[0].PosterURL != "https://img.test/w500/poster.jpg" {
		t.Errorf("poster_url = %v", got.Items[0].PosterURL)
	}
}

func TestUpcoming_Errors(t *testing.T) {
	catalog := newCatalog()
	catalog.upcomingErr = errors.New("upstream down")
	s := setupTestServer(t, catalog, true)

	rec := doRequest(s, http.MethodGet, "/upcoming", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Upcoming status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got recommend.UpcomingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if got.Page != 1 || len(got.Items) != 0 {
		t.Errorf("got %+v, want empty page 1", got)
	}

	rec = doRequest(s, http.MethodGet, "/upcoming?page=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := setupTestServer(t, newCatalog(), true)

	rec := doRequest(s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Metrics status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("metrics exposition missing default collectors")
	}
}
