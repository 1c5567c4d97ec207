package recommend

import (
	"context"
	"errors"
	"sync"

	"github.com/moviechat/moviechat/internal/intent"
	"github.com/moviechat/moviechat/internal/metadata/tmdb"
	"github.com/moviechat/moviechat/internal/metadata/watchmode"
)

var errUpstream = errors.New("upstream down")

// fakeCatalog is a programmable Catalog that counts calls per operation.
type fakeCatalog struct {
	mu    sync.Mutex
	calls map[string]int

	unconfigured bool

	discover      map[int][]tmdb.MediaResult // by page
	discoverErr   error
	lastDiscover  []tmdb.DiscoverParams
	searchMovies  []tmdb.MediaResult
	searchSeries  []tmdb.MediaResult
	searchMulti   []tmdb.MediaResult
	similar       map[int][]tmdb.MediaResult // by page
	similarErr    map[int]error              // by page
	videos        map[int][]tmdb.Video
	videosErr     error
	people        []tmdb.Person
	credits       *tmdb.CombinedCredits
	keywords      map[string][]tmdb.Keyword
	upcoming      []tmdb.MediaResult
	upcomingErr   error
	lastSearchArg string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{calls: make(map[string]int)}
}

func (f *fakeCatalog) count(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeCatalog) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeCatalog) IsConfigured() bool { return !f.unconfigured }

func (f *fakeCatalog) Discover(_ context.Context, media tmdb.MediaType, p tmdb.DiscoverParams) ([]tmdb.MediaResult, error) {
	f.count("discover")
	f.mu.Lock()
	f.lastDiscover = append(f.lastDiscover, p)
	f.mu.Unlock()
	if f.discoverErr != nil {
		return nil, f.discoverErr
	}
	return tag(f.discover[p.Page], media), nil
}

func (f *fakeCatalog) SearchMovies(_ context.Context, query string, page int) ([]tmdb.MediaResult, error) {
	f.count("search_movie")
	f.lastSearchArg = query
	if page > 1 {
		return nil, nil
	}
	return tag(f.searchMovies, tmdb.MediaMovie), nil
}

func (f *fakeCatalog) SearchSeries(_ context.Context, query string, page int) ([]tmdb.MediaResult, error) {
	f.count("search_tv")
	f.lastSearchArg = query
	if page > 1 {
		return nil, nil
	}
	return tag(f.searchSeries, tmdb.MediaTV), nil
}

func (f *fakeCatalog) SearchMulti(_ context.Context, query string, _ int) ([]tmdb.MediaResult, error) {
	f.count("search_multi")
	f.lastSearchArg = query
	return f.searchMulti, nil
}

func (f *fakeCatalog) Similar(_ context.Context, _ int, media tmdb.MediaType, page int) ([]tmdb.MediaResult, error) {
	f.count("similar")
	if err := f.similarErr[page]; err != nil {
		return nil, err
	}
	return tag(f.similar[page], media), nil
}

func (f *fakeCatalog) GetVideos(_ context.Context, id int, _ tmdb.MediaType) ([]tmdb.Video, error) {
	f.count("videos")
	if f.videosErr != nil {
		return nil, f.videosErr
	}
	return f.videos[id], nil
}

func (f *fakeCatalog) SearchPerson(_ context.Context, name string) ([]tmdb.Person, error) {
	f.count("search_person")
	f.lastSearchArg = name
	return f.people, nil
}

func (f *fakeCatalog) GetPersonCredits(_ context.Context, _ int) (*tmdb.CombinedCredits, error) {
	f.count("person_credits")
	if f.credits == nil {
		return &tmdb.CombinedCredits{}, nil
	}
	return f.credits, nil
}

func (f *fakeCatalog) SearchKeyword(_ context.Context, query string) ([]tmdb.Keyword, error) {
	f.count("search_keyword")
	return f.keywords[query], nil
}

func (f *fakeCatalog) Upcoming(_ context.Context, _ int) ([]tmdb.MediaResult, error) {
	f.count("upcoming")
	return f.upcoming, f.upcomingErr
}

func (f *fakeCatalog) GetImageURL(path string, size string) string {
	if path == "" {
		return ""
	}
	return "https://img.test/" + size + path
}

func tag(results []tmdb.MediaResult, media tmdb.MediaType) []tmdb.MediaResult {
	out := make([]tmdb.MediaResult, len(results))
	for i, r := range results {
		if r.MediaType == "" {
			r.MediaType = media
		}
		out[i] = r
	}
	return out
}

// fakeAvailability is a programmable Availability.
type fakeAvailability struct {
	mu    sync.Mutex
	calls map[string]int

	unconfigured bool
	ids          map[string]int
	sources      map[int][]watchmode.Source
	searchErr    error
}

func newFakeAvailability() *fakeAvailability {
	return &fakeAvailability{
		calls:   make(map[string]int),
		ids:     make(map[string]int),
		sources: make(map[int][]watchmode.Source),
	}
}

func (f *fakeAvailability) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeAvailability) IsConfigured() bool { return !f.unconfigured }

func (f *fakeAvailability) Region() string { return "US" }

func (f *fakeAvailability) SearchTitle(_ context.Context, title string) ([]watchmode.TitleResult, error) {
	f.mu.Lock()
	f.calls["search"]++
	f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	id, ok := f.ids[title]
	if !ok {
		return nil, nil
	}
	return []watchmode.TitleResult{{ID: id, Name: title}}, nil
}

func (f *fakeAvailability) GetSources(_ context.Context, titleID int, _ string) ([]watchmode.Source, error) {
	f.mu.Lock()
	f.calls["sources"]++
	f.mu.Unlock()
	return f.sources[titleID], nil
}

// staticOracle always returns the same hint.
type staticOracle struct {
	hint intent.Hint
}

func (o staticOracle) Extract(context.Context, string) (intent.Hint, bool) {
	return o.hint, true
}

func movie(id int, title string, rating, popularity float64, lang string, genres ...int) tmdb.MediaResult {
	poster := "/p" + title + ".jpg"
	return tmdb.MediaResult{
		ID:               id,
		Title:            title,
		VoteAverage:      rating,
		Popularity:       popularity,
		OriginalLanguage: lang,
		GenreIDs:         genres,
		PosterPath:       &poster,
	}
}
