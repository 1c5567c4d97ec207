package recommend

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/moviechat/moviechat/internal/intent"
	"github.com/moviechat/moviechat/internal/metadata/tmdb"
	"github.com/moviechat/moviechat/internal/metrics"
)

// Route names the retrieval strategy that produced the candidates.
type Route string

const (
	RoutePerson   Route = "person"
	RouteTitle    Route = "title"
	RouteKeyword  Route = "keyword"
	RouteDiscover Route = "discover"
	RouteSearch   Route = "search"
	RouteNone     Route = "none"
)

// maxKeywordTerms bounds how many thematic keywords are resolved to catalog ids.
const maxKeywordTerms = 2

var (
	directorJobs = map[string]bool{"Director": true}
	writerJobs   = map[string]bool{"Writer": true, "Screenplay": true, "Story": true}
)

// Retrieval is the router's output. Media is the catalog media the candidates came from.
type Retrieval struct {
	Candidates []Candidate
	Route      Route
	Media      tmdb.MediaType
}

// Router tries the retrieval strategies in fixed order and stops at the first one that
// yields candidates. Failing catalog calls count as an empty strategy.
type Router struct {
	catalog     Catalog
	includeSeed bool
	logger      zerolog.Logger
}

// NewRouter creates a Router over catalog.
func NewRouter(catalog Catalog, includeSeed bool, logger zerolog.Logger) *Router {
	return &Router{
		catalog:     catalog,
		includeSeed: includeSeed,
		logger:      logger.With().Str("component", "router").Logger(),
	}
}

// Retrieve runs the strategies for in. page is the first catalog page; pages is the number
// of consecutive catalog pages fetched by paged strategies.
func (r *Router) Retrieve(ctx context.Context, text string, in intent.Intent, page, pages int) Retrieval {
	media := MediaFor(in.ContentType)
	page = max(page, 1)
	pages = max(pages, 1)

	res := r.route(ctx, text, in, media, page, pages)
	metrics.RouteSelectedTotal.WithLabelValues(string(res.Route)).Inc()

	r.logger.Debug().
		Str("route", string(res.Route)).
		Str("media", string(res.Media)).
		Int("candidates", len(res.Candidates)).
		Msg("Candidates retrieved")
	return res
}

func (r *Router) route(ctx context.Context, text string, in intent.Intent, media tmdb.MediaType, page, pages int) Retrieval {
	if in.PersonName != "" || looksLikePersonQuery(text) {
		if c := r.byPerson(ctx, text, in, media); len(c) > 0 {
			return Retrieval{c, RoutePerson, media}
		}
	}

	if title := in.Title(); title != "" {
		if c, seedMedia := r.byTitle(ctx, title, media, page, pages); len(c) > 0 {
			return Retrieval{c, RouteTitle, seedMedia}
		}
	}

	if len(in.Keywords) > 0 {
		if c := r.byKeywords(ctx, in, media, page, pages); len(c) > 0 {
			return Retrieval{c, RouteKeyword, media}
		}
	}

	if c := r.discover(ctx, in, media, nil, page, pages); len(c) > 0 {
		return Retrieval{c, RouteDiscover, media}
	}

	if q := strings.TrimSpace(text); q != "" {
		if c := r.search(ctx, q, media, page, pages); len(c) > 0 {
			return Retrieval{c, RouteSearch, media}
		}
	}

	return Retrieval{nil, RouteNone, media}
}

// looksLikePersonQuery matches prompts such as "tom cruise movies" or "films by nolan".
func looksLikePersonQuery(text string) bool {
	t := strings.ToLower(text)
	if !strings.Contains(t, " movies") && !strings.Contains(t, " films") && !strings.Contains(t, " film") {
		return false
	}
	for _, cue := range []string{"actor", "director", "starring", "by "} {
		if strings.Contains(t, cue) {
			return true
		}
	}
	return len(strings.Fields(t)) <= 4
}

// personNameFromText strips the media cue words off a heuristic person query.
func personNameFromText(text string) string {
	name := strings.ReplaceAll(text, "movies", "")
	name = strings.ReplaceAll(name, "films", "")
	return strings.TrimSpace(name)
}

func (r *Router) byPerson(ctx context.Context, text string, in intent.Intent, media tmdb.MediaType) []Candidate {
	name := in.PersonName
	if name == "" {
		name = personNameFromText(text)
	}
	if name == "" {
		return nil
	}

	people, err := r.catalog.SearchPerson(ctx, name)
	if err != nil {
		r.logger.Warn().Err(err).Str("name", name).Msg("Person search failed")
		return nil
	}
	if len(people) == 0 {
		return nil
	}

	credits, err := r.catalog.GetPersonCredits(ctx, people[0].ID)
	if err != nil {
		r.logger.Warn().Err(err).Int("personID", people[0].ID).Msg("Person credits lookup failed")
		return nil
	}

	var pool []tmdb.MediaResult
	switch in.PersonRole {
	case intent.RoleDirector:
		pool = filterJobs(credits.Crew, directorJobs)
	case intent.RoleWriter:
		pool = filterJobs(credits.Crew, writerJobs)
	default:
		pool = credits.Cast
	}

	filtered := make([]tmdb.MediaResult, 0, len(pool))
	for _, m := range pool {
		if m.MediaType != media {
			continue
		}
		if in.Language != "" && m.OriginalLanguage != in.Language {
			continue
		}
		filtered = append(filtered, m)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return personRank(filtered[i]) > personRank(filtered[j])
	})
	return candidatesFrom(filtered, media, false)
}

func personRank(m tmdb.MediaResult) float64 {
	return m.VoteAverage*10 + m.Popularity
}

func filterJobs(crew []tmdb.MediaResult, jobs map[string]bool) []tmdb.MediaResult {
	var out []tmdb.MediaResult
	for _, m := range crew {
		if jobs[m.Job] {
			out = append(out, m)
		}
	}
	return out
}

// byTitle finds the best multi-search match for title and expands it to its similar list.
// The returned media type is the match's own, which may differ from the requested one.
func (r *Router) byTitle(ctx context.Context, title string, media tmdb.MediaType, page, pages int) ([]Candidate, tmdb.MediaType) {
	matches, err := r.catalog.SearchMulti(ctx, title, 1)
	if err != nil {
		r.logger.Warn().Err(err).Str("title", title).Msg("Title search failed")
		return nil, media
	}

	var best *tmdb.MediaResult
	for i := range matches {
		if matches[i].MediaType == media {
			best = &matches[i]
			break
		}
	}
	if best == nil {
		for i := range matches {
			if matches[i].MediaType.Valid() {
				best = &matches[i]
				break
			}
		}
	}
	if best == nil || best.ID == 0 {
		return nil, media
	}

	seed := *best
	similar, err := fetchPages(page, pages, func(p int) ([]tmdb.MediaResult, error) {
		return r.catalog.Similar(ctx, seed.ID, seed.MediaType, p)
	}, r.logger, "similar")
	if err != nil {
		return nil, media
	}

	// The seed leads the first page only.
	var out []Candidate
	if r.includeSeed && page == 1 {
		out = append(out, Candidate{MediaResult: seed})
	}
	out = append(out, candidatesFrom(similar, seed.MediaType, true)...)

	r.logger.Debug().
		Int("seedID", seed.ID).
		Str("seedTitle", seed.DisplayTitle()).
		Int("similar", len(similar)).
		Msg("Seed resolved")

	return out, seed.MediaType
}

func (r *Router) byKeywords(ctx context.Context, in intent.Intent, media tmdb.MediaType, page, pages int) []Candidate {
	terms := in.Keywords
	if len(terms) > maxKeywordTerms {
		terms = terms[:maxKeywordTerms]
	}

	var ids []int
	for _, term := range terms {
		kws, err := r.catalog.SearchKeyword(ctx, term)
		if err != nil {
			r.logger.Warn().Err(err).Str("term", term).Msg("Keyword search failed")
			continue
		}
		if len(kws) > 0 && kws[0].ID != 0 {
			ids = append(ids, kws[0].ID)
		}
	}

	return r.discover(ctx, in, media, ids, page, pages)
}

func (r *Router) discover(ctx context.Context, in intent.Intent, media tmdb.MediaType, keywordIDs []int, page, pages int) []Candidate {
	params := tmdb.DiscoverParams{
		Genres:   in.GenresFor(ContentTypeFor(media)),
		Language: in.Language,
		Keywords: keywordIDs,
	}
	if in.YearFrom != nil {
		params.YearFrom = *in.YearFrom
	}
	if in.YearTo != nil {
		params.YearTo = *in.YearTo
	}

	results, _ := fetchPages(page, pages, func(p int) ([]tmdb.MediaResult, error) {
		q := params
		q.Page = p
		return r.catalog.Discover(ctx, media, q)
	}, r.logger, "discover")
	return candidatesFrom(results, media, false)
}

func (r *Router) search(ctx context.Context, query string, media tmdb.MediaType, page, pages int) []Candidate {
	results, _ := fetchPages(page, pages, func(p int) ([]tmdb.MediaResult, error) {
		if media == tmdb.MediaTV {
			return r.catalog.SearchSeries(ctx, query, p)
		}
		return r.catalog.SearchMovies(ctx, query, p)
	}, r.logger, "search")
	return candidatesFrom(results, media, false)
}

// fetchPages concatenates up to n consecutive pages starting at first. It stops at the
// first empty or failed page; earlier pages are kept. The error is non-nil only when the
// first page failed.
func fetchPages(first, n int, fetch func(page int) ([]tmdb.MediaResult, error), logger zerolog.Logger, op string) ([]tmdb.MediaResult, error) {
	var out []tmdb.MediaResult
	for p := first; p < first+n; p++ {
		results, err := fetch(p)
		if err != nil {
			logger.Warn().Err(err).Str("op", op).Int("page", p).Msg("Catalog call failed")
			if p == first {
				return nil, err
			}
			break
		}
		if len(results) == 0 {
			break
		}
		out = append(out, results...)
	}
	return out, nil
}
