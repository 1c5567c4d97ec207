package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/moviechat/moviechat/internal/cache"
	"github.com/moviechat/moviechat/internal/config"
	"github.com/moviechat/moviechat/internal/intent"
)

const (
	posterSize   = "w500"
	backdropSize = "w780"
)

// Service answers recommendation and upcoming-release requests.
type Service struct {
	catalog      Catalog
	availability Availability
	oracle       intent.Oracle
	router       *Router
	enricher     *Enricher
	cfg          config.RecommendConfig
	logger       zerolog.Logger
}

// NewService wires the recommendation pipeline. oracle may be nil.
func NewService(catalog Catalog, availability Availability, oracle intent.Oracle, store cache.Store, cfg config.RecommendConfig, logger zerolog.Logger) *Service {
	if oracle == nil {
		oracle = intent.NoOracle{}
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 10
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 30
	}

	return &Service{
		catalog:      catalog,
		availability: availability,
		oracle:       oracle,
		router:       NewRouter(catalog, cfg.IncludeSeed, logger),
		enricher: NewEnricher(catalog, availability, store, EnricherConfig{
			TrailerBudget:      cfg.TrailerBudget,
			AvailabilityBudget: cfg.AvailabilityBudget,
			AvailabilityDelay:  cfg.AvailabilityDelay,
		}, logger),
		cfg:    cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}
}

// Recommend resolves the request's intent, retrieves and ranks candidates.
// The only error is ErrDependencyUnavailable; upstream failures yield fewer items.
func (s *Service) Recommend(ctx context.Context, req Request) (*Response, error) {
	if !s.catalog.IsConfigured() {
		return nil, fmt.Errorf("%w: catalog API key missing", ErrDependencyUnavailable)
	}
	if !s.availability.IsConfigured() {
		return nil, fmt.Errorf("%w: availability API key missing", ErrDependencyUnavailable)
	}

	text := strings.TrimSpace(req.Text)
	hint, hasHint := s.oracle.Extract(ctx, text)
	in := intent.Merge(intent.Overrides{
		ContentType: intent.ParseContentType(req.ContentType),
		Language:    req.Language,
		Page:        req.Page,
		PageSize:    req.PageSize,
		Limit:       req.Limit,
	}, hint, hasHint, intent.Parse(text))

	// A limit from the caller, or from the text when no paging was requested, switches
	// to limit mode: prefetch several pages, rank the pool, keep the top limit.
	limitMode := req.Limit > 0 || (in.Limit > 0 && req.Page <= 0 && req.PageSize <= 0)
	pages := 1
	if limitMode {
		in.Limit = min(in.Limit, s.cfg.MaxPageSize)
		in.Page = 1
		in.PageSize = in.Limit
		pages = max(s.cfg.PrefetchPages, 1)
	} else {
		in.Limit = 0
		in.Page = max(in.Page, 1)
		if in.PageSize <= 0 {
			in.PageSize = s.cfg.DefaultPageSize
		}
		in.PageSize = min(in.PageSize, s.cfg.MaxPageSize)
	}

	res := s.router.Retrieve(ctx, text, in, in.Page, pages)
	candidates := Dedupe(res.Candidates)

	items := s.buildItems(candidates, in)
	if limitMode {
		rank(items)
	}
	if len(items) > in.PageSize {
		items = items[:in.PageSize]
	}

	s.enricher.Enrich(ctx, items)
	rank(items)
	items = applySubscriptions(items, in.Subscriptions, in.StrictSubs)

	in.ContentType = ContentTypeFor(res.Media)

	s.logger.Info().
		Str("route", string(res.Route)).
		Str("contentType", string(in.ContentType)).
		Int("candidates", len(candidates)).
		Int("items", len(items)).
		Bool("semantic", hasHint).
		Msg("Recommendation served")

	return &Response{
		Items:    items,
		Page:     in.Page,
		PageSize: in.PageSize,
		Intent: ResolvedIntent{
			Intent:          in,
			Route:           res.Route,
			SemanticEnabled: hasHint,
		},
	}, nil
}

// buildItems scores candidates against the intent. Untitled candidates are skipped.
func (s *Service) buildItems(candidates []Candidate, in intent.Intent) []Item {
	items := make([]Item, 0, len(candidates))
	for _, c := range candidates {
		title := c.DisplayTitle()
		if title == "" {
			continue
		}

		bonus := 0.0
		if c.FromSimilar {
			bonus = s.cfg.SimilarityBonus
		}
		media := c.Media()
		ct := ContentTypeFor(media)

		items = append(items, Item{
			Type:         ct,
			Title:        title,
			Overview:     c.Overview,
			Rating:       c.VoteAverage,
			Popularity:   c.Popularity,
			Language:     c.OriginalLanguage,
			ReleaseDate:  c.ReleaseDate,
			FirstAirDate: c.FirstAirDate,
			TMDBID:       c.ID,
			PosterURL:    s.imageURL(c.PosterPath, posterSize),
			BackdropURL:  s.imageURL(c.BackdropPath, backdropSize),
			Score:        Score(c, in.GenresFor(ct), in.Language, bonus),
		})
	}
	return items
}

func (s *Service) imageURL(path *string, size string) *string {
	if path == nil || *path == "" {
		return nil
	}
	u := s.catalog.GetImageURL(*path, size)
	if u == "" {
		return nil
	}
	return &u
}

// rank orders items by score, highest first. Equal scores keep their order.
func rank(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}

// applySubscriptions flags items streaming on a named platform. With strict set, the
// other items are dropped, including those whose availability was never looked up.
func applySubscriptions(items []Item, subs []string, strict bool) []Item {
	if len(subs) == 0 {
		return items
	}

	out := items[:0]
	for _, it := range items {
		it.OnSubscription = onAnyPlatform(it.AvailableOn, subs)
		if strict && !it.OnSubscription {
			continue
		}
		out = append(out, it)
	}
	return out
}

func onAnyPlatform(availableOn string, subs []string) bool {
	if availableOn == "" {
		return false
	}
	for _, name := range strings.Split(availableOn, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		for _, sub := range subs {
			if strings.Contains(name, strings.ToLower(sub)) {
				return true
			}
		}
	}
	return false
}

// Upcoming lists the catalog's upcoming movies. Upstream failures yield an empty list.
func (s *Service) Upcoming(ctx context.Context, page int) (*UpcomingResponse, error) {
	if !s.catalog.IsConfigured() {
		return nil, fmt.Errorf("%w: catalog API key missing", ErrDependencyUnavailable)
	}
	page = max(page, 1)

	results, err := s.catalog.Upcoming(ctx, page)
	if err != nil {
		s.logger.Warn().Err(err).Int("page", page).Msg("Upcoming releases lookup failed")
		results = nil
	}

	items := make([]UpcomingItem, 0, len(results))
	for _, r := range results {
		items = append(items, UpcomingItem{
			TMDBID:      r.ID,
			Title:       r.DisplayTitle(),
			Overview:    r.Overview,
			ReleaseDate: r.ReleaseDate,
			Rating:      r.VoteAverage,
			PosterURL:   s.imageURL(r.PosterPath, posterSize),
		})
	}
	return &UpcomingResponse{Items: items, Page: page}, nil
}

// Status is a snapshot of which providers have credentials.
type Status struct {
	Catalog      bool
	Availability bool
	Semantic     bool
}

// Status reports the configured providers.
func (s *Service) Status() Status {
	st := Status{
		Catalog:      s.catalog.IsConfigured(),
		Availability: s.availability.IsConfigured(),
	}
	if c, ok := s.oracle.(interface{ IsConfigured() bool }); ok {
		st.Semantic = c.IsConfigured()
	}
	return st
}
