package recommend

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/moviechat/moviechat/internal/cache"
	"github.com/moviechat/moviechat/internal/metadata/tmdb"
	"github.com/moviechat/moviechat/internal/metadata/watchmode"
)

// maxSourceNames caps the platforms listed in an availability string.
const maxSourceNames = 6

// Enricher attaches trailer URLs and streaming availability to selected items.
//
// Lookups are memoized in process-wide caches and fail open: an upstream error is
// cached as "unknown" and never surfaces to the caller.
type Enricher struct {
	catalog      Catalog
	availability Availability

	trailers *cache.Memo[*string]
	titleIDs *cache.Memo[*int]
	sources  *cache.Memo[[]string]

	// pacer spaces uncached availability calls; cache hits never wait on it.
	pacer *rate.Limiter

	trailerBudget      int
	availabilityBudget int
	logger             zerolog.Logger
}

// EnricherConfig holds the per-request budgets and the availability call spacing.
type EnricherConfig struct {
	TrailerBudget      int
	AvailabilityBudget int
	AvailabilityDelay  time.Duration
}

// NewEnricher creates an Enricher whose caches live in store.
func NewEnricher(catalog Catalog, availability Availability, store cache.Store, cfg EnricherConfig, logger zerolog.Logger) *Enricher {
	limit := rate.Inf
	if cfg.AvailabilityDelay > 0 {
		limit = rate.Every(cfg.AvailabilityDelay)
	}

	return &Enricher{
		catalog:            catalog,
		availability:       availability,
		trailers:           cache.NewMemo[*string]("trailer", store, logger),
		titleIDs:           cache.NewMemo[*int]("watchmode_id", store, logger),
		sources:            cache.NewMemo[[]string]("sources", store, logger),
		pacer:              rate.NewLimiter(limit, 1),
		trailerBudget:      cfg.TrailerBudget,
		availabilityBudget: cfg.AvailabilityBudget,
		logger:             logger.With().Str("component", "enricher").Logger(),
	}
}

// Enrich fills TrailerURL and AvailableOn in place, in slice order. Only the first
// trailerBudget items get a trailer lookup and only the first availabilityBudget items get
// an availability lookup; the rest keep a nil trailer and empty availability.
func (e *Enricher) Enrich(ctx context.Context, items []Item) {
	region := e.availability.Region()

	for i := range items {
		it := &items[i]
		media := MediaFor(it.Type)

		if i < e.trailerBudget {
			it.TrailerURL = e.Trailer(ctx, it.TMDBID, media)
		}
		if i < e.availabilityBudget {
			it.AvailableOn = e.AvailableOn(ctx, it.Title, region)
		}
	}
}

// Trailer returns the cached or freshly looked up trailer URL, or nil.
func (e *Enricher) Trailer(ctx context.Context, id int, media tmdb.MediaType) *string {
	key := strconv.Itoa(id) + ":" + string(media)
	url, _, err := e.trailers.GetOrLoad(ctx, key, func(ctx context.Context) (*string, error) {
		videos, err := e.catalog.GetVideos(ctx, id, media)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.logger.Debug().Err(err).Int("tmdbID", id).Msg("Trailer lookup failed")
			return nil, nil
		}
		if u := tmdb.PickTrailer(videos); u != "" {
			return &u, nil
		}
		return nil, nil
	})
	if err != nil {
		return nil
	}
	return url
}

// AvailableOn returns the comma-separated platform names for title in region, or "".
func (e *Enricher) AvailableOn(ctx context.Context, title, region string) string {
	if title == "" {
		return ""
	}

	id, _, err := e.titleIDs.GetOrLoad(ctx, title, func(ctx context.Context) (*int, error) {
		if err := e.pacer.Wait(ctx); err != nil {
			return nil, err
		}
		results, err := e.availability.SearchTitle(ctx, title)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.logger.Debug().Err(err).Str("title", title).Msg("Availability title search failed")
			return nil, nil
		}
		if len(results) == 0 || results[0].ID == 0 {
			return nil, nil
		}
		id := results[0].ID
		return &id, nil
	})
	if err != nil || id == nil {
		return ""
	}

	names, _, err := e.sources.GetOrLoad(ctx, title+"|"+region, func(ctx context.Context) ([]string, error) {
		if err := e.pacer.Wait(ctx); err != nil {
			return nil, err
		}
		srcs, err := e.availability.GetSources(ctx, *id, region)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.logger.Debug().Err(err).Str("title", title).Msg("Availability sources lookup failed")
			return []string{}, nil
		}
		return sourceNames(srcs), nil
	})
	if err != nil {
		return ""
	}
	return strings.Join(names, ", ")
}

// sourceNames dedupes platform names, keeping the first maxSourceNames.
func sourceNames(srcs []watchmode.Source) []string {
	seen := make(map[string]struct{}, len(srcs))
	out := make([]string, 0, maxSourceNames)
	for _, src := range srcs {
		name := strings.TrimSpace(src.Name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
		if len(out) == maxSourceNames {
			break
		}
	}
	return out
}
