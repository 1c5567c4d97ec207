package recommend

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviechat/moviechat/internal/cache"
	"github.com/moviechat/moviechat/internal/metadata/tmdb"
	"github.com/moviechat/moviechat/internal/metadata/watchmode"
)

func TestSourceNames(t *testing.T) {
	srcs := []watchmode.Source{
		{Name: "Netflix"}, {Name: "Netflix"}, {Name: " "}, {Name: "Hulu"}, {Name: "Max"},
		{Name: "Peacock"}, {Name: "Tubi"}, {Name: "Pluto TV"}, {Name: "Crackle"},
	}
	assert.Equal(t, []string{"Netflix", "Hulu", "Max", "Peacock", "Tubi", "Pluto TV"}, sourceNames(srcs))
	assert.Empty(t, sourceNames(nil))
}

func TestEnricher_TrailerCachedPerMedia(t *testing.T) {
	cat := newFakeCatalog()
	cat.videos = map[int][]tmdb.Video{
		1: {{Key: "clip", Site: "Vimeo", Type: "Trailer"}, {Key: "yt", Site: "YouTube", Type: "Clip"}},
	}
	e := NewEnricher(cat, newFakeAvailability(), cache.NewMemoryStore(), EnricherConfig{TrailerBudget: 1}, zerolog.Nop())
	ctx := context.Background()

	got := e.Trailer(ctx, 1, tmdb.MediaMovie)
	require.NotNil(t, got)
	assert.Equal(t, "https://www.youtube.com/watch?v=yt", *got)

	_ = e.Trailer(ctx, 1, tmdb.MediaMovie)
	assert.Equal(t, 1, cat.Calls("videos"))

	_ = e.Trailer(ctx, 1, tmdb.MediaTV)
	assert.Equal(t, 2, cat.Calls("videos"))
}

func TestEnricher_AvailabilitySharedStore(t *testing.T) {
	avail := newFakeAvailability()
	avail.ids["Heat"] = 5
	avail.sources[5] = []watchmode.Source{{Name: "Max"}}
	store := cache.NewMemoryStore()

	first := NewEnricher(newFakeCatalog(), avail, store, EnricherConfig{AvailabilityBudget: 1}, zerolog.Nop())
	assert.Equal(t, "Max", first.AvailableOn(context.Background(), "Heat", "US"))

	// A second enricher over the same store, as in another process sharing Redis.
	second := NewEnricher(newFakeCatalog(), avail, store, EnricherConfig{AvailabilityBudget: 1}, zerolog.Nop())
	assert.Equal(t, "Max", second.AvailableOn(context.Background(), "Heat", "US"))
	assert.Equal(t, 1, avail.Calls("search"))
	assert.Equal(t, 1, avail.Calls("sources"))

	assert.Equal(t, "", second.AvailableOn(context.Background(), "", "US"))
}

func TestEnricher_CanceledContextNotCached(t *testing.T) {
	avail := newFakeAvailability()
	avail.ids["Heat"] = 5
	avail.sources[5] = []watchmode.Source{{Name: "Max"}}
	e := NewEnricher(newFakeCatalog(), avail, cache.NewMemoryStore(), EnricherConfig{AvailabilityBudget: 1}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, "", e.AvailableOn(ctx, "Heat", "US"))

	assert.Equal(t, "Max", e.AvailableOn(context.Background(), "Heat", "US"))
}
