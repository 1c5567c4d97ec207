package cache

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/moviechat/moviechat/internal/metrics"
)

// Memo is a typed, namespaced view over a Store.
//
// Only completed loads are written; concurrent misses for the same key inside one
// process share a single load through singleflight instead of a pending marker.
type Memo[V any] struct {
	name   string
	store  Store
	group  singleflight.Group
	logger zerolog.Logger
}

// NewMemo creates a memo named name on top of store.
func NewMemo[V any](name string, store Store, logger zerolog.Logger) *Memo[V] {
	return &Memo[V]{
		name:   name,
		store:  store,
		logger: logger.With().Str("component", "cache").Str("cache", name).Logger(),
	}
}

// Name returns the memo namespace.
func (m *Memo[V]) Name() string {
	return m.name
}

func (m *Memo[V]) key(k string) string {
	return m.name + ":" + k
}

// Get returns the cached value for key, if any.
func (m *Memo[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V

	data, ok, err := m.store.Get(ctx, m.key(key))
	if err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, treating as miss")
		return zero, false
	}
	if !ok {
		return zero, false
	}

	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("Cache entry undecodable, treating as miss")
		return zero, false
	}
	return v, true
}

// Set stores value under key.
func (m *Memo[V]) Set(ctx context.Context, key string, value V) {
	data, err := json.Marshal(value)
	if err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("Cache entry unencodable, not stored")
		return
	}
	if err := m.store.Set(ctx, m.key(key), data); err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// GetOrLoad returns the cached value for key or calls load and caches its result.
// The boolean reports a cache hit. A load error is returned and nothing is stored;
// callers that want negative caching return a zero value with a nil error instead.
func (m *Memo[V]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (V, error)) (V, bool, error) {
	if v, ok := m.Get(ctx, key); ok {
		metrics.CacheHitsTotal.WithLabelValues(m.name).Inc()
		return v, true, nil
	}
	metrics.CacheMissesTotal.WithLabelValues(m.name).Inc()

	res, err, _ := m.group.Do(key, func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		m.Set(ctx, key, v)
		return v, nil
	})

	v, _ := res.(V)
	return v, false, err
}
