package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(v))

	require.NoError(t, s.Set(ctx, "k", []byte("w")))
	v, _, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "w", string(v))
}

func TestMemo_CachesValue(t *testing.T) {
	m := NewMemo[string]("trailer", NewMemoryStore(), zerolog.Nop())
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (string, error) {
		calls++
		return "https://www.youtube.com/watch?v=abc", nil
	}

	v, hit, err := m.GetOrLoad(ctx, "1:movie", load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", v)

	v, hit, err = m.GetOrLoad(ctx, "1:movie", load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", v)
	assert.Equal(t, 1, calls)
}

func TestMemo_NegativeResultIsCached(t *testing.T) {
	m := NewMemo[*int]("watchmode-id", NewMemoryStore(), zerolog.Nop())
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (*int, error) {
		calls++
		return nil, nil
	}

	v, hit, err := m.GetOrLoad(ctx, "Unknown Title", load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, v)

	v, hit, err = m.GetOrLoad(ctx, "Unknown Title", load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Nil(t, v)
	assert.Equal(t, 1, calls)
}

func TestMemo_LoadErrorNotCached(t *testing.T) {
	m := NewMemo[string]("x", NewMemoryStore(), zerolog.Nop())
	ctx := context.Background()

	boom := errors.New("boom")
	_, _, err := m.GetOrLoad(ctx, "k", func(context.Context) (string, error) { return "", boom })
	require.ErrorIs(t, err, boom)

	_, ok := m.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemo_NamespacesShareStore(t *testing.T) {
	store := NewMemoryStore()
	a := NewMemo[string]("a", store, zerolog.Nop())
	b := NewMemo[string]("b", store, zerolog.Nop())
	ctx := context.Background()

	a.Set(ctx, "k", "from-a")
	_, ok := b.Get(ctx, "k")
	assert.False(t, ok)

	raw, ok, err := store.Get(ctx, "a:k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"from-a"`, string(raw))
}

func TestMemo_ConcurrentMissesShareLoad(t *testing.T) {
	m := NewMemo[string]("sources", NewMemoryStore(), zerolog.Nop())
	ctx := context.Background()

	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once

	load := func(context.Context) (string, error) {
		calls.Add(1)
		once.Do(func() { close(started) })
		<-release
		return "Netflix", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := m.GetOrLoad(ctx, "title:US", load)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	<-started
	close(release)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "Netflix", r)
	}
	// Goroutines arriving after the first load completed hit the cache instead.
	assert.LessOrEqual(t, calls.Load(), int32(len(results)))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}
