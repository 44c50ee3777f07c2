package ngdpcache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCachePutGet(t *testing.T) {
	cache, err := Open(t.TempDir())
	require.NoError(t, err)

	require.False(t, cache.Has("ribbit", "abc"))

	require.NoError(t, cache.Put("ribbit", "abc", []byte("hello")))
	require.True(t, cache.Has("ribbit", "abc"))

	data, ok, err := cache.Get("ribbit", "abc")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "hello", string(data))
}

func TestCacheGetMiss(t *testing.T) {
	cache, err := Open(t.TempDir())
	require.NoError(t, err)

	_, ok, err := cache.Get("tact", "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCacheGetOrFetch(t *testing.T) {
	cache, err := Open(t.TempDir())
	require.NoError(t, err)

	calls := 0
	fetch := func() ([]byte, error) {
		calls++
		return []byte("fetched"), nil
	}

	data, err := cache.GetOrFetch("cdn-config", "k", fetch)
	require.NoError(t, err)
	require.Equal(t, "fetched", string(data))

	data, err = cache.GetOrFetch("cdn-config", "k", fetch)
	require.NoError(t, err)
	require.Equal(t, "fetched", string(data))
	require.Equal(t, 1, calls, "second call should be served from cache")
}

func TestCacheGetOrFetchPropagatesError(t *testing.T) {
	cache, err := Open(t.TempDir())
	require.NoError(t, err)

	wantErr := errors.New("network down")

	_, err = cache.GetOrFetch("cdn-config", "k", func() ([]byte, error) {
		return nil, wantErr
	})
	require.ErrorIs(t, err, wantErr)
	require.False(t, cache.Has("cdn-config", "k"))
}

func TestCacheRemove(t *testing.T) {
	cache, err := Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cache.Put("ribbit", "abc", []byte("hello")))
	require.NoError(t, cache.Remove("ribbit", "abc"))
	require.False(t, cache.Has("ribbit", "abc"))

	// Removing an absent entry is not an error.
	require.NoError(t, cache.Remove("ribbit", "abc"))
}
