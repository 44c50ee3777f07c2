package keystore

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider(t *testing.T) {
	key := [16]byte{1, 2, 3}
	store := NewStaticProvider(map[uint64][16]byte{0xFF: key})

	got, ok := store.Key(0xFF)
	require.True(t, ok)
	require.Equal(t, key, got)

	_, ok = store.Key(0x01)
	require.False(t, ok)

	other := [16]byte{9}
	store.Add(0x01, other)

	got, ok = store.Key(0x01)
	require.True(t, ok)
	require.Equal(t, other, got)
}

func TestStaticProviderMissing(t *testing.T) {
	store := NewStaticProvider(map[uint64][16]byte{1: {1}, 2: {2}})

	missing := store.Missing([]uint64{1, 2, 3, 4})
	require.ElementsMatch(t, []uint64{3, 4}, missing)

	require.Empty(t, store.Missing([]uint64{1, 2}))
}

func TestLRUProviderCachesBackend(t *testing.T) {
	key := [16]byte{0xAB}
	calls := 0

	backend := providerFunc(func(id uint64) ([16]byte, bool) {
		calls++
		if id == 1 {
			return key, true
		}

		return [16]byte{}, false
	})

	cached := NewLRUProvider(backend, 8)

	got, ok := cached.Key(1)
	require.True(t, ok)
	require.Equal(t, key, got)

	got, ok = cached.Key(1)
	require.True(t, ok)
	require.Equal(t, key, got)
	require.Equal(t, 1, calls, "second lookup should have hit the cache")

	_, ok = cached.Key(2)
	require.False(t, ok)
	require.Equal(t, 2, calls)
}

func TestDefaultProvider(t *testing.T) {
	require.Nil(t, Default())

	store := NewStaticProvider(map[uint64][16]byte{1: {1}})
	SetDefault(store)

	defer SetDefault(nil)

	require.Equal(t, Provider(store), Default())
}

type providerFunc func(id uint64) ([16]byte, bool)

func (f providerFunc) Key(id uint64) ([16]byte, bool) { return f(id) }

func TestLRUProviderCallsBackendExactlyOnce(t *testing.T) {
	ctrl := gomock.NewController(t)

	key := [16]byte{0xCD}

	backend := NewMockProvider(ctrl)
	backend.EXPECT().Key(uint64(7)).Return(key, true).Times(1)

	cached := NewLRUProvider(backend, 8)

	for i := 0; i < 3; i++ {
		got, ok := cached.Key(7)
		require.True(t, ok)
		require.Equal(t, key, got)
	}
}

func TestLRUProviderPropagatesBackendMiss(t *testing.T) {
	ctrl := gomock.NewController(t)

	backend := NewMockProvider(ctrl)
	backend.EXPECT().Key(uint64(9)).Return([16]byte{}, false).Times(2)

	cached := NewLRUProvider(backend, 8)

	_, ok := cached.Key(9)
	require.False(t, ok, "a miss from the backend must not be cached as a hit")

	_, ok = cached.Key(9)
	require.False(t, ok, "an uncached miss must re-query the backend")
}
