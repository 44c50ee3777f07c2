// Package keystore implements the pluggable lookup of BLTE encryption keys by their 64-bit key ID.
//
// The BLTE codec calls a keystore.Provider synchronously during chunk decode. A process-wide default is available for
// ergonomics, but it is never consulted implicitly; callers must thread a Provider through explicitly, per the
// "Global state" design note.
package keystore

import (
	"sync"

	"github.com/ngdp-go/casc/functional/slices"
	"github.com/ngdp-go/casc/lru"
	"github.com/ngdp-go/casc/maputil"
)

//go:generate go run github.com/golang/mock/mockgen -source keystore.go -destination mock_provider.go -package keystore

// Provider looks up the 16-byte encryption key for the given 64-bit key ID.
type Provider interface {
	Key(id uint64) ([16]byte, bool)
}

// StaticProvider is a Provider backed by a fixed map, grounded on aprov.Static's "always return the same thing"
// shape.
type StaticProvider struct {
	keys map[uint64][16]byte
}

// NewStaticProvider returns a StaticProvider seeded with the given keys.
func NewStaticProvider(keys map[uint64][16]byte) *StaticProvider {
	copied := make(map[uint64][16]byte, len(keys))
	for k, v := range keys {
		copied[k] = v
	}

	return &StaticProvider{keys: copied}
}

// Key implements Provider.
func (s *StaticProvider) Key(id uint64) ([16]byte, bool) {
	k, ok := s.keys[id]
	return k, ok
}

// Add installs (or overwrites) a key in the store.
func (s *StaticProvider) Add(id uint64, key [16]byte) {
	s.keys[id] = key
}

// Missing returns the subset of ids not currently present in the store, in their original order. A caller that
// just parsed a manifest's encrypted-chunk key IDs can use this to know which MissingKeyError(id) failures
// it should expect before ever decoding a byte.
func (s *StaticProvider) Missing(ids []uint64) []uint64 {
	return slices.Difference(ids, maputil.Keys(s.keys))
}

// LRUProvider wraps a slower backend Provider with a bounded in-memory cache.
type LRUProvider struct {
	backend Provider
	cache   *lru.Cache[uint64, [16]byte]
}

// NewLRUProvider returns a Provider which caches up to capacity keys from backend.
func NewLRUProvider(backend Provider, capacity uint) *LRUProvider {
	return &LRUProvider{backend: backend, cache: lru.New[uint64, [16]byte](capacity)}
}

// Key implements Provider.
func (l *LRUProvider) Key(id uint64) ([16]byte, bool) {
	if k, ok := l.cache.Get(id); ok {
		return k, true
	}

	k, ok := l.backend.Key(id)
	if ok {
		l.cache.Set(id, k)
	}

	return k, ok
}

var (
	defaultMu       sync.RWMutex
	defaultProvider Provider
)

// SetDefault installs the process-wide default Provider. This exists purely for ergonomics (e.g. CLI tools that
// only ever use one keystore); library code should always accept a Provider parameter explicitly rather than
// calling Default().
func SetDefault(p Provider) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultProvider = p
}

// Default returns the process-wide default Provider, or nil if none has been installed.
func Default() Provider {
	defaultMu.RLock()
	defer defaultMu.RUnlock()

	return defaultProvider
}
