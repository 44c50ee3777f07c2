// Package ngdpcache implements a local on-disk cache for the bytes fetched by the Ribbit, TACT, and CDN clients:
// each response is written once, keyed by a namespace ("ribbit", "tact", "cdn-config",...) and a
// content key (usually a hash), and later lookups read straight from disk without re-dispatching the network
// request. Writes go through fsutil.Atomic's stage-then-rename, so a crash mid-write never leaves a partial/corrupt
// cache entry visible to a reader.
package ngdpcache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ngdp-go/casc/fsutil"
)

// Cache is a namespaced, content-addressed on-disk byte cache.
type Cache struct {
	root string
}

// Open returns a Cache rooted at dir, creating it if it does not already exist.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ngdpcache: create root %q: %w", dir, err)
	}

	return &Cache{root: dir}, nil
}

// path returns the on-disk path for (namespace, key), hex-safe namespace/key pairs given by callers (Ribbit/TACT
// document hashes, CDN archive/index hashes).
func (c *Cache) path(namespace, key string) string {
	return filepath.Join(c.root, namespace, key)
}

// Has reports whether (namespace, key) is already cached.
func (c *Cache) Has(namespace, key string) bool {
	_, err := os.Stat(c.path(namespace, key))
	return err == nil
}

// Get returns the cached bytes for (namespace, key), or ok=false if absent.
func (c *Cache) Get(namespace, key string) (data []byte, ok bool, err error) {
	data, err = os.ReadFile(c.path(namespace, key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("ngdpcache: read %s/%s: %w", namespace, key, err)
	}

	return data, true, nil
}

// Put stores data under (namespace, key), replacing any existing entry atomically.
func (c *Cache) Put(namespace, key string, data []byte) error {
	path := c.path(namespace, key)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ngdpcache: create namespace dir: %w", err)
	}

	err := fsutil.Atomic(path, func(temp string) error {
		return os.WriteFile(temp, data, 0o644)
	})
	if err != nil {
		return fmt.Errorf("ngdpcache: write %s/%s: %w", namespace, key, err)
	}

	return nil
}

// GetOrFetch returns the cached bytes for (namespace, key), calling fetch and caching the result on a miss.
func (c *Cache) GetOrFetch(namespace, key string, fetch func() ([]byte, error)) ([]byte, error) {
	if data, ok, err := c.Get(namespace, key); err != nil {
		return nil, err
	} else if ok {
		return data, nil
	}

	data, err := fetch()
	if err != nil {
		return nil, err
	}

	if err := c.Put(namespace, key, data); err != nil {
		return nil, err
	}

	return data, nil
}

// Remove evicts (namespace, key) from the cache. Absence is not an error.
func (c *Cache) Remove(namespace, key string) error {
	err := os.Remove(c.path(namespace, key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ngdpcache: remove %s/%s: %w", namespace, key, err)
	}

	return nil
}

// Copy streams the cached bytes for (namespace, key) to w without loading the whole entry into memory.
func (c *Cache) Copy(w io.Writer, namespace, key string) (int64, error) {
	f, err := os.Open(c.path(namespace, key))
	if err != nil {
		return 0, fmt.Errorf("ngdpcache: open %s/%s: %w", namespace, key, err)
	}
	defer f.Close()

	return io.Copy(w, f)
}
