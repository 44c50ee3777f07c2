// Package resolver implements the end-to-end encoding-key read pipeline: a byte-buffer cache
// keyed by EKey, single-flight de-duplication so concurrent requests for the same key share one decode, an ordered
// probe across a container/loose-file fallback chain, and bounded retry for the recoverable error kinds
// (ContainerLocked, Timeout).
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ngdp-go/casc/casc/container"
	"github.com/ngdp-go/casc/core/log"
	"github.com/ngdp-go/casc/functional/slices"
	"github.com/ngdp-go/casc/hofp"
	"github.com/ngdp-go/casc/key"
	"github.com/ngdp-go/casc/lru"
	"github.com/ngdp-go/casc/retry"
)

// DefaultCacheCapacity is the default number of decoded buffers held in the resolver's cache.
const DefaultCacheCapacity = 1024

// DefaultRetries is the number of times a ContainerLocked/Timeout failure is retried before giving up.
const DefaultRetries = 3

// DefaultRetryWait is the base backoff between retries of a recoverable failure.
const DefaultRetryWait = 50 * time.Millisecond

// Source is the subset of the container.Container contract the resolver needs from each probed backend: a plain
// EKey -> bytes read. casc/container.Dynamic, casc/container.Static, and an adapter over casc/loose.Store all
// satisfy this.
type Source interface {
	Read(ctx context.Context, ekey key.EKey) ([]byte, error)
}

// Options configures a Resolver.
type Options struct {
	// CacheCapacity is the number of decoded buffers to retain. Defaults to DefaultCacheCapacity.
	CacheCapacity uint

	// Retries is the number of attempts made for a recoverable (ContainerLocked/Timeout) failure. Defaults to
	// DefaultRetries.
	Retries int

	// RetryWait is the base backoff duration between retries. Defaults to DefaultRetryWait.
	RetryWait time.Duration

	// Logger receives diagnostic messages about retries and decode failures.
	Logger log.Logger
}

func (o *Options) defaults() {
	if o.CacheCapacity == 0 {
		o.CacheCapacity = DefaultCacheCapacity
	}

	if o.Retries == 0 {
		o.Retries = DefaultRetries
	}

	if o.RetryWait == 0 {
		o.RetryWait = DefaultRetryWait
	}
}

// call is the in-flight state for a single EKey's single-flight resolution: waiters block on done, the first caller
// to register the call performs the work and populates data/err before closing done (syncutil.InitBarrier's
// channel-as-gate shape, specialised per key instead of process-wide).
type call struct {
	done chan struct{}
	data []byte
	err  error
}

// Resolver implements the read side of the pipeline: cache probe, single-flight decode, ordered source fallback,
// and bounded retry of recoverable errors.
type Resolver struct {
	sources []Source
	opts    Options
	logger  log.WrappedLogger

	cacheMu sync.Mutex
	cache   *lru.Cache[string, []byte]

	flightMu sync.Mutex
	flight   map[key.EKey]*call
}

// New returns a Resolver that probes sources in order (e.g. the installation's Dynamic container, then a Static
// archive, then a loose-file fallback) for each requested key.
func New(sources []Source, opts Options) *Resolver {
	opts.defaults()

	return &Resolver{
		sources: sources,
		opts:    opts,
		logger:  log.NewWrappedLogger(opts.Logger),
		cache:   lru.New[string, []byte](opts.CacheCapacity),
		flight:  make(map[key.EKey]*call),
	}
}

// Read resolves ekey to its decoded bytes, consulting the cache first, then de-duplicating concurrent requests for
// the same key, then
// probing each source in order with bounded retry of recoverable failures.
//
// The returned slice is shared across callers that hit the cache; callers must not mutate it.
func (r *Resolver) Read(ctx context.Context, ekey key.EKey) ([]byte, error) {
	if data, ok := r.fromCache(ekey); ok {
		return data, nil
	}

	c, owner := r.joinFlight(ekey)
	if !owner {
		return r.awaitFlight(ctx, c)
	}

	data, err := r.resolve(ctx, ekey)

	c.data, c.err = data, err
	close(c.done)

	r.leaveFlight(ekey)

	if err != nil {
		return nil, err
	}

	r.toCache(ekey, data)

	return data, nil
}

// fromCache returns the cached buffer for ekey, if any.
func (r *Resolver) fromCache(ekey key.EKey) ([]byte, bool) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	return r.cache.Get(ekey.String())
}

// toCache installs data as the cached buffer for ekey. Insertions are last-writer-wins; single-flight makes that
// writer unique.
func (r *Resolver) toCache(ekey key.EKey, data []byte) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	r.cache.Set(ekey.String(), data)
}

// joinFlight registers the calling goroutine as either the owner (first in) or a waiter for ekey's in-flight
// resolution.
func (r *Resolver) joinFlight(ekey key.EKey) (*call, bool) {
	r.flightMu.Lock()
	defer r.flightMu.Unlock()

	if existing, ok := r.flight[ekey]; ok {
		return existing, false
	}

	c := &call{done: make(chan struct{})}
	r.flight[ekey] = c

	return c, true
}

// leaveFlight removes ekey's completed call from the in-flight table.
func (r *Resolver) leaveFlight(ekey key.EKey) {
	r.flightMu.Lock()
	defer r.flightMu.Unlock()

	delete(r.flight, ekey)
}

// awaitFlight blocks until c's owner completes, or ctx is cancelled first. Dropping a pending Read (ctx cancelled)
// never disturbs the owner's resolution or the cache.
func (r *Resolver) awaitFlight(ctx context.Context, c *call) ([]byte, error) {
	select {
	case <-c.done:
		return c.data, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// resolve probes each source in order, applying bounded retry to recoverable failures, and returns the first hit.
func (r *Resolver) resolve(ctx context.Context, ekey key.EKey) ([]byte, error) {
	var lastErr error

	for _, src := range r.sources {
		data, err := r.resolveFromSource(ctx, src, ekey)
		if err == nil {
			return data, nil
		}

		var notFound *container.NotFoundError
		if errors.As(err, &notFound) {
			lastErr = err
			continue
		}

		// A non-NotFound failure from a source is terminal for this Read: decode failures and access errors are
		// surfaced once and never retried against a different source.
		return nil, err
	}

	if lastErr == nil {
		lastErr = &container.NotFoundError{Key: ekey}
	}

	return nil, lastErr
}

// resolveFromSource reads ekey from src, retrying a bounded number of times if the failure is ContainerLocked or a
// Timeout.
// Every other failure, including NotFound, is returned from the first attempt without entering the retry loop.
func (r *Resolver) resolveFromSource(ctx context.Context, src Source, ekey key.EKey) ([]byte, error) {
	data, err := src.Read(ctx, ekey)
	if err == nil || !isRetryable(err) {
		return data, err
	}

	r.logger.Warnf("(resolver) retrying read of %s after recoverable error: %v", ekey, err)

	retryErr := retry.ExponentialWithContext(ctx, r.opts.Retries, r.opts.RetryWait, func() error {
		var attemptErr error

		data, attemptErr = src.Read(ctx, ekey)

		return attemptErr
	}, nil)

	if retryErr == nil {
		return data, nil
	}

	var exhausted retry.RetriesExhaustedError
	if errors.As(retryErr, &exhausted) {
		return nil, fmt.Errorf("resolver: exhausted retries reading %s: %w", ekey, exhausted.Unwrap())
	}

	return nil, retryErr
}

// isRetryable reports whether err is one of the recoverable kinds the resolver may retry.
func isRetryable(err error) bool {
	var locked *container.ContainerLockedError
	if errors.As(err, &locked) {
		return true
	}

	return errors.Is(err, container.ErrTimeout)
}

// Uncached returns the subset of keys not currently present in the resolver's cache, preserving keys' order and
// dropping duplicates. Callers building a batch download plan can use this to size a fetch without paying for keys
// a previous Read already decoded.
func (r *Resolver) Uncached(keys []key.EKey) []key.EKey {
	cached := make([]key.EKey, 0, len(keys))

	for _, k := range keys {
		if _, ok := r.fromCache(k); ok {
			cached = append(cached, k)
		}
	}

	return slices.Difference(keys, cached)
}

// Batch resolves many keys concurrently, fanning out over a worker pool sized to the batch. The returned slice is
// in the same order as keys; a failed key's error is reported alongside a nil buffer rather than aborting the
// whole batch.
func (r *Resolver) Batch(ctx context.Context, keys []key.EKey) ([][]byte, []error) {
	results := make([][]byte, len(keys))
	errs := make([]error, len(keys))

	pool := hofp.NewPool(hofp.Options{Context: ctx, Size: len(keys), LogPrefix: "(resolver)"})

	for i, k := range keys {
		i, k := i, k

		_ = pool.Queue(func(ctx context.Context) error {
			results[i], errs[i] = r.Read(ctx, k)
			return nil
		})
	}

	_ = pool.Stop()

	return results, errs
}
