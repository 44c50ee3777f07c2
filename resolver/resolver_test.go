package resolver

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ngdp-go/casc/casc/container"
	"github.com/ngdp-go/casc/key"
)

// fakeSource is a minimal Source used to drive the resolver without a real container.
type fakeSource struct {
	mu    sync.Mutex
	reads int32
	fn    func(calls int32) ([]byte, error)
}

func (f *fakeSource) Read(_ context.Context, _ key.EKey) ([]byte, error) {
	calls := atomic.AddInt32(&f.reads, 1)
	return f.fn(calls)
}

func testKey(b byte) key.EKey {
	var ekey key.EKey
	ekey[0] = b

	return ekey
}

func TestResolverReadHit(t *testing.T) {
	src := &fakeSource{fn: func(int32) ([]byte, error) { return []byte("payload"), nil }}

	r := New([]Source{src}, Options{})

	data, err := r.Read(context.Background(), testKey(0x1))
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), data)
	require.EqualValues(t, 1, src.reads)
}

func TestResolverCachesResult(t *testing.T) {
	src := &fakeSource{fn: func(int32) ([]byte, error) { return []byte("payload"), nil }}

	r := New([]Source{src}, Options{})
	ctx := context.Background()
	ekey := testKey(0x2)

	_, err := r.Read(ctx, ekey)
	require.NoError(t, err)

	_, err = r.Read(ctx, ekey)
	require.NoError(t, err)

	require.EqualValues(t, 1, src.reads, "second Read should be served from cache without touching the source")
}

func TestResolverFallsThroughNotFound(t *testing.T) {
	ekey := testKey(0x3)

	missing := &fakeSource{fn: func(int32) ([]byte, error) { return nil, &container.NotFoundError{Key: ekey} }}
	hit := &fakeSource{fn: func(int32) ([]byte, error) { return []byte("from second source"), nil }}

	r := New([]Source{missing, hit}, Options{})

	data, err := r.Read(context.Background(), ekey)
	require.NoError(t, err)
	require.Equal(t, []byte("from second source"), data)
}

func TestResolverNotFoundFromAllSources(t *testing.T) {
	ekey := testKey(0x4)

	missing := &fakeSource{fn: func(int32) ([]byte, error) { return nil, &container.NotFoundError{Key: ekey} }}

	r := New([]Source{missing, missing}, Options{})

	_, err := r.Read(context.Background(), ekey)
	require.Error(t, err)

	var notFound *container.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestResolverRetriesContainerLocked(t *testing.T) {
	src := &fakeSource{fn: func(calls int32) ([]byte, error) {
		if calls < 3 {
			return nil, &container.ContainerLockedError{Path: "archive"}
		}

		return []byte("eventually"), nil
	}}

	r := New([]Source{src}, Options{Retries: 5, RetryWait: time.Millisecond})

	data, err := r.Read(context.Background(), testKey(0x5))
	require.NoError(t, err)
	require.Equal(t, []byte("eventually"), data)
}

func TestResolverDoesNotRetryDecodeFailure(t *testing.T) {
	src := &fakeSource{fn: func(int32) ([]byte, error) {
		return nil, &container.InvalidFormatError{Reason: "bad chunk checksum"}
	}}

	r := New([]Source{src}, Options{Retries: 5, RetryWait: time.Millisecond})

	_, err := r.Read(context.Background(), testKey(0x6))
	require.Error(t, err)

	var invalid *container.InvalidFormatError
	require.ErrorAs(t, err, &invalid)
	require.EqualValues(t, 1, src.reads, "a non-recoverable error must not be retried")
}

func TestResolverDecodeFailureNotCached(t *testing.T) {
	ekey := testKey(0x7)

	src := &fakeSource{fn: func(int32) ([]byte, error) {
		return nil, &container.InvalidFormatError{Reason: "bad chunk checksum"}
	}}

	r := New([]Source{src}, Options{})
	ctx := context.Background()

	_, err := r.Read(ctx, ekey)
	require.Error(t, err)

	_, err = r.Read(ctx, ekey)
	require.Error(t, err)

	require.EqualValues(t, 2, src.reads, "a failed decode must not be cached; each Read retries against the source")
}

func TestResolverSingleFlightDeduplicatesConcurrentReads(t *testing.T) {
	release := make(chan struct{})

	src := &fakeSource{fn: func(calls int32) ([]byte, error) {
		<-release
		return []byte("payload"), nil
	}}

	r := New([]Source{src}, Options{})
	ctx := context.Background()
	ekey := testKey(0x8)

	const waiters = 8

	results := make(chan []byte, waiters)

	var wg sync.WaitGroup

	for i := 0; i < waiters; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			data, err := r.Read(ctx, ekey)
			require.NoError(t, err)

			results <- data
		}()
	}

	// Give every goroutine a chance to join the in-flight call before it completes.
	time.Sleep(20 * time.Millisecond)
	close(release)

	wg.Wait()
	close(results)

	for data := range results {
		require.Equal(t, []byte("payload"), data)
	}

	require.EqualValues(t, 1, src.reads, "concurrent reads of the same key must share a single decode")
}

func TestResolverBatch(t *testing.T) {
	src := &fakeSource{fn: func(int32) ([]byte, error) { return []byte("ok"), nil }}

	r := New([]Source{src}, Options{})

	keys := []key.EKey{testKey(0x9), testKey(0xa), testKey(0xb)}

	results, errs := r.Batch(context.Background(), keys)
	for i := range keys {
		require.NoError(t, errs[i])
		require.Equal(t, []byte("ok"), results[i])
	}
}

func TestResolverUncached(t *testing.T) {
	src := &fakeSource{fn: func(int32) ([]byte, error) { return []byte("ok"), nil }}

	r := New([]Source{src}, Options{})
	ctx := context.Background()

	hit, miss := testKey(0x20), testKey(0x21)

	_, err := r.Read(ctx, hit)
	require.NoError(t, err)

	require.Equal(t, []key.EKey{miss}, r.Uncached([]key.EKey{hit, miss}))
}
