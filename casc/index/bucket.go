package index

import (
	"sort"
	"sync"

	"github.com/ngdp-go/casc/casc/archive"
	"github.com/ngdp-go/casc/key"
)

// UpdatePageThreshold is the number of update pages a bucket tolerates before Manager.Compact is expected to be
// called.
const UpdatePageThreshold = 4

// Bucket is one of the 16 EKey-space partitions. It holds a monotonically sorted section plus
// zero or more tail-appended update pages, guarded by its own RWMutex so lookups/insertions in different buckets
// never contend.
type Bucket struct {
	ID uint8

	mu     sync.RWMutex
	sorted []Entry
	pages  [][]Entry
}

// NewBucket returns an empty Bucket for the given bucket id.
func NewBucket(id uint8) *Bucket {
	return &Bucket{ID: id}
}

// Lookup searches the sorted section first (binary search) and, on miss, linearly scans the update pages newest
// first.
func (b *Bucket) Lookup(k key.Truncated) (archive.Location, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if loc, ok := searchSorted(b.sorted, k); ok {
		return loc, true
	}

	for i := len(b.pages) - 1; i >= 0; i-- {
		for j := len(b.pages[i]) - 1; j >= 0; j-- {
			if b.pages[i][j].Key == k {
				return b.pages[i][j].Location, true
			}
		}
	}

	return archive.Location{}, false
}

func searchSorted(sorted []Entry, k key.Truncated) (archive.Location, bool) {
	n := sort.Search(len(sorted), func(i int) bool {
		return !sorted[i].Key.Less(k)
	})

	if n < len(sorted) && sorted[n].Key == k {
		return sorted[n].Location, true
	}

	return archive.Location{}, false
}

// Insert appends an entry to the current (last) update page, starting a new page if none exists yet. It reports
// the number of update pages now pending, so callers can decide whether to Compact.
func (b *Bucket) Insert(e Entry) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.pages) == 0 {
		b.pages = append(b.pages, nil)
	}

	last := len(b.pages) - 1
	b.pages[last] = append(b.pages[last], e)

	return len(b.pages)
}

// RollPage closes off the current update page so the next Insert starts a fresh one. Exposed so callers can bound
// page size independently of the compaction threshold.
func (b *Bucket) RollPage() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pages = append(b.pages, nil)
}

// Compact merges the sorted section with all pending update pages into a single new sorted section, discarding the
// update pages. Later entries for the same key shadow earlier ones (insertion order, sorted last).
func (b *Bucket) Compact() {
	b.mu.Lock()
	defer b.mu.Unlock()

	merged := make(map[key.Truncated]archive.Location, len(b.sorted))

	for _, e := range b.sorted {
		merged[e.Key] = e.Location
	}

	for _, page := range b.pages {
		for _, e := range page {
			merged[e.Key] = e.Location
		}
	}

	sorted := make([]Entry, 0, len(merged))
	for k, loc := range merged {
		sorted = append(sorted, Entry{Key: k, Location: loc})
	}

	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key.Less(sorted[j].Key) })

	b.sorted = sorted
	b.pages = nil
}

// PendingPages reports how many update pages are currently pending compaction.
func (b *Bucket) PendingPages() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.pages)
}

// Sorted returns a copy of the current sorted section, for tests and diagnostics.
func (b *Bucket) Sorted() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Entry, len(b.sorted))
	copy(out, b.sorted)

	return out
}

// Pending returns a copy of every entry still queued in an uncompacted update page, newest page last. Later entries
// for the same key shadow earlier ones once Compact runs, but Pending reports them all as currently held.
func (b *Bucket) Pending() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []Entry

	for _, page := range b.pages {
		out = append(out, page...)
	}

	return out
}
