package kmt

import (
	"encoding/binary"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// PageSize is the fixed size, in bytes, of a KMT update page.
const PageSize = 1024

// PageCapacity is the maximum number of entries a single update page may hold.
const PageCapacity = 25

// MinSectionSize is the minimum update-section size maintained to keep amortised append O(1).
const MinSectionSize = 30 * 1024

// Table is a key-mapping table overlay: a sorted section searched by binary search on the high 64 bits of the
// hashed key, plus an update section of fixed-capacity pages appended to in order. A hit here supersedes any '.idx'
// entry for the same key.
type Table struct {
	mu     sync.RWMutex
	sorted []Entry
	pages  [][]Entry

	// seen maps an xxhash digest of an entry's KeyHash to its current page/slot, letting Insert overwrite a
	// still-pending entry in place instead of piling up stale duplicates across pages ahead of the next Compact.
	seen map[uint64]pagePos
}

// pagePos locates an entry within the update section's pages.
type pagePos struct {
	page, index int
}

// New returns an empty Table.
func New() *Table {
	return &Table{}
}

// xxhashKeyHash returns a fast, non-cryptographic digest of a KeyHash for use as the seen-set's key, so repeated
// inserts of the same Jenkins-lookup3 key hash resolve to one slot without re-walking every pending page.
func xxhashKeyHash(keyHash uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], keyHash)

	return xxhash.Sum64(buf[:])
}

// Lookup searches the sorted section, then every update page (most recent first), for keyHash.
func (t *Table) Lookup(keyHash uint64) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := sort.Search(len(t.sorted), func(i int) bool { return t.sorted[i].KeyHash >= keyHash })
	if n < len(t.sorted) && t.sorted[n].KeyHash == keyHash {
		return t.sorted[n], true
	}

	for i := len(t.pages) - 1; i >= 0; i-- {
		for j := len(t.pages[i]) - 1; j >= 0; j-- {
			if t.pages[i][j].KeyHash == keyHash {
				return t.pages[i][j], true
			}
		}
	}

	return Entry{}, false
}

// Insert appends e to the current update page, starting a new one once the current page reaches PageCapacity. If
// e's KeyHash already has a pending entry in any update page (the current one included), that entry is overwritten
// in place instead.
func (t *Table) Insert(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	digest := xxhashKeyHash(e.KeyHash)

	if pos, ok := t.seen[digest]; ok {
		t.pages[pos.page][pos.index] = e
		return
	}

	if len(t.pages) == 0 || len(t.pages[len(t.pages)-1]) >= PageCapacity {
		t.pages = append(t.pages, nil)
	}

	last := len(t.pages) - 1
	t.pages[last] = append(t.pages[last], e)

	if t.seen == nil {
		t.seen = make(map[uint64]pagePos)
	}

	t.seen[digest] = pagePos{page: last, index: len(t.pages[last]) - 1}
}

// Compact merges the sorted section and every update page into a single new sorted section (later entries for the
// same hash shadow earlier ones), discarding the update pages. The merge's dedup set is keyed by an xxhash digest
// of KeyHash rather than KeyHash itself, the same fast in-memory digest Insert uses for its seen-set.
func (t *Table) Compact() {
	t.mu.Lock()
	defer t.mu.Unlock()

	merged := make(map[uint64]Entry, len(t.sorted))

	for _, e := range t.sorted {
		merged[xxhashKeyHash(e.KeyHash)] = e
	}

	for _, page := range t.pages {
		for _, e := range page {
			merged[xxhashKeyHash(e.KeyHash)] = e
		}
	}

	sorted := make([]Entry, 0, len(merged))
	for _, e := range merged {
		sorted = append(sorted, e)
	}

	sort.Slice(sorted, func(i, j int) bool { return sorted[i].KeyHash < sorted[j].KeyHash })

	t.sorted = sorted
	t.pages = nil
	t.seen = nil
}

// PendingEntries reports how many entries are queued across all update pages, for callers deciding when to compact.
func (t *Table) PendingEntries() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for _, p := range t.pages {
		n += len(p)
	}

	return n
}

// Encode serializes the table's sorted section and update pages, each page zero-padded up to PageSize bytes and the
// whole update section padded up to MinSectionSize.
func (t *Table) Encode() []byte {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]byte, 0, len(t.sorted)*EntrySize)

	for _, e := range t.sorted {
		out = append(out, e.Encode()...)
	}

	pagesBuf := make([]byte, 0, len(t.pages)*PageSize)

	for _, page := range t.pages {
		buf := make([]byte, PageSize)

		off := 0
		for _, e := range page {
			copy(buf[off:], e.Encode())
			off += EntrySize
		}

		pagesBuf = append(pagesBuf, buf...)
	}

	for len(pagesBuf) < MinSectionSize {
		pagesBuf = append(pagesBuf, make([]byte, PageSize)...)
	}

	return append(out, pagesBuf...)
}
