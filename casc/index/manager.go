package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ngdp-go/casc/casc/archive"
	"github.com/ngdp-go/casc/casc/kmt"
	"github.com/ngdp-go/casc/errdefs"
	"github.com/ngdp-go/casc/hofp"
	"github.com/ngdp-go/casc/key"
	"github.com/ngdp-go/casc/lru"
)

// CacheCapacity is the default size of the Manager's EKey -> Location hot-entry cache.
const CacheCapacity = 4096

// Manager owns all 16 '.idx' buckets for a CASC installation, plus a cache of recently resolved locations. Bucket
// files load in parallel; lookups and insertions take the relevant bucket's own lock, so activity on different
// buckets never contends. An optional key-mapping-table overlay, when attached, absorbs mutations and is probed
// ahead of the buckets on lookup.
type Manager struct {
	Dir     string
	Widths  FieldWidths
	buckets [key.NumBuckets]*Bucket
	overlay *kmt.Table

	cacheMu sync.Mutex
	cache   *lru.Cache[string, archive.Location] // keyed on EKey.String(): [16]byte arrays aren't constraints.Ordered
}

// bucketFileName returns the canonical name of a bucket's '.idx' file: its bucket id as three zero-padded hex
// digits ('000.idx' through '00f.idx').
func bucketFileName(id uint8) string {
	return fmt.Sprintf("%03x.idx", id)
}

// Open loads (or initializes empty) all 16 bucket files from dir, in parallel via a hofp.Pool.
func Open(dir string, widths FieldWidths) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return nil, err
	}

	m := &Manager{
		Dir:    dir,
		Widths: widths,
		cache:  lru.New[string, archive.Location](CacheCapacity),
	}

	pool := hofp.NewPool(hofp.Options{Size: key.NumBuckets, LogPrefix: "(index)"})

	for id := uint8(0); id < key.NumBuckets; id++ {
		id := id

		err := pool.Queue(func(_ context.Context) error {
			b, err := loadBucket(dir, id)
			if err != nil {
				return err
			}

			m.buckets[id] = b

			return nil
		})
		if err != nil {
			pool.Stop() //nolint:errcheck

			return nil, err
		}
	}

	if err := pool.Stop(); err != nil {
		return nil, err
	}

	return m, nil
}

func loadBucket(dir string, id uint8) (*Bucket, error) {
	path := filepath.Join(dir, bucketFileName(id))

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewBucket(id), nil
	}

	if err != nil {
		return nil, err
	}

	return DecodeBucket(data)
}

// AttachOverlay installs a key-mapping-table overlay. From here on, lookups probe the overlay before the bucket
// files (a hit there supersedes the '.idx' entry) and insertions are mirrored into it.
func (m *Manager) AttachOverlay(t *kmt.Table) {
	m.overlay = t
}

// Lookup resolves ekey to its archive Location, consulting the cache first, then the overlay (when attached), then
// ekey's bucket. A Location with Size zero is a removal tombstone and reported as a miss.
func (m *Manager) Lookup(ekey key.EKey) (archive.Location, bool) {
	m.cacheMu.Lock()
	if loc, ok := m.cache.Get(ekey.String()); ok {
		m.cacheMu.Unlock()
		return loc, true
	}
	m.cacheMu.Unlock()

	b := m.buckets[ekey.Bucket()]

	loc, ok := m.locate(b, ekey)
	if !ok {
		return archive.Location{}, false
	}

	m.cacheMu.Lock()
	m.cache.Set(ekey.String(), loc)
	m.cacheMu.Unlock()

	return loc, true
}

// locate resolves ekey without touching the cache. On an overlay hit the overlay's archive/offset wins, but the
// record size still comes from the '.idx' entry when one exists: KMT entries don't carry a size, so an
// overlay-only hit yields Size zero and the caller discovers the record length from its local header.
func (m *Manager) locate(b *Bucket, ekey key.EKey) (archive.Location, bool) {
	idxLoc, idxFound := b.Lookup(ekey.Truncate())
	tombstoned := idxFound && idxLoc.Size == 0

	if m.overlay != nil {
		if e, ok := m.overlay.Lookup(kmt.Hash64(ekey[:], 0)); ok && !tombstoned {
			loc := archive.Location{ArchiveID: uint16(e.SegmentID), Offset: uint64(e.Offset())}
			if idxFound {
				loc.Size = idxLoc.Size
			}

			return loc, true
		}
	}

	if !idxFound || tombstoned {
		return archive.Location{}, false
	}

	return idxLoc, true
}

// LookupBatch groups the given keys by bucket and resolves each in turn, returning a map of the keys that were
// found.
func (m *Manager) LookupBatch(ekeys []key.EKey) map[key.EKey]archive.Location {
	byBucket := make(map[uint8][]key.EKey, key.NumBuckets)
	for _, ek := range ekeys {
		byBucket[ek.Bucket()] = append(byBucket[ek.Bucket()], ek)
	}

	out := make(map[key.EKey]archive.Location, len(ekeys))

	for _, group := range byBucket {
		for _, ek := range group {
			if loc, ok := m.Lookup(ek); ok {
				out[ek] = loc
			}
		}
	}

	return out
}

// Insert records ekey -> loc in its bucket's update page and invalidates any cached entry for ekey, so the cache
// stays coherent with bucket writes.
func (m *Manager) Insert(ekey key.EKey, loc archive.Location) {
	b := m.buckets[ekey.Bucket()]

	pending := b.Insert(Entry{Key: ekey.Truncate(), Location: loc})

	// Mirror real insertions into the overlay. Tombstones (Size zero) stay out of it: the overlay has no way to
	// express absence, so removal is detected from the '.idx' entry. Offsets past 30 bits can't be packed into a
	// KMT entry and simply stay '.idx'-only.
	if m.overlay != nil && loc.Size != 0 && loc.Offset <= offsetMax {
		m.overlay.Insert(kmt.NewEntry(uint32(loc.Offset), 0, uint32(loc.ArchiveID), kmt.Hash64(ekey[:], 0)))
	}

	m.cacheMu.Lock()
	m.cache.Delete(ekey.String())
	m.cacheMu.Unlock()

	if pending >= UpdatePageThreshold {
		b.Compact()
	}
}

// offsetMax is the largest segment offset a KMT entry's 30-bit packed offset can address.
const offsetMax = 1<<30 - 1

// Remove records a removal tombstone for ekey and invalidates any cached entry, so subsequent lookups miss.
func (m *Manager) Remove(ekey key.EKey) {
	b := m.buckets[ekey.Bucket()]

	b.Insert(Entry{Key: ekey.Truncate()})

	m.cacheMu.Lock()
	m.cache.Delete(ekey.String())
	m.cacheMu.Unlock()
}

// Flush writes every bucket's current state back to its '.idx' file. All 16 buckets are attempted regardless of
// individual failures, which are aggregated into one error.
func (m *Manager) Flush() error {
	errs := &errdefs.MultiError{Prefix: "index: failed to flush one or more buckets: "}

	for id := uint8(0); id < key.NumBuckets; id++ {
		data := EncodeBucket(m.buckets[id], m.Widths)

		path := filepath.Join(m.Dir, bucketFileName(id))
		if err := os.WriteFile(path, data, 0o660); err != nil {
			errs.Add(fmt.Errorf("bucket %02x: %w", id, err))
		}
	}

	return errs.ErrOrNil()
}

// Bucket returns the bucket for the given id (0-15), for callers (e.g. casc/kmt, casc/container) that need direct
// access.
func (m *Manager) Bucket(id uint8) *Bucket {
	return m.buckets[id]
}
