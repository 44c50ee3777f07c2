package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ngdp-go/casc/ringbuf"
)

// DefaultMaxOpenSegments bounds the number of read-only Segments (each backed by a memory-mapped file) a Manager
// keeps open at once. An installation can accumulate thousands of 'data.NNN' segments over time; leaving all of them
// mapped would exhaust the process's address space and file descriptor limit long before any single read does.
const DefaultMaxOpenSegments = 64

// Manager owns the set of 'data.NNN' segments under a single directory: the one active write segment (if the
// directory is writable) and a pool of lazily opened read-only Segments for completed ones. All writes are
// serialized through a single mutex, so offsets handed back to writers are totally ordered and monotonic.
type Manager struct {
	Dir             string
	Cap             uint64
	Alignment       int
	MaxOpenSegments int

	mu       sync.Mutex
	segments map[uint16]*Segment
	open     ringbuf.Ringbuf[uint16]
	writer   *Writer
	writerID uint16
	nextID   uint16
}

// Open scans dir for existing 'data.NNN' segments and prepares a Manager. If cap is zero, DefaultCap is used. The
// directory is created if it does not already exist.
func Open(dir string, cap uint64) (*Manager, error) {
	if cap == 0 {
		cap = DefaultCap
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var ids []uint16

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		if id, ok := idFromName(e.Name()); ok {
			ids = append(ids, id)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	m := &Manager{
		Dir:             dir,
		Cap:             cap,
		MaxOpenSegments: DefaultMaxOpenSegments,
		segments:        make(map[uint16]*Segment),
		open:            ringbuf.NewRingbuf[uint16](DefaultMaxOpenSegments),
	}

	if len(ids) == 0 {
		m.nextID = 0
		return m, nil
	}

	m.nextID = ids[len(ids)-1] + 1

	return m, nil
}

func (m *Manager) path(id uint16) string {
	return filepath.Join(m.Dir, Name(id))
}

// ensureWriter lazily opens (or rolls to) the active write segment. Caller must hold m.mu.
func (m *Manager) ensureWriter(recordLen int) error {
	if m.writer != nil && m.writer.Size()+uint64(recordLen) <= m.Cap {
		return nil
	}

	if m.writer != nil {
		m.writer.Seal()

		if err := m.writer.Close(); err != nil {
			return err
		}
	}

	id := m.nextID
	m.nextID++

	writer, err := OpenWriter(id, m.path(id), m.Alignment)
	if err != nil {
		return err
	}

	m.writer = writer
	m.writerID = id

	return nil
}

// Append writes record to the active segment, rolling to a fresh segment first if it would not fit under Cap
//. It returns the Location the record now lives at.
func (m *Manager) Append(record []byte) (Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if uint64(len(record)) > m.Cap {
		return Location{}, fmt.Errorf("archive: record of %d bytes exceeds segment cap %d", len(record), m.Cap)
	}

	if err := m.ensureWriter(len(record)); err != nil {
		return Location{}, err
	}

	offset, err := m.writer.Append(record)
	if err != nil {
		return Location{}, err
	}

	return Location{ArchiveID: m.writerID, Offset: offset, Size: uint32(len(record))}, nil
}

// segmentFor returns the open read Segment for id, opening it on first use and evicting the least-recently-opened
// segment if that would push the open count past MaxOpenSegments. Caller must hold m.mu.
func (m *Manager) segmentFor(id uint16) (*Segment, error) {
	if s, ok := m.segments[id]; ok {
		return s, nil
	}

	s, err := OpenSegment(id, m.path(id))
	if err != nil {
		return nil, err
	}

	max := m.MaxOpenSegments
	if max == 0 {
		max = DefaultMaxOpenSegments
	}

	if m.open.Cap() != max {
		m.open = ringbuf.NewRingbuf[uint16](max)
	}

	for m.open.Full() {
		evictID, ok := m.open.PopFront()
		if !ok {
			break
		}

		if evicted, ok := m.segments[evictID]; ok {
			_ = evicted.Close()
			delete(m.segments, evictID)
		}
	}

	m.open.PushBack(id)
	m.segments[id] = s

	return s, nil
}

// Read returns the bytes at loc. The returned slice is a zero-copy borrow when the backing segment is
// memory-mapped; see Segment.ReadAt.
func (m *Manager) Read(loc Location) ([]byte, bool, error) {
	m.mu.Lock()

	// A read against the still-open write segment is served directly from it via positional read, since the active
	// segment is never memory-mapped while it may still grow.
	if m.writer != nil && loc.ArchiveID == m.writerID {
		writer := m.writer
		m.mu.Unlock()

		return readFromWriter(writer, loc)
	}

	s, err := m.segmentFor(loc.ArchiveID)

	m.mu.Unlock()

	if err != nil {
		return nil, false, err
	}

	return s.ReadAt(loc.Offset, loc.Size)
}

func readFromWriter(w *Writer, loc Location) ([]byte, bool, error) {
	buf := make([]byte, loc.Size)

	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.ReadAt(buf, int64(loc.Offset))
	if uint32(n) == loc.Size {
		return buf, false, nil
	}

	if err != nil && err != io.EOF {
		return nil, false, err
	}

	return nil, false, &TruncatedReadError{ArchiveID: loc.ArchiveID, Offset: loc.Offset, Size: loc.Size, Available: uint64(n)}
}

// Close closes every open segment and the active writer.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error

	for _, s := range m.segments {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if m.writer != nil {
		if err := m.writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
