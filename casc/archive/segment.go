package archive

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/ngdp-go/casc/fs/util"
)

// Segment is a read-only view of one 'data.NNN' file. When the file is smaller than MaxMmapSize it is
// memory-mapped and reads return zero-copy borrowed slices; otherwise reads fall back to positional I/O and return
// owned buffers. Either way the observable contract is identical.
type Segment struct {
	ID   uint16
	Path string

	mu     sync.RWMutex
	file   *os.File
	size   int64
	mapped []byte // non-nil while the mmap is live
	closed bool
}

// OpenSegment opens the segment file at path read-only, memory-mapping it if its size is below MaxMmapSize.
func OpenSegment(id uint16, path string) (*Segment, error) {
	file, err := util.OpenRandAccess(path, 0, 0)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	s := &Segment{ID: id, Path: path, file: file, size: info.Size()}

	if info.Size() > 0 && info.Size() < MaxMmapSize {
		mapped, merr := mmapFile(file, info.Size())
		if merr == nil {
			s.mapped = mapped
		}
		// A failed mmap (e.g. platform without support) silently falls back to positional reads; this is the
		// degrade path, not an error: the observable contract is identical.
	}

	return s, nil
}

// Size returns the segment's length in bytes at open time.
func (s *Segment) Size() int64 {
	return s.size
}

// ReadAt returns the size bytes at offset. When the segment is memory-mapped, the returned slice is a zero-copy
// borrow valid for the segment's open lifetime (borrowed reports true); otherwise it is a freshly allocated buffer.
func (s *Segment) ReadAt(offset uint64, size uint32) (data []byte, borrowed bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, os.ErrClosed
	}

	end := offset + uint64(size)
	if end > uint64(s.size) {
		return nil, false, &TruncatedReadError{ArchiveID: s.ID, Offset: offset, Size: size, Available: uint64(s.size)}
	}

	if s.mapped != nil {
		return s.mapped[offset:end], true, nil
	}

	buf := make([]byte, size)

	n, err := s.file.ReadAt(buf, int64(offset))
	if uint32(n) == size {
		return buf, false, nil
	}

	if err != nil && err != os.ErrClosed {
		return nil, false, err
	}

	return nil, false, &TruncatedReadError{ArchiveID: s.ID, Offset: offset, Size: size, Available: uint64(n)}
}

// Close releases the segment's mmap (if any) and underlying file handle. The mapping is guaranteed to outlive any
// slice borrowed from ReadAt only until Close is called; callers must not retain borrowed slices past Close.
func (s *Segment) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	if s.mapped != nil {
		if err := munmapFile(s.mapped); err != nil {
			s.file.Close()
			return err
		}

		s.mapped = nil
	}

	return s.file.Close()
}

// idFromName parses the numeric id out of a 'data.NNN' filename; ok is false if name doesn't match that shape.
func idFromName(name string) (uint16, bool) {
	base := filepath.Base(name)
	if len(base) != 8 || base[:5] != "data." {
		return 0, false
	}

	var n uint16

	for _, c := range base[5:] {
		if c < '0' || c > '9' {
			return 0, false
		}

		n = n*10 + uint16(c-'0')
	}

	return n, true
}
