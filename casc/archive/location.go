// Package archive implements the on-disk 'data.NNN' archive segments that hold the packed sequence of local-header
// prefixed BLTE blobs making up a CASC installation's primary storage.
package archive

import "fmt"

// MaxMmapSize is the largest segment size this package will memory-map; segments at or above this size fall back
// to positional reads.
const MaxMmapSize = 1 << 31 // 2 GiB

// DefaultCap is the default size, in bytes, at which a dynamic container rolls over to a new segment.
const DefaultCap uint64 = 1 << 30 // ~1 GiB

// Location is a resolved pointer into an archive: the segment it lives in, the byte offset of its local header, and
// the total size (local header + BLTE stream) of the record there.
type Location struct {
	ArchiveID uint16
	Offset    uint64
	Size      uint32
}

// String renders a Location for diagnostics/logging.
func (l Location) String() string {
	return fmt.Sprintf("data.%03d@%d+%d", l.ArchiveID, l.Offset, l.Size)
}

// Name returns the canonical 'data.NNN' filename for the given archive id.
func Name(id uint16) string {
	return fmt.Sprintf("data.%03d", id)
}
