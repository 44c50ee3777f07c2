package index

import (
	"encoding/binary"

	"github.com/ngdp-go/casc/casc/archive"
	"github.com/ngdp-go/casc/key"
)

// Entry is one '.idx' record: a truncated encoding key mapped to its archive Location.
type Entry struct {
	Key      key.Truncated
	Location archive.Location
}

// entrySize returns the on-wire size of an Entry under the given field widths: the 9-byte truncated key, the
// bit-packed archive-id+offset, and a 4-byte little-endian size.
func entrySize(w FieldWidths) int {
	return key.TruncatedSize + w.packedBytes() + 4
}

// encodeEntry serializes e using the given field widths.
func encodeEntry(e Entry, w FieldWidths) []byte {
	buf := make([]byte, entrySize(w))

	copy(buf, e.Key[:])

	packed := w.packLocation(e.Location.ArchiveID, e.Location.Offset)
	copy(buf[key.TruncatedSize:], packed)

	binary.LittleEndian.PutUint32(buf[key.TruncatedSize+len(packed):], e.Location.Size)

	return buf
}

// decodeEntry parses a single entry from the front of buf, which must be at least entrySize(w) bytes.
func decodeEntry(buf []byte, w FieldWidths) Entry {
	var e Entry

	copy(e.Key[:], buf[:key.TruncatedSize])

	packedLen := w.packedBytes()
	archiveID, offset := w.unpackLocation(buf[key.TruncatedSize : key.TruncatedSize+packedLen])

	e.Location = archive.Location{
		ArchiveID: archiveID,
		Offset:    offset,
		Size:      binary.LittleEndian.Uint32(buf[key.TruncatedSize+packedLen:]),
	}

	return e
}
