package kmt

import "encoding/binary"

// EntrySize is the on-wire size of a KMT entry.
const EntrySize = 16

// offsetMask isolates the low 30 bits of PackedOffset that hold the segment offset; the high 2 bits are flags.
const offsetMask = 0x3FFFFFFF

// Entry is one KMT record: a packed segment offset + flags, the segment id it lives in, and the 64-bit hash of the
// key it maps.
type Entry struct {
	PackedOffset uint32
	SegmentID    uint32
	KeyHash      uint64
}

// NewEntry packs offset (must fit in 30 bits) and flags (0-3) with segmentID and keyHash into an Entry.
func NewEntry(offset uint32, flags uint8, segmentID uint32, keyHash uint64) Entry {
	return Entry{
		PackedOffset: (offset & offsetMask) | (uint32(flags&0x3) << 30),
		SegmentID:    segmentID,
		KeyHash:      keyHash,
	}
}

// Offset returns the low 30 bits of PackedOffset: the segment offset.
func (e Entry) Offset() uint32 {
	return e.PackedOffset & offsetMask
}

// Flags returns the high 2 bits of PackedOffset.
func (e Entry) Flags() uint8 {
	return uint8(e.PackedOffset >> 30)
}

// Encode serializes e to its 16-byte little-endian wire form.
func (e Entry) Encode() []byte {
	buf := make([]byte, EntrySize)
	binary.LittleEndian.PutUint32(buf[0:4], e.PackedOffset)
	binary.LittleEndian.PutUint32(buf[4:8], e.SegmentID)
	binary.LittleEndian.PutUint64(buf[8:16], e.KeyHash)

	return buf
}

// DecodeEntry parses a 16-byte KMT entry from the front of buf.
func DecodeEntry(buf []byte) Entry {
	return Entry{
		PackedOffset: binary.LittleEndian.Uint32(buf[0:4]),
		SegmentID:    binary.LittleEndian.Uint32(buf[4:8]),
		KeyHash:      binary.LittleEndian.Uint64(buf[8:16]),
	}
}
