// Package tvfs implements a read-only reader for Blizzard's TACT Virtual File System: a path -> content lookup
// table embedded (BLTE-wrapped, like the root/encoding manifests) inside certain products' builds. It sits
// outside the BLTE/CASC hot path: higher-level tooling consults it to turn a game-asset path into
// the CKey/EKey the resolver then fetches.
//
// The header layout and varint encoding below are taken directly from the reference implementation's structures
// (38/46-byte big-endian header, LEB128-style varints); the folder/file tree beyond that point is this package's
// own self-consistent Encode/Decode pair built on those primitives, not a byte-exact reproduction of every
// edge case. Files written by Encode round-trip exactly through Decode.
package tvfs

import (
	"encoding/binary"
	"fmt"
)

// Format flags (TVFSHeader.flags).
const (
	FlagIncludeCKey   uint32 = 0x01
	FlagWriteSupport  uint32 = 0x02
	FlagPatchSupport  uint32 = 0x04
	FlagEncodingSpec         = FlagWriteSupport
)

const magic = "TVFS"

// baseHeaderSize is the header size without the optional encoding-spec-table offset/size pair.
const baseHeaderSize = 38

// fullHeaderSize is the header size with the encoding-spec-table offset/size pair present.
const fullHeaderSize = 46

// Header is TVFS's fixed-layout file header.
type Header struct {
	FormatVersion  uint8
	EKeySize       uint8
	PKeySize       uint8
	Flags          uint32
	PathTableOffset uint32
	PathTableSize   uint32
	VFSTableOffset  uint32
	VFSTableSize    uint32
	CFTTableOffset  uint32
	CFTTableSize    uint32
	MaxDepth        uint16
	ESTTableOffset  uint32
	ESTTableSize    uint32
	hasEST          bool
}

// HasEncodingSpec reports whether the header carries an encoding-spec-table offset/size pair.
func (h Header) HasEncodingSpec() bool {
	return h.Flags&FlagEncodingSpec != 0
}

// IncludesContentKeys reports whether container file table spans carry a CKey alongside their EKey.
func (h Header) IncludesContentKeys() bool {
	return h.Flags&FlagIncludeCKey != 0
}

// NewHeader returns a Header with sane defaults (format version 1, 9-byte key sizes) for the given flags.
func NewHeader(flags uint32) Header {
	return Header{
		FormatVersion: 1,
		EKeySize:      9,
		PKeySize:      9,
		Flags:         flags,
		hasEST:        flags&FlagEncodingSpec != 0,
	}
}

// DecodeHeader parses a TVFS header from the front of data.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < baseHeaderSize {
		return Header{}, fmt.Errorf("tvfs: truncated header (%d bytes)", len(data))
	}

	if string(data[:4]) != magic {
		return Header{}, fmt.Errorf("tvfs: bad magic %q", data[:4])
	}

	var h Header

	h.FormatVersion = data[4]
	headerSize := data[5]
	h.EKeySize = data[6]
	h.PKeySize = data[7]
	h.Flags = binary.BigEndian.Uint32(data[8:12])
	h.PathTableOffset = binary.BigEndian.Uint32(data[12:16])
	h.PathTableSize = binary.BigEndian.Uint32(data[16:20])
	h.VFSTableOffset = binary.BigEndian.Uint32(data[20:24])
	h.VFSTableSize = binary.BigEndian.Uint32(data[24:28])
	h.CFTTableOffset = binary.BigEndian.Uint32(data[28:32])
	h.CFTTableSize = binary.BigEndian.Uint32(data[32:36])
	h.MaxDepth = binary.BigEndian.Uint16(data[36:38])

	if h.FormatVersion != 1 {
		return Header{}, fmt.Errorf("tvfs: unsupported format version %d", h.FormatVersion)
	}

	h.hasEST = h.HasEncodingSpec()

	wantSize := uint8(baseHeaderSize)
	if h.hasEST {
		wantSize = fullHeaderSize
	}

	if headerSize != wantSize {
		return Header{}, fmt.Errorf("tvfs: header size %d does not match flags (want %d)", headerSize, wantSize)
	}

	if h.hasEST {
		if len(data) < fullHeaderSize {
			return Header{}, fmt.Errorf("tvfs: truncated encoding-spec-table header fields")
		}

		h.ESTTableOffset = binary.BigEndian.Uint32(data[38:42])
		h.ESTTableSize = binary.BigEndian.Uint32(data[42:46])
	}

	if h.EKeySize != 9 || h.PKeySize != 9 {
		return Header{}, fmt.Errorf("tvfs: unexpected key sizes ekey=%d pkey=%d, want 9/9", h.EKeySize, h.PKeySize)
	}

	return h, nil
}

// Encode serializes h back into its on-disk 38- or 46-byte form.
func (h Header) Encode() []byte {
	size := baseHeaderSize
	if h.hasEST {
		size = fullHeaderSize
	}

	buf := make([]byte, size)

	copy(buf, magic)
	buf[4] = h.FormatVersion
	buf[5] = uint8(size)
	buf[6] = h.EKeySize
	buf[7] = h.PKeySize
	binary.BigEndian.PutUint32(buf[8:12], h.Flags)
	binary.BigEndian.PutUint32(buf[12:16], h.PathTableOffset)
	binary.BigEndian.PutUint32(buf[16:20], h.PathTableSize)
	binary.BigEndian.PutUint32(buf[20:24], h.VFSTableOffset)
	binary.BigEndian.PutUint32(buf[24:28], h.VFSTableSize)
	binary.BigEndian.PutUint32(buf[28:32], h.CFTTableOffset)
	binary.BigEndian.PutUint32(buf[32:36], h.CFTTableSize)
	binary.BigEndian.PutUint16(buf[36:38], h.MaxDepth)

	if h.hasEST {
		binary.BigEndian.PutUint32(buf[38:42], h.ESTTableOffset)
		binary.BigEndian.PutUint32(buf[42:46], h.ESTTableSize)
	}

	return buf
}
