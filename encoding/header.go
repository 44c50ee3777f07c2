// Package encoding implements the encoding table: the CKey -> (file size, EKey[]) map plus an EKey -> ESpec index
// that TACT's root/install manifests reference to find the BLTE-encoded bytes for a piece of content. The wire
// format is a 22-byte header, a null-terminated ESpec string table, then two page-table sections (CKey to EKeys,
// EKey to ESpec), each prefixed by a (first-key, page-MD5) index.
package encoding

import (
	"encoding/binary"
	"fmt"
)

const magic = "EN"

// headerSize is the fixed 22-byte encoding table header.
const headerSize = 2 + 1 + 1 + 1 + 2 + 2 + 4 + 4 + 1 + 4

// Header is the encoding table's fixed-layout preamble.
type Header struct {
	Version           uint8
	CKeySize          uint8
	EKeySize          uint8
	CEKeyPageSize     uint32 // bytes; on disk as KiB count
	EKeySpecPageSize  uint32 // bytes; on disk as KiB count
	CEKeyPageCount    uint32
	EKeySpecPageCount uint32
	Flags             uint8
	ESpecBlockSize    uint32
}

// DecodeHeader parses the 22-byte encoding table header from the front of data.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < headerSize {
		return Header{}, fmt.Errorf("encoding: truncated header (%d bytes)", len(data))
	}

	if string(data[:2]) != magic {
		return Header{}, fmt.Errorf("encoding: bad magic %q", data[:2])
	}

	var h Header

	h.Version = data[2]
	if h.Version != 1 {
		return Header{}, fmt.Errorf("encoding: unsupported version %d", h.Version)
	}

	h.CKeySize = data[3]
	h.EKeySize = data[4]

	if h.CKeySize != 16 || h.EKeySize != 16 {
		return Header{}, fmt.Errorf("encoding: unexpected key sizes ckey=%d ekey=%d, want 16/16", h.CKeySize, h.EKeySize)
	}

	h.CEKeyPageSize = uint32(binary.BigEndian.Uint16(data[5:7])) * 1024
	h.EKeySpecPageSize = uint32(binary.BigEndian.Uint16(data[7:9])) * 1024
	h.CEKeyPageCount = binary.BigEndian.Uint32(data[9:13])
	h.EKeySpecPageCount = binary.BigEndian.Uint32(data[13:17])
	h.Flags = data[17]
	h.ESpecBlockSize = binary.BigEndian.Uint32(data[18:22])

	return h, nil
}

// Encode serializes h back into its on-disk 22-byte form.
func (h Header) Encode() []byte {
	buf := make([]byte, headerSize)

	copy(buf, magic)
	buf[2] = h.Version
	buf[3] = h.CKeySize
	buf[4] = h.EKeySize
	binary.BigEndian.PutUint16(buf[5:7], uint16(h.CEKeyPageSize/1024))
	binary.BigEndian.PutUint16(buf[7:9], uint16(h.EKeySpecPageSize/1024))
	binary.BigEndian.PutUint32(buf[9:13], h.CEKeyPageCount)
	binary.BigEndian.PutUint32(buf[13:17], h.EKeySpecPageCount)
	buf[17] = h.Flags
	binary.BigEndian.PutUint32(buf[18:22], h.ESpecBlockSize)

	return buf
}
