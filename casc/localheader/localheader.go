// Package localheader implements the 30-byte record header that precedes every BLTE blob written into a dynamic
// archive segment. Without it, blobs are not readable by the reference client.
package localheader

import (
	"encoding/binary"
	"fmt"

	"github.com/ngdp-go/casc/key"
)

// Size is the fixed on-wire size of a local header, in bytes.
const Size = 30

// Header is the 30-byte record preceding a BLTE blob in an archive segment: the encoding key in reversed byte
// order, the total size including this header, a flags field, and two opaque checksum tokens.
type Header struct {
	EKey     key.EKey
	Size     uint32 // total size including this 30-byte header
	Flags    uint16
	Checksum [2]uint32
}

// Parse decodes a 30-byte local header from the front of b.
func Parse(b []byte) (*Header, error) {
	if len(b) < Size {
		return nil, fmt.Errorf("localheader: short read: need %d bytes, got %d", Size, len(b))
	}

	var reversed key.EKey
	copy(reversed[:], b[:16])

	h := &Header{
		EKey:  reversed.Reverse(),
		Size:  binary.BigEndian.Uint32(b[16:20]),
		Flags: binary.LittleEndian.Uint16(b[20:22]),
	}

	h.Checksum[0] = binary.LittleEndian.Uint32(b[22:26])
	h.Checksum[1] = binary.LittleEndian.Uint32(b[26:30])

	return h, nil
}

// Encode serializes h into its 30-byte wire form.
func (h *Header) Encode() []byte {
	buf := make([]byte, Size)

	reversed := h.EKey.Reverse()
	copy(buf[:16], reversed[:])

	binary.BigEndian.PutUint32(buf[16:20], h.Size)
	binary.LittleEndian.PutUint16(buf[20:22], h.Flags)
	binary.LittleEndian.PutUint32(buf[22:26], h.Checksum[0])
	binary.LittleEndian.PutUint32(buf[26:30], h.Checksum[1])

	return buf
}

// BLTESize returns the length of the BLTE stream that follows this header, derived from the total size field.
func (h *Header) BLTESize() uint32 {
	if h.Size < Size {
		return 0
	}

	return h.Size - Size
}

// New builds a Header for a BLTE stream of the given length. Checksums are left zero (verification skipped on
// read), matching the archive writer's default.
func New(ekey key.EKey, blteLen int, flags uint16) *Header {
	return &Header{
		EKey:  ekey,
		Size:  uint32(Size + blteLen),
		Flags: flags,
	}
}

// VerifyChecksum reports whether h's checksum fields verify against the accompanying BLTE bytes. An all-zero
// checksum pair always verifies, per the "checksum fields may be left zero" convention; non-zero fields are opaque
// integrity tokens compared by exact match against a caller-supplied expectation (this package does not know how to
// recompute the archive format's MD5/Jenkins-prefix algorithm; callers that write checksums must also verify them
// using the same derivation they used to produce them).
func (h *Header) VerifyChecksum(expected [2]uint32) bool {
	if h.Checksum == ([2]uint32{}) {
		return true
	}

	return h.Checksum == expected
}
