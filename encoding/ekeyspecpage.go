package encoding

import (
	"encoding/binary"
	"fmt"

	"github.com/ngdp-go/casc/key"
)

// ekeySpecEntrySize is the fixed on-disk width of one EKeySpecEntry: EKey (16) + ESpec index (4) + 40-bit
// file size (5).
const ekeySpecEntrySize = key.Size + 4 + 5

// EKeySpecEntry records, for one encoding key, which ESpecTable entry describes its BLTE layout and how large
// the assembled (pre-decode) stream is.
type EKeySpecEntry struct {
	EKey       key.EKey
	ESpecIndex uint32
	FileSize   uint64 // 40-bit value on disk
}

// EKeySpecPageRef is the (first EKey, page MD5) index entry for one EKeySpec page, mirroring PageRef.
type EKeySpecPageRef struct {
	FirstKey key.EKey
	PageMD5  [16]byte
}

// DecodeEKeySpecPageIndex parses pageCount (firstKey, pageMD5) pairs from the front of the EKeySpec page
// table section.
func DecodeEKeySpecPageIndex(data []byte, pageCount uint32) ([]EKeySpecPageRef, error) {
	const refSize = key.Size + 16

	need := int(pageCount) * refSize
	if len(data) < need {
		return nil, fmt.Errorf("encoding: ekeyspec page index truncated: need %d bytes, have %d", need, len(data))
	}

	refs := make([]EKeySpecPageRef, pageCount)

	for i := range refs {
		off := i * refSize
		copy(refs[i].FirstKey[:], data[off:off+key.Size])
		copy(refs[i].PageMD5[:], data[off+key.Size:off+refSize])
	}

	return refs, nil
}

// EncodeEKeySpecPageIndex serializes refs back into the wire form DecodeEKeySpecPageIndex expects.
func EncodeEKeySpecPageIndex(refs []EKeySpecPageRef) []byte {
	buf := make([]byte, 0, len(refs)*(key.Size+16))

	for _, r := range refs {
		buf = append(buf, r.FirstKey[:]...)
		buf = append(buf, r.PageMD5[:]...)
	}

	return buf
}

// DecodeEKeySpecPage parses one fixed-size page of EKeySpecEntry records. Entries are fixed-width, so parsing
// stops at the first all-zero entry (padding) or when fewer than ekeySpecEntrySize bytes remain.
func DecodeEKeySpecPage(page []byte) []EKeySpecEntry {
	var entries []EKeySpecEntry

	for offset := 0; offset+ekeySpecEntrySize <= len(page); offset += ekeySpecEntrySize {
		var e EKeySpecEntry

		copy(e.EKey[:], page[offset:offset+key.Size])
		if e.EKey.IsZero() {
			break
		}

		e.ESpecIndex = binary.BigEndian.Uint32(page[offset+key.Size : offset+key.Size+4])
		e.FileSize = decodeUint40(page[offset+key.Size+4 : offset+ekeySpecEntrySize])

		entries = append(entries, e)
	}

	return entries
}

// EncodeEKeySpecPage serializes entries into a single page buffer of exactly pageSize bytes, zero-padding any
// remaining space.
func EncodeEKeySpecPage(entries []EKeySpecEntry, pageSize int) ([]byte, error) {
	need := len(entries) * ekeySpecEntrySize
	if need > pageSize {
		return nil, fmt.Errorf("encoding: ekeyspec page overflow: %d bytes > page size %d", need, pageSize)
	}

	buf := make([]byte, pageSize)

	for i, e := range entries {
		off := i * ekeySpecEntrySize
		copy(buf[off:off+key.Size], e.EKey[:])
		binary.BigEndian.PutUint32(buf[off+key.Size:off+key.Size+4], e.ESpecIndex)
		copy(buf[off+key.Size+4:off+ekeySpecEntrySize], encodeUint40(e.FileSize))
	}

	return buf, nil
}
