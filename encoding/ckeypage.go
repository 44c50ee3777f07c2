package encoding

import (
	"crypto/md5"
	"fmt"

	"github.com/ngdp-go/casc/key"
)

// PageRef is one entry in a page-table index: the first key on a page and the page's own MD5, used to binary
// search for the page that might contain a given key before decoding it.
type PageRef struct {
	FirstKey key.CKey
	PageMD5  [16]byte
}

// CKeyEntry is one record of the CKey -> EKey[] page table: a content key, the decompressed file size it
// represents, and the one or more encoding keys (EKeys) whose concatenated BLTE streams reassemble it.
type CKeyEntry struct {
	CKey     key.CKey
	FileSize uint64 // 40-bit value on disk
	EKeys    []key.EKey
}

// DecodeCKeyPageIndex parses pageCount (firstKey, pageMD5) pairs from the front of the CKey page table section.
func DecodeCKeyPageIndex(data []byte, pageCount uint32) ([]PageRef, error) {
	const refSize = key.Size + 16

	need := int(pageCount) * refSize
	if len(data) < need {
		return nil, fmt.Errorf("encoding: ckey page index truncated: need %d bytes, have %d", need, len(data))
	}

	refs := make([]PageRef, pageCount)

	for i := range refs {
		off := i * refSize
		copy(refs[i].FirstKey[:], data[off:off+key.Size])
		copy(refs[i].PageMD5[:], data[off+key.Size:off+refSize])
	}

	return refs, nil
}

// EncodeCKeyPageIndex serializes refs back into the wire form DecodeCKeyPageIndex expects.
func EncodeCKeyPageIndex(refs []PageRef) []byte {
	buf := make([]byte, 0, len(refs)*(key.Size+16))

	for _, r := range refs {
		buf = append(buf, r.FirstKey[:]...)
		buf = append(buf, r.PageMD5[:]...)
	}

	return buf
}

// DecodeCKeyPage parses one fixed-size page of CKeyEntry records. Parsing stops at the first entry whose
// key-count byte is zero (padding) or once fewer bytes remain than the smallest possible entry, matching
// the page's remaining-byte budget check.
func DecodeCKeyPage(page []byte) ([]CKeyEntry, error) {
	var entries []CKeyEntry

	offset := 0

	for offset < len(page) {
		count := page[offset]
		if count == 0 {
			break
		}

		const fixedSize = 1 + 5 + key.Size // count + 40-bit file size + ckey
		need := fixedSize + int(count)*key.Size

		if offset+need > len(page) {
			break
		}

		var entry CKeyEntry

		entry.FileSize = decodeUint40(page[offset+1 : offset+6])
		copy(entry.CKey[:], page[offset+6:offset+6+key.Size])

		ekeyOff := offset + fixedSize
		entry.EKeys = make([]key.EKey, count)

		for i := 0; i < int(count); i++ {
			copy(entry.EKeys[i][:], page[ekeyOff+i*key.Size:ekeyOff+(i+1)*key.Size])
		}

		entries = append(entries, entry)
		offset += need
	}

	return entries, nil
}

// EncodeCKeyPage serializes entries into a single page buffer of exactly pageSize bytes, zero-padding any
// remaining space. It returns an error if entries do not fit in pageSize bytes.
func EncodeCKeyPage(entries []CKeyEntry, pageSize int) ([]byte, error) {
	buf := make([]byte, 0, pageSize)

	for _, e := range entries {
		if len(e.EKeys) > 0xFF {
			return nil, fmt.Errorf("encoding: ckey entry has too many ekeys (%d)", len(e.EKeys))
		}

		buf = append(buf, byte(len(e.EKeys)))
		buf = append(buf, encodeUint40(e.FileSize)...)
		buf = append(buf, e.CKey[:]...)

		for _, ek := range e.EKeys {
			buf = append(buf, ek[:]...)
		}
	}

	if len(buf) > pageSize {
		return nil, fmt.Errorf("encoding: ckey page overflow: %d bytes > page size %d", len(buf), pageSize)
	}

	padded := make([]byte, pageSize)
	copy(padded, buf)

	return padded, nil
}

// PageMD5 hashes a fully-built, padded page for use in its PageRef.
func PageMD5(page []byte) [16]byte {
	return md5.Sum(page)
}

func decodeUint40(b []byte) uint64 {
	return uint64(b[0])<<32 | uint64(b[1])<<24 | uint64(b[2])<<16 | uint64(b[3])<<8 | uint64(b[4])
}

func encodeUint40(v uint64) []byte {
	return []byte{
		byte(v >> 32),
		byte(v >> 24),
		byte(v >> 16),
		byte(v >> 8),
		byte(v),
	}
}
