package index

import (
	"encoding/binary"
	"fmt"

	"github.com/ngdp-go/casc/key"
)

// fileHeaderSize is the fixed prefix of a serialized '.idx' bucket file: version, key size, entry size, bucket id,
// the three field-width bytes, sorted-entry count, and update-page count.
const fileHeaderSize = 1 + 1 + 1 + 1 + 3 + 4 + 4

// EncodeBucket serializes b (its sorted section plus every update page, most recent last) into the '.idx' on-disk
// shape: a small header declaring the bit-packed field widths, the sorted section, then each update page prefixed
// by its own entry count.
func EncodeBucket(b *Bucket, widths FieldWidths) []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()

	size := entrySize(widths)

	buf := make([]byte, fileHeaderSize)
	buf[0] = 1 // version
	buf[1] = key.TruncatedSize
	buf[2] = byte(size)
	buf[3] = b.ID
	buf[4] = widths.ArchiveID
	buf[5] = widths.Offset
	buf[6] = widths.Size
	binary.LittleEndian.PutUint32(buf[7:11], uint32(len(b.sorted)))
	binary.LittleEndian.PutUint32(buf[11:15], uint32(len(b.pages)))

	for _, e := range b.sorted {
		buf = append(buf, encodeEntry(e, widths)...)
	}

	for _, page := range b.pages {
		pageCount := make([]byte, 4)
		binary.LittleEndian.PutUint32(pageCount, uint32(len(page)))
		buf = append(buf, pageCount...)

		for _, e := range page {
			buf = append(buf, encodeEntry(e, widths)...)
		}
	}

	return buf
}

// DecodeBucket parses a '.idx' bucket file previously produced by EncodeBucket.
func DecodeBucket(data []byte) (*Bucket, error) {
	if len(data) < fileHeaderSize {
		return nil, fmt.Errorf("index: truncated bucket file header: got %d bytes, need %d", len(data), fileHeaderSize)
	}

	if data[0] != 1 {
		return nil, fmt.Errorf("index: unsupported bucket file version %d", data[0])
	}

	widths := FieldWidths{ArchiveID: data[4], Offset: data[5], Size: data[6]}
	size := entrySize(widths)

	if int(data[2]) != size {
		return nil, fmt.Errorf("index: entry size mismatch: header says %d, widths imply %d", data[2], size)
	}

	sortedCount := binary.LittleEndian.Uint32(data[7:11])
	pageCount := binary.LittleEndian.Uint32(data[11:15])

	b := &Bucket{ID: data[3]}

	offset := fileHeaderSize

	for i := uint32(0); i < sortedCount; i++ {
		if offset+size > len(data) {
			return nil, fmt.Errorf("index: truncated sorted section at entry %d", i)
		}

		b.sorted = append(b.sorted, decodeEntry(data[offset:offset+size], widths))
		offset += size
	}

	for p := uint32(0); p < pageCount; p++ {
		if offset+4 > len(data) {
			return nil, fmt.Errorf("index: truncated update page header %d", p)
		}

		count := binary.LittleEndian.Uint32(data[offset : offset+4])
		offset += 4

		page := make([]Entry, 0, count)

		for i := uint32(0); i < count; i++ {
			if offset+size > len(data) {
				return nil, fmt.Errorf("index: truncated update page %d at entry %d", p, i)
			}

			page = append(page, decodeEntry(data[offset:offset+size], widths))
			offset += size
		}

		b.pages = append(b.pages, page)
	}

	return b, nil
}
