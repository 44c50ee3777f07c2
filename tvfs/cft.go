package tvfs

import (
	"encoding/binary"
	"fmt"

	"github.com/ngdp-go/casc/key"
)

// Span is one contiguous piece of a file's content, as recorded in the container file table. A file with multiple
// spans is reconstructed by concatenating each span's decoded bytes in order.
type Span struct {
	EKey   key.Truncated
	CKey   *key.Truncated // present only when Header.IncludesContentKeys()
	Offset uint32
	Size   uint32
}

// CFTEntry is one container-file-table record: the ordered list of spans making up one file's content.
type CFTEntry struct {
	Spans []Span
}

// DecodeCFT parses the container file table given the header that describes its key sizes and flags.
func DecodeCFT(data []byte, h Header) ([]CFTEntry, error) {
	var entries []CFTEntry

	offset := 0

	for offset < len(data) {
		spanCount, err := ReadVarint(data, &offset)
		if err != nil {
			return nil, fmt.Errorf("tvfs: cft: read span count: %w", err)
		}

		entry := CFTEntry{Spans: make([]Span, 0, spanCount)}

		for i := uint32(0); i < spanCount; i++ {
			span, err := decodeSpan(data, &offset, h)
			if err != nil {
				return nil, fmt.Errorf("tvfs: cft: entry %d span %d: %w", len(entries), i, err)
			}

			entry.Spans = append(entry.Spans, span)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func decodeSpan(data []byte, offset *int, h Header) (Span, error) {
	var span Span

	ekeyLen := int(h.EKeySize)
	if *offset+ekeyLen > len(data) {
		return span, fmt.Errorf("truncated ekey")
	}

	copy(span.EKey[:], data[*offset:*offset+ekeyLen])
	*offset += ekeyLen

	if h.IncludesContentKeys() {
		ckeyLen := int(h.PKeySize)
		if *offset+ckeyLen > len(data) {
			return span, fmt.Errorf("truncated ckey")
		}

		var ck key.Truncated
		copy(ck[:], data[*offset:*offset+ckeyLen])
		span.CKey = &ck
		*offset += ckeyLen
	}

	if *offset+4 > len(data) {
		return span, fmt.Errorf("truncated content offset")
	}

	span.Offset = binary.BigEndian.Uint32(data[*offset : *offset+4])
	*offset += 4

	size, err := ReadVarint(data, offset)
	if err != nil {
		return span, fmt.Errorf("read span size: %w", err)
	}

	span.Size = size

	return span, nil
}

// EncodeCFT serializes entries back into the container file table wire form DecodeCFT expects.
func EncodeCFT(entries []CFTEntry, h Header) []byte {
	var buf []byte

	for _, entry := range entries {
		buf = WriteVarint(buf, uint32(len(entry.Spans)))

		for _, span := range entry.Spans {
			buf = append(buf, span.EKey[:h.EKeySize]...)

			if h.IncludesContentKeys() && span.CKey != nil {
				buf = append(buf, span.CKey[:h.PKeySize]...)
			}

			offBuf := make([]byte, 4)
			binary.BigEndian.PutUint32(offBuf, span.Offset)
			buf = append(buf, offBuf...)

			buf = WriteVarint(buf, span.Size)
		}
	}

	return buf
}

// TotalSize returns the sum of this entry's span sizes: the file's total decoded content length.
func (e CFTEntry) TotalSize() uint64 {
	var total uint64
	for _, s := range e.Spans {
		total += uint64(s.Size)
	}

	return total
}
