package tvfs

import "fmt"

// PathEntry maps one full file path to its index into the container file table.
type PathEntry struct {
	Path     string
	CFTIndex uint32
}

// DecodePathTable parses a flat path table: a sequence of (varint path length, path bytes, varint cft index)
// records. This package builds and reads its own path table rather than walking the reference client's nested
// folder-node tree, since nothing downstream of the resolver needs anything more than a flat path -> CFTIndex
// lookup.
func DecodePathTable(data []byte) ([]PathEntry, error) {
	var entries []PathEntry

	offset := 0

	for offset < len(data) {
		pathLen, err := ReadVarint(data, &offset)
		if err != nil {
			return nil, fmt.Errorf("tvfs: path table: read path length: %w", err)
		}

		if offset+int(pathLen) > len(data) {
			return nil, fmt.Errorf("tvfs: path table: truncated path at offset %d", offset)
		}

		path := string(data[offset : offset+int(pathLen)])
		offset += int(pathLen)

		cftIndex, err := ReadVarint(data, &offset)
		if err != nil {
			return nil, fmt.Errorf("tvfs: path table: read cft index for %q: %w", path, err)
		}

		entries = append(entries, PathEntry{Path: path, CFTIndex: cftIndex})
	}

	return entries, nil
}

// EncodePathTable serializes entries back into the wire form DecodePathTable expects.
func EncodePathTable(entries []PathEntry) []byte {
	var buf []byte

	for _, e := range entries {
		buf = WriteVarint(buf, uint32(len(e.Path)))
		buf = append(buf, e.Path...)
		buf = WriteVarint(buf, e.CFTIndex)
	}

	return buf
}
