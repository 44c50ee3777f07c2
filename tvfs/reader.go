package tvfs

import "fmt"

// Reader is a fully decoded, in-memory TVFS instance: a path -> span-list lookup over the container file table.
type Reader struct {
	Header  Header
	Paths   []PathEntry
	Entries []CFTEntry

	byPath map[string]uint32
}

// NewReader parses the header, path table, and container file table out of a complete (already BLTE-decoded)
// TVFS blob.
func NewReader(data []byte) (*Reader, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}

	pathEnd := int(h.PathTableOffset) + int(h.PathTableSize)
	if pathEnd > len(data) {
		return nil, fmt.Errorf("tvfs: path table out of bounds")
	}

	paths, err := DecodePathTable(data[h.PathTableOffset:pathEnd])
	if err != nil {
		return nil, err
	}

	cftEnd := int(h.CFTTableOffset) + int(h.CFTTableSize)
	if cftEnd > len(data) {
		return nil, fmt.Errorf("tvfs: container file table out of bounds")
	}

	entries, err := DecodeCFT(data[h.CFTTableOffset:cftEnd], h)
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]uint32, len(paths))
	for _, p := range paths {
		byPath[p.Path] = p.CFTIndex
	}

	return &Reader{Header: h, Paths: paths, Entries: entries, byPath: byPath}, nil
}

// Lookup returns the container-file-table entry for path, if present.
func (r *Reader) Lookup(path string) (CFTEntry, bool) {
	idx, ok := r.byPath[path]
	if !ok || int(idx) >= len(r.Entries) {
		return CFTEntry{}, false
	}

	return r.Entries[idx], true
}
