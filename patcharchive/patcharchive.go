// Package patcharchive implements the patch-archive block index ("patch-archive
// indices"): a header plus a flat entry table mapping an old CKey to the patch bytes that transform it into a new
// CKey, located within a patch-archive blob (itself a BLTE stream fed to the core decoder once located). The
// on-disk shape is a fixed-width record table like casc/index's, keyed by a CKey pair instead of a single truncated
// EKey, but preceded by a small header (magic + entry count) and stored as plain big-endian fields, without
// bit-packing or a footer.
package patcharchive

import (
	"encoding/binary"
	"fmt"

	"github.com/ngdp-go/casc/key"
)

// Entry is one patch-archive record: the old content key, the new content key it patches to, and the patch
// bytes' location within the owning patch-archive blob.
type Entry struct {
	OldKey key.CKey
	NewKey key.CKey
	Offset uint32
	Size   uint32
}

const (
	magic      = "PTCH"
	headerSize = 4 + 4 // magic + entry count
	entrySize  = key.Size*2 + 4 + 4
)

// Index is a parsed patch-archive block index: every (oldKey, newKey) patch available within one archive.
type Index struct {
	Entries []Entry
}

// Encode serializes idx into its on-disk form: a 4-byte magic, a big-endian entry count, then the flat entry
// table in insertion order (patch archives are append-only, so no sorting/bit-packing is needed the way
// casc/index's much larger `.idx` bucket files require).
func Encode(idx *Index) []byte {
	buf := make([]byte, headerSize+len(idx.Entries)*entrySize)

	copy(buf, magic)
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(idx.Entries)))

	for i, e := range idx.Entries {
		rec := buf[headerSize+i*entrySize : headerSize+(i+1)*entrySize]

		copy(rec, e.OldKey[:])
		copy(rec[key.Size:], e.NewKey[:])
		binary.BigEndian.PutUint32(rec[key.Size*2:], e.Offset)
		binary.BigEndian.PutUint32(rec[key.Size*2+4:], e.Size)
	}

	return buf
}

// Decode parses a patch-archive block index previously produced by Encode.
func Decode(data []byte) (*Index, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("patcharchive: truncated header (%d bytes)", len(data))
	}

	if string(data[:4]) != magic {
		return nil, fmt.Errorf("patcharchive: bad magic %q", data[:4])
	}

	count := binary.BigEndian.Uint32(data[4:8])

	want := headerSize + int(count)*entrySize
	if len(data) < want {
		return nil, fmt.Errorf("patcharchive: expected %d bytes for %d entries, got %d", want, count, len(data))
	}

	idx := &Index{Entries: make([]Entry, 0, count)}

	for i := uint32(0); i < count; i++ {
		rec := data[headerSize+int(i)*entrySize : headerSize+int(i+1)*entrySize]

		var e Entry

		copy(e.OldKey[:], rec[:key.Size])
		copy(e.NewKey[:], rec[key.Size:key.Size*2])
		e.Offset = binary.BigEndian.Uint32(rec[key.Size*2:])
		e.Size = binary.BigEndian.Uint32(rec[key.Size*2+4:])

		idx.Entries = append(idx.Entries, e)
	}

	return idx, nil
}

// Lookup returns the patch entry transforming oldKey, if this index has one. A patch archive may carry several
// generations of patch for the same old key; Lookup returns the first match, matching the reference client's
// "apply the patch chain in archive order" behaviour.
func (idx *Index) Lookup(oldKey key.CKey) (Entry, bool) {
	for _, e := range idx.Entries {
		if e.OldKey == oldKey {
			return e, true
		}
	}

	return Entry{}, false
}

// ByNewKey indexes idx's entries by new key, for callers resolving "what patches produce this content key".
func (idx *Index) ByNewKey() map[key.CKey][]Entry {
	out := make(map[key.CKey][]Entry, len(idx.Entries))

	for _, e := range idx.Entries {
		out[e.NewKey] = append(out[e.NewKey], e)
	}

	return out
}
