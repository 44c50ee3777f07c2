package index

import (
	"encoding/binary"
	"fmt"

	"github.com/ngdp-go/casc/casc/archive"
	"github.com/ngdp-go/casc/cryptoutil"
	"github.com/ngdp-go/casc/key"
)

// Block-type numbers of the '.index' group index format. EncodeGroup and DecodeGroup do not use them: they write and
// read a flat entry table with no block framing.
const (
	BlockTypeConfig       = 1
	BlockTypeEntries      = 2
	BlockTypeExtendedCopy = 8
)

// GroupEntry is one record of a CDN-style '.index' file: a full (untruncated) EKey mapped to a size+offset pair
// within the archive the index describes.
type GroupEntry struct {
	EKey   key.EKey
	Size   uint32
	Offset uint32
}

// GroupIndex is a parsed '.index' file: the flat entry table plus the footer that bounds and validates it. No
// config (type 1) or extended-copy (type 8) block is read or written.
type GroupIndex struct {
	Entries []GroupEntry
}

// groupFooterSize is the fixed portion of the footer, excluding the variable-width trailing hash.
const groupFooterSize = 1 + 1 + 1 + 1 + 4 // format revision, field widths (3 bytes), entry count

// EncodeGroup serializes g as a flat entry table followed by a footer. hashBytes controls the width (8-16) of
// the trailing TOC hash, matching the "try 16 down to 8" discovery the reference tooling performs on read.
func EncodeGroup(g *GroupIndex, hashBytes int) []byte {
	if hashBytes < 8 || hashBytes > 16 {
		hashBytes = 16
	}

	body := make([]byte, 0, len(g.Entries)*(key.Size+8))

	for _, e := range g.Entries {
		rec := make([]byte, key.Size+8)
		copy(rec, e.EKey[:])
		binary.BigEndian.PutUint32(rec[key.Size:], e.Size)
		binary.BigEndian.PutUint32(rec[key.Size+4:], e.Offset)
		body = append(body, rec...)
	}

	footer := make([]byte, groupFooterSize)
	footer[0] = 1 // format revision
	footer[1] = key.Size
	footer[2] = 4 // size field bytes
	footer[3] = 4 // offset field bytes
	binary.LittleEndian.PutUint32(footer[4:8], uint32(len(g.Entries)))

	// The on-disk hash covers body+footer with the hash field itself blanked; the low hashBytes bytes of that MD5
	// are what is actually written.
	blank := make([]byte, hashBytes)
	digest := cryptoutil.Sum(append(append([]byte{}, body...), append(footer, blank...)...))

	out := append(body, footer...)
	out = append(out, digest[:hashBytes]...)

	return out
}

// DecodeGroup parses a '.index' file previously produced by EncodeGroup, discovering the footer's hash width by
// trying candidate widths from 16 down to 8 bytes and accepting the first that reconstructs a valid digest
//.
func DecodeGroup(data []byte) (*GroupIndex, error) {
	for hashBytes := 16; hashBytes >= 8; hashBytes-- {
		footerStart := len(data) - groupFooterSize - hashBytes
		if footerStart < 0 {
			continue
		}

		footer := data[footerStart : footerStart+groupFooterSize]
		storedHash := data[footerStart+groupFooterSize:]

		blank := make([]byte, hashBytes)
		digest := cryptoutil.Sum(append(append([]byte{}, data[:footerStart+groupFooterSize]...), blank...))

		if string(digest[:hashBytes]) != string(storedHash) {
			continue
		}

		count := binary.LittleEndian.Uint32(footer[4:8])

		recSize := key.Size + 8
		if footerStart != int(count)*recSize {
			continue
		}

		g := &GroupIndex{Entries: make([]GroupEntry, 0, count)}

		for i := uint32(0); i < count; i++ {
			rec := data[i*uint32(recSize) : (i+1)*uint32(recSize)]

			var e GroupEntry

			copy(e.EKey[:], rec[:key.Size])
			e.Size = binary.BigEndian.Uint32(rec[key.Size:])
			e.Offset = binary.BigEndian.Uint32(rec[key.Size+4:])

			g.Entries = append(g.Entries, e)
		}

		return g, nil
	}

	return nil, fmt.Errorf("index: could not locate a valid footer hash width for group index")
}

// ToLocations converts a GroupIndex's entries into Location values tagged with the given archive id, for merging
// into a Manager.
func (g *GroupIndex) ToLocations(archiveID uint16) map[key.EKey]archive.Location {
	out := make(map[key.EKey]archive.Location, len(g.Entries))

	for _, e := range g.Entries {
		out[e.EKey] = archive.Location{ArchiveID: archiveID, Offset: uint64(e.Offset), Size: e.Size}
	}

	return out
}
