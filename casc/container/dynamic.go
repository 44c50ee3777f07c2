package container

import (
	"context"
	"fmt"

	"github.com/ngdp-go/casc/blte"
	"github.com/ngdp-go/casc/casc/archive"
	"github.com/ngdp-go/casc/casc/index"
	"github.com/ngdp-go/casc/casc/kmt"
	"github.com/ngdp-go/casc/casc/localheader"
	"github.com/ngdp-go/casc/key"
	"github.com/ngdp-go/casc/keystore"
)

// Dynamic is the primary read-write container: it appends local-header-prefixed BLTE blobs to an active segment and
// records their location in an index.
type Dynamic struct {
	archives *archive.Manager
	index    *index.Manager
	mode     AccessMode
	keys     keystore.Provider
}

// SetKeyProvider installs the Provider consulted when a BLTE stream contains an encrypted (mode 'E') chunk. A nil
// provider (the default) is fine for installations that never store encrypted content.
func (d *Dynamic) SetKeyProvider(p keystore.Provider) {
	d.keys = p
}

// AttachKMT installs a key-mapping-table overlay on the container's index, so writes land in the overlay and reads
// probe it ahead of the bucket files.
func (d *Dynamic) AttachKMT(t *kmt.Table) {
	d.index.AttachOverlay(t)
}

// OpenDynamic opens (or creates) a dynamic container rooted at archiveDir/indexDir.
func OpenDynamic(archiveDir, indexDir string, cap uint64, widths index.FieldWidths, mode AccessMode) (*Dynamic, error) {
	archives, err := archive.Open(archiveDir, cap)
	if err != nil {
		return nil, fmt.Errorf("container: open dynamic archives: %w", err)
	}

	idx, err := index.Open(indexDir, widths)
	if err != nil {
		return nil, fmt.Errorf("container: open dynamic index: %w", err)
	}

	return &Dynamic{archives: archives, index: idx, mode: mode}, nil
}

func (d *Dynamic) Flavour() string  { return "Dynamic" }
func (d *Dynamic) Mode() AccessMode { return d.mode }

// IndexBucket returns the underlying index manager's bucket for id (0-15), for callers (install.Installation.Keys)
// that need to enumerate committed entries directly.
func (d *Dynamic) IndexBucket(id uint8) *index.Bucket {
	return d.index.Bucket(id)
}

// Reserve is a no-op for Dynamic: space is allocated at Write time by the segment writer's rollover logic.
func (d *Dynamic) Reserve(_ context.Context, _ key.EKey, size int) (int, error) {
	return size, nil
}

func (d *Dynamic) Read(_ context.Context, ekey key.EKey) ([]byte, error) {
	if err := checkMode(d.Flavour(), "Read", d.mode, false); err != nil {
		return nil, err
	}

	loc, ok := d.index.Lookup(ekey)
	if !ok {
		return nil, &NotFoundError{Key: ekey}
	}

	// A KMT-overlay-only hit carries no record size; read the 30-byte local header at the offset first to
	// discover it.
	if loc.Size == 0 {
		hdrRaw, _, err := d.archives.Read(archive.Location{ArchiveID: loc.ArchiveID, Offset: loc.Offset, Size: localheader.Size})
		if err != nil {
			return nil, fmt.Errorf("container: dynamic read header %s: %w", ekey, err)
		}

		hdr, err := localheader.Parse(hdrRaw)
		if err != nil {
			return nil, &InvalidFormatError{Reason: err.Error()}
		}

		loc.Size = hdr.Size
	}

	raw, _, err := d.archives.Read(loc)
	if err != nil {
		return nil, fmt.Errorf("container: dynamic read %s: %w", ekey, err)
	}

	hdr, err := localheader.Parse(raw)
	if err != nil {
		return nil, &InvalidFormatError{Reason: err.Error()}
	}

	if hdr.EKey != ekey {
		return nil, &InvalidFormatError{Reason: fmt.Sprintf("local header key mismatch: want %s, got %s", ekey, hdr.EKey)}
	}

	blteBytes := raw[localheader.Size:]
	if len(blteBytes) < int(hdr.BLTESize()) {
		return nil, &TruncatedReadError{Key: ekey, Expected: int(hdr.BLTESize()), Got: len(blteBytes)}
	}

	return blte.Decompress(blteBytes[:hdr.BLTESize()], d.keys)
}

// Write encodes data into a BLTE stream (single, uncompressed chunk), prefixes it with a local header, appends the
// record in one atomic call, and records the resulting Location in the index.
func (d *Dynamic) Write(_ context.Context, ekey key.EKey, data []byte) (archive.Location, error) {
	if err := checkMode(d.Flavour(), "Write", d.mode, true); err != nil {
		return archive.Location{}, err
	}

	encoded, err := blte.EncodeSingle(data, blte.ModeNone)
	if err != nil {
		return archive.Location{}, fmt.Errorf("container: dynamic encode %s: %w", ekey, err)
	}

	hdr := localheader.New(ekey, len(encoded), 0)

	record := make([]byte, 0, localheader.Size+len(encoded))
	record = append(record, hdr.Encode()...)
	record = append(record, encoded...)

	loc, err := d.archives.Append(record)
	if err != nil {
		return archive.Location{}, fmt.Errorf("container: dynamic append %s: %w", ekey, err)
	}

	d.index.Insert(ekey, loc)

	return loc, nil
}

func (d *Dynamic) Remove(_ context.Context, ekey key.EKey) error {
	if err := checkMode(d.Flavour(), "Remove", d.mode, true); err != nil {
		return err
	}

	// Removal only drops the index entry; the archive bytes are reclaimed by a later compaction pass rather than
	// in-place truncation.
	d.index.Remove(ekey)

	return nil
}

func (d *Dynamic) Query(_ context.Context, ekey key.EKey) (QueryResult, error) {
	if err := checkMode(d.Flavour(), "Query", d.mode, false); err != nil {
		return QueryResult{}, err
	}

	_, ok := d.index.Lookup(ekey)

	return QueryResult{HasData: ok, IsResident: ok}, nil
}

// Flush persists pending index updates to disk.
func (d *Dynamic) Flush() error {
	return d.index.Flush()
}

// Close releases the container's underlying archive segment handles.
func (d *Dynamic) Close() error {
	return d.archives.Close()
}
