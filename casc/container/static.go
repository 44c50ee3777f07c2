package container

import (
	"context"
	"fmt"

	"github.com/ngdp-go/casc/blte"
	"github.com/ngdp-go/casc/casc/archive"
	"github.com/ngdp-go/casc/casc/index"
	"github.com/ngdp-go/casc/casc/localheader"
	"github.com/ngdp-go/casc/key"
	"github.com/ngdp-go/casc/keystore"
)

// Static is a read-only container over sealed archive segments: reads and batch state lookups are permitted, all
// mutation is rejected with AccessDenied.
type Static struct {
	archives *archive.Manager
	index    *index.Manager
	keys     keystore.Provider
}

// SetKeyProvider installs the Provider consulted when a BLTE stream contains an encrypted (mode 'E') chunk.
func (s *Static) SetKeyProvider(p keystore.Provider) {
	s.keys = p
}

// OpenStatic opens a sealed archive+index pair for read-only access.
func OpenStatic(archiveDir, indexDir string, cap uint64, widths index.FieldWidths) (*Static, error) {
	archives, err := archive.Open(archiveDir, cap)
	if err != nil {
		return nil, fmt.Errorf("container: open static archives: %w", err)
	}

	idx, err := index.Open(indexDir, widths)
	if err != nil {
		return nil, fmt.Errorf("container: open static index: %w", err)
	}

	return &Static{archives: archives, index: idx}, nil
}

func (s *Static) Flavour() string  { return "Static" }
func (s *Static) Mode() AccessMode { return ReadOnly }

func (s *Static) Reserve(_ context.Context, _ key.EKey, size int) (int, error) {
	return size, nil
}

func (s *Static) Read(_ context.Context, ekey key.EKey) ([]byte, error) {
	loc, ok := s.index.Lookup(ekey)
	if !ok {
		return nil, &NotFoundError{Key: ekey}
	}

	raw, _, err := s.archives.Read(loc)
	if err != nil {
		return nil, fmt.Errorf("container: static read %s: %w", ekey, err)
	}

	hdr, err := localheader.Parse(raw)
	if err != nil {
		return nil, &InvalidFormatError{Reason: err.Error()}
	}

	return blte.Decompress(raw[localheader.Size:localheader.Size+int(hdr.BLTESize())], s.keys)
}

func (s *Static) Write(_ context.Context, _ key.EKey, _ []byte) (archive.Location, error) {
	return archive.Location{}, &AccessDeniedError{Flavour: s.Flavour(), Operation: "Write", Mode: s.Mode()}
}

func (s *Static) Remove(_ context.Context, _ key.EKey) error {
	return &AccessDeniedError{Flavour: s.Flavour(), Operation: "Remove", Mode: s.Mode()}
}

func (s *Static) Query(_ context.Context, ekey key.EKey) (QueryResult, error) {
	_, ok := s.index.Lookup(ekey)
	return QueryResult{HasData: ok, IsResident: ok}, nil
}

// StateEntry is one result of a batch StateLookup: whether the key has data, and whether it is resident.
type StateEntry struct {
	Key        key.EKey
	HasData    bool
	IsResident bool
}

// StateLookup batches presence checks across keys, matching the reference implementation's
// `state_lookup(keys) -> [(has_data, is_resident)]`.
func (s *Static) StateLookup(keys []key.EKey) []StateEntry {
	located := s.index.LookupBatch(keys)

	results := make([]StateEntry, len(keys))
	for i, k := range keys {
		_, ok := located[k]
		results[i] = StateEntry{Key: k, HasData: ok, IsResident: ok}
	}

	return results
}

// Close releases the container's underlying archive segment handles.
func (s *Static) Close() error {
	return s.archives.Close()
}
