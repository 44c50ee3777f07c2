// Package loose implements the loose-file store: a flat directory of EKey-hex-named files holding content that has
// not yet been committed into an archive segment.
package loose

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ngdp-go/casc/blte"
	"github.com/ngdp-go/casc/fsutil"
	"github.com/ngdp-go/casc/key"
	"github.com/ngdp-go/casc/keystore"
)

// Store is a directory of loose, individually-named BLTE (or raw) blobs keyed by EKey.
type Store struct {
	Dir string
}

// Open returns a Store rooted at dir, creating dir if it does not already exist.
func Open(dir string) (*Store, error) {
	if err := fsutil.Mkdir(dir, 0, true, true); err != nil {
		return nil, fmt.Errorf("loose: create store directory: %w", err)
	}

	return &Store{Dir: dir}, nil
}

// path returns the on-disk path for ekey's loose file.
func (s *Store) path(ekey key.EKey) string {
	return filepath.Join(s.Dir, ekey.String())
}

// Has reports whether a loose file exists for ekey.
func (s *Store) Has(ekey key.EKey) (bool, error) {
	return fsutil.FileExists(s.path(ekey))
}

// Write atomically creates (or overwrites) the loose file for ekey with data, via rename-into-place so a reader
// never observes a partially written file.
func (s *Store) Write(ekey key.EKey, data []byte) error {
	return fsutil.Atomic(s.path(ekey), func(temp string) error {
		return fsutil.WriteFile(temp, data, 0o644)
	})
}

// Read returns the raw bytes stored for ekey, without attempting BLTE decode.
func (s *Store) Read(ekey key.EKey) ([]byte, error) {
	path := s.path(ekey)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loose: read %s: %w", path, err)
	}

	return data, nil
}

// Decode reads ekey's loose file and, if it carries a BLTE magic, decompresses it; otherwise the raw bytes are
// returned unmodified (loose files are not always BLTE-wrapped, e.g. plain install manifests). keyProvider may be
// nil if the file is known not to contain encrypted chunks.
func (s *Store) Decode(ekey key.EKey, keyProvider keystore.Provider) ([]byte, error) {
	data, err := s.Read(ekey)
	if err != nil {
		return nil, err
	}

	if !IsBLTE(data) {
		return data, nil
	}

	return blte.Decompress(data, keyProvider)
}

// IsBLTE reports whether data begins with the BLTE magic.
func IsBLTE(data []byte) bool {
	return bytes.HasPrefix(data, blte.Magic[:])
}

// Remove deletes the loose file for ekey, if present; removing an absent file is not an error.
func (s *Store) Remove(ekey key.EKey) error {
	path := s.path(ekey)

	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loose: remove %s: %w", path, err)
	}

	return nil
}

// List returns the EKeys of every valid loose file currently in the store, skipping any entries that do not parse
// as hex-encoded keys (e.g. leftover '.temporary_*' files from an interrupted Atomic write).
func (s *Store) List() ([]key.EKey, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("loose: list %s: %w", s.Dir, err)
	}

	keys := make([]key.EKey, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ekey, err := key.Parse(entry.Name())
		if err != nil {
			continue
		}

		keys = append(keys, ekey)
	}

	return keys, nil
}
