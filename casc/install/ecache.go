package install

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/ngdp-go/casc/casc/archive"
	"github.com/ngdp-go/casc/databases/sqlite"
	"github.com/ngdp-go/casc/key"
)

// ECache is the e-header preservation set: a record of every EKey's last-known archive location, kept so a local
// header can be re-derived without re-scanning segments after an index rebuild. Kept as a small SQLite table (key
// hex, archive id, offset, size, last-seen) rather than loose files, so lookups and pruning are plain SQL.
type ECache struct {
	db *sql.DB
}

// openECache opens (creating if absent) the ecache database at dir/ecache.db.
func openECache(dir string) (*ECache, error) {
	path := filepath.Join(dir, "ecache.db")

	db, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("install: open ecache db: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS ecache (
		ekey TEXT PRIMARY KEY,
		archive_id INTEGER NOT NULL,
		offset INTEGER NOT NULL,
		size INTEGER NOT NULL,
		last_seen INTEGER NOT NULL
	);`

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("install: create ecache schema: %w", err)
	}

	return &ECache{db: db}, nil
}

// Record upserts ekey's last-known location, stamping lastSeen (a caller-supplied monotonic counter or epoch
// second; this package never calls time.Now itself so callers control the clock source).
func (e *ECache) Record(ekey key.EKey, loc archive.Location, lastSeen int64) error {
	const stmt = `INSERT INTO ecache (ekey, archive_id, offset, size, last_seen) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(ekey) DO UPDATE SET
			archive_id = excluded.archive_id,
			offset = excluded.offset,
			size = excluded.size,
			last_seen = excluded.last_seen;`

	_, err := e.db.Exec(stmt, ekey.String(), loc.ArchiveID, loc.Offset, loc.Size, lastSeen)
	if err != nil {
		return fmt.Errorf("install: record ecache entry %s: %w", ekey, err)
	}

	return nil
}

// Lookup returns the last-recorded location for ekey, if present.
func (e *ECache) Lookup(ekey key.EKey) (archive.Location, bool, error) {
	var loc archive.Location

	row := e.db.QueryRow(`SELECT archive_id, offset, size FROM ecache WHERE ekey = ?;`, ekey.String())

	err := row.Scan(&loc.ArchiveID, &loc.Offset, &loc.Size)
	if err == sql.ErrNoRows {
		return archive.Location{}, false, nil
	}

	if err != nil {
		return archive.Location{}, false, fmt.Errorf("install: lookup ecache entry %s: %w", ekey, err)
	}

	return loc, true, nil
}

// Forget removes ekey's entry, used when a key is confirmed gone during repair.
func (e *ECache) Forget(ekey key.EKey) error {
	_, err := e.db.Exec(`DELETE FROM ecache WHERE ekey = ?;`, ekey.String())
	if err != nil {
		return fmt.Errorf("install: forget ecache entry %s: %w", ekey, err)
	}

	return nil
}

// Close releases the underlying database handle.
func (e *ECache) Close() error {
	return e.db.Close()
}
