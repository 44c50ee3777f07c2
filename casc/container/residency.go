package container

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/ngdp-go/casc/casc/archive"
	"github.com/ngdp-go/casc/databases/sqlite"
	"github.com/ngdp-go/casc/key"
)

// Residency tracks which EKeys have been downloaded without storing bulk data: a write records a small token (the
// EKey and its size), not the content bytes. Token state lives in a SQLite database rather than a bespoke file
// format.
type Residency struct {
	db   *sql.DB
	mode AccessMode
}

// OpenResidency opens (creating if absent) a residency token database at dir/residency.db.
func OpenResidency(dir string, mode AccessMode) (*Residency, error) {
	path := filepath.Join(dir, "residency.db")

	db, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("container: open residency db: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS residency (
		ekey TEXT PRIMARY KEY,
		size INTEGER NOT NULL
	);`

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("container: create residency schema: %w", err)
	}

	return &Residency{db: db, mode: mode}, nil
}

func (r *Residency) Flavour() string  { return "Residency" }
func (r *Residency) Mode() AccessMode { return r.mode }

func (r *Residency) Reserve(_ context.Context, _ key.EKey, size int) (int, error) {
	return size, nil
}

// Read is unsupported: a residency container stores no bulk data, only tokens. Present callers should treat a
// residency hit as "go fetch the bytes elsewhere".
func (r *Residency) Read(_ context.Context, ekey key.EKey) ([]byte, error) {
	return nil, &NotFoundError{Key: ekey}
}

// Write records a download token for ekey (its size), discarding data's content.
func (r *Residency) Write(_ context.Context, ekey key.EKey, data []byte) (archive.Location, error) {
	if err := checkMode(r.Flavour(), "Write", r.mode, true); err != nil {
		return archive.Location{}, err
	}

	const stmt = `INSERT INTO residency (ekey, size) VALUES (?, ?)
		ON CONFLICT(ekey) DO UPDATE SET size = excluded.size;`

	if _, err := r.db.Exec(stmt, ekey.String(), len(data)); err != nil {
		return archive.Location{}, fmt.Errorf("container: write residency token %s: %w", ekey, err)
	}

	return archive.Location{}, nil
}

func (r *Residency) Remove(_ context.Context, ekey key.EKey) error {
	if err := checkMode(r.Flavour(), "Remove", r.mode, true); err != nil {
		return err
	}

	if _, err := r.db.Exec(`DELETE FROM residency WHERE ekey = ?;`, ekey.String()); err != nil {
		return fmt.Errorf("container: remove residency token %s: %w", ekey, err)
	}

	return nil
}

func (r *Residency) Query(_ context.Context, ekey key.EKey) (QueryResult, error) {
	var size int64

	err := r.db.QueryRow(`SELECT size FROM residency WHERE ekey = ?;`, ekey.String()).Scan(&size)
	if err == sql.ErrNoRows {
		return QueryResult{}, nil
	}

	if err != nil {
		return QueryResult{}, fmt.Errorf("container: query residency token %s: %w", ekey, err)
	}

	return QueryResult{HasData: true, IsResident: true}, nil
}

// MarkNonResident clears the residency token for ekey, used when a TruncatedRead indicates the bytes are no longer
// trustworthy.
func (r *Residency) MarkNonResident(ctx context.Context, ekey key.EKey) error {
	return r.Remove(ctx, ekey)
}

// Close releases the underlying database handle.
func (r *Residency) Close() error {
	return r.db.Close()
}
