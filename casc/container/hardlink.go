package container

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ngdp-go/casc/casc/archive"
	"github.com/ngdp-go/casc/key"
)

// HardLink shares bytes across installations via filesystem hard links: writing an EKey that already exists
// elsewhere on the same filesystem links to it instead of copying, falling back to Residency's token-only semantics
// if the hard-link probe fails (e.g. across filesystem boundaries).
type HardLink struct {
	dir      string
	mode     AccessMode
	fallback *Residency
}

// OpenHardLink opens (creating if absent) a hard-link store rooted at dir, with residency as its fallback.
func OpenHardLink(dir string, fallback *Residency, mode AccessMode) (*HardLink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("container: create hardlink directory: %w", err)
	}

	return &HardLink{dir: dir, mode: mode, fallback: fallback}, nil
}

func (h *HardLink) Flavour() string  { return "HardLink" }
func (h *HardLink) Mode() AccessMode { return h.mode }

func (h *HardLink) path(ekey key.EKey) string {
	return filepath.Join(h.dir, ekey.String())
}

func (h *HardLink) Reserve(_ context.Context, _ key.EKey, size int) (int, error) {
	return size, nil
}

func (h *HardLink) Read(_ context.Context, ekey key.EKey) ([]byte, error) {
	path := h.path(ekey)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &NotFoundError{Key: ekey}
	}

	if err != nil {
		return nil, fmt.Errorf("container: hardlink read %s: %w", ekey, err)
	}

	return data, nil
}

// Link creates a hard link at this container's path for ekey pointing at an existing file (typically a loose file
// or another installation's hard-link entry) that already holds the EKey's bytes. If the link fails (e.g. the
// source lives on a different filesystem), it falls back to recording a residency token instead.
func (h *HardLink) Link(ctx context.Context, ekey key.EKey, existing string) error {
	if err := checkMode(h.Flavour(), "Write", h.mode, true); err != nil {
		return err
	}

	dst := h.path(ekey)

	if err := os.Link(existing, dst); err != nil {
		if h.fallback == nil {
			return fmt.Errorf("container: hardlink probe failed for %s and no residency fallback configured: %w", ekey, err)
		}

		stat, statErr := os.Stat(existing)
		if statErr != nil {
			return fmt.Errorf("container: hardlink probe failed for %s: %w", ekey, err)
		}

		_, writeErr := h.fallback.Write(ctx, ekey, make([]byte, stat.Size()))

		return writeErr
	}

	return nil
}

// Write is only valid as a link operation; direct bulk writes are rejected.
func (h *HardLink) Write(_ context.Context, ekey key.EKey, _ []byte) (archive.Location, error) {
	return archive.Location{}, &AccessDeniedError{Flavour: h.Flavour(), Operation: "Write (use Link)", Mode: h.mode}
}

func (h *HardLink) Remove(_ context.Context, ekey key.EKey) error {
	if err := checkMode(h.Flavour(), "Remove", h.mode, true); err != nil {
		return err
	}

	err := os.Remove(h.path(ekey))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("container: hardlink remove %s: %w", ekey, err)
	}

	return nil
}

func (h *HardLink) Query(_ context.Context, ekey key.EKey) (QueryResult, error) {
	_, err := os.Stat(h.path(ekey))
	if err != nil {
		if h.fallback != nil {
			return h.fallback.Query(context.Background(), ekey)
		}

		return QueryResult{}, nil
	}

	return QueryResult{HasData: true, IsResident: true}, nil
}
