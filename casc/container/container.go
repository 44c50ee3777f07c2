// Package container implements the four on-disk container flavours that make up a CASC installation's storage
// model: Dynamic (primary read-write), Static (sealed read-only archives), Residency (download-token tracking), and
// HardLink (filesystem-shared bytes). All four share one contract: a single interface with flavour-specific
// implementations behind it.
package container

import (
	"context"

	"github.com/ngdp-go/casc/casc/archive"
	"github.com/ngdp-go/casc/key"
)

// QueryResult reports whether a key is present, and whether it is resident (fully downloaded, as opposed to merely
// known-to-exist), for a given container.
type QueryResult struct {
	HasData    bool
	IsResident bool
}

// Container is the shared contract for all four container flavours. Implementations are a closed set
// (Dynamic/Static/Residency/HardLink); callers switch on Flavour rather than treat Container as an open set of
// implementations.
type Container interface {
	// Flavour identifies which of the four kinds this container is.
	Flavour() string

	// Mode returns the access mode this container was opened with.
	Mode() AccessMode

	// Reserve allocates space for size bytes ahead of a write, returning an opaque reservation handle implementations
	// may ignore (most flavours reserve nothing and return size unchanged).
	Reserve(ctx context.Context, ekey key.EKey, size int) (int, error)

	// Read returns the bytes stored for ekey, or a *NotFoundError if absent.
	Read(ctx context.Context, ekey key.EKey) ([]byte, error)

	// Write stores data for ekey. Flavours that cannot store bulk data (Static) or only link it (HardLink) return
	// *AccessDeniedError or perform the link instead, per their own semantics.
	Write(ctx context.Context, ekey key.EKey, data []byte) (archive.Location, error)

	// Remove deletes ekey from this container, if present.
	Remove(ctx context.Context, ekey key.EKey) error

	// Query reports whether ekey is present (and resident) in this container, without reading its bytes.
	Query(ctx context.Context, ekey key.EKey) (QueryResult, error)
}

// checkMode returns an *AccessDeniedError if mode does not permit the named operation, using write to distinguish
// mutating operations (require at least ReadWrite) from read operations (require at least ReadOnly).
func checkMode(flavour, operation string, mode AccessMode, write bool) error {
	if mode == None {
		return &AccessDeniedError{Flavour: flavour, Operation: operation, Mode: mode}
	}

	if write && mode == ReadOnly {
		return &AccessDeniedError{Flavour: flavour, Operation: operation, Mode: mode}
	}

	return nil
}
