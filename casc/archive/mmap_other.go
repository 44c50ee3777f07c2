//go:build !linux && !darwin
// +build !linux,!darwin

package archive

import (
	"errors"
	"os"
)

// errMmapUnsupported signals Segment to silently fall back to positional reads on platforms without a wired mmap
// syscall.
var errMmapUnsupported = errors.New("archive: mmap not supported on this platform")

func mmapFile(_ *os.File, _ int64) ([]byte, error) {
	return nil, errMmapUnsupported
}

func munmapFile(_ []byte) error {
	return nil
}
