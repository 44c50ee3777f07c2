package archive

import "fmt"

// TruncatedReadError is returned when a read at an offset/size runs past the end of a segment file. Callers also
// mark the requested key non-resident in their residency container when they see one.
type TruncatedReadError struct {
	ArchiveID uint16
	Offset    uint64
	Size      uint32
	Available uint64
}

func (e *TruncatedReadError) Error() string {
	return fmt.Sprintf("archive: truncated read in %s at offset %d: need %d bytes, have %d available",
		Name(e.ArchiveID), e.Offset, e.Size, e.Available)
}

// SealedError is returned when a write is attempted against a segment that has already been sealed by rollover.
type SealedError struct {
	ArchiveID uint16
}

func (e *SealedError) Error() string {
	return fmt.Sprintf("archive: %s is sealed and no longer accepts writes", Name(e.ArchiveID))
}
