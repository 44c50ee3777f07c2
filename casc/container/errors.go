package container

import (
	"errors"
	"fmt"

	"github.com/ngdp-go/casc/key"
)

// AccessMode gates which operations a container accepts.
type AccessMode int

const (
	// None permits no operations at all.
	None AccessMode = iota
	// ReadOnly permits Read and Query.
	ReadOnly
	// ReadWrite permits Read, Write, Remove and Query.
	ReadWrite
	// Exclusive permits the same operations as ReadWrite. Opening a container Exclusive takes no lock, so it does
	// not stop other opens of the same container.
	Exclusive
)

func (m AccessMode) String() string {
	switch m {
	case None:
		return "None"
	case ReadOnly:
		return "ReadOnly"
	case ReadWrite:
		return "ReadWrite"
	case Exclusive:
		return "Exclusive"
	default:
		return "Unknown"
	}
}

// AccessDeniedError is returned when an operation is forbidden for the container's flavour or access mode
//.
type AccessDeniedError struct {
	Flavour   string
	Operation string
	Mode      AccessMode
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("container: %s denied on %s container (mode %s)", e.Operation, e.Flavour, e.Mode)
}

// ContainerLockedError is returned when another process holds an exclusive lock on the container.
type ContainerLockedError struct {
	Path string
}

func (e *ContainerLockedError) Error() string {
	return fmt.Sprintf("container: %s is locked by another process", e.Path)
}

// TruncatedReadError is returned when a read returns fewer bytes than the index/local-header declared.
type TruncatedReadError struct {
	Key      key.EKey
	Expected int
	Got      int
}

func (e *TruncatedReadError) Error() string {
	return fmt.Sprintf("container: truncated read for %s: expected %d bytes, got %d", e.Key, e.Expected, e.Got)
}

// NotFoundError is returned when query/read finds no location for the requested key.
type NotFoundError struct {
	Key key.EKey
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("container: key not found: %s", e.Key)
}

// InvalidFormatError is returned when a structural invariant is violated.
type InvalidFormatError struct {
	Reason string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("container: invalid format: %s", e.Reason)
}

// ErrTimeout is returned when an operation exceeds its caller-supplied deadline.
var ErrTimeout = errors.New("container: operation timed out")

// FromReferenceCode maps an error code from the reference implementation onto one of the typed errors above
//.
func FromReferenceCode(code int, ekey key.EKey) error {
	switch code {
	case 3:
		return &TruncatedReadError{Key: ekey}
	case 4, 10:
		return &InvalidFormatError{Reason: fmt.Sprintf("reference code %d", code)}
	case 9, 11:
		return &ContainerLockedError{}
	case 7:
		return &TruncatedReadError{Key: ekey}
	default:
		return fmt.Errorf("container: unmapped reference code %d", code)
	}
}
