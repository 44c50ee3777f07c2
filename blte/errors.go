package blte

import "fmt"

// Mode bytes as they appear on the wire, prefixed to each chunk's encoded bytes.
const (
	ModeNone      byte = 'N'
	ModeZlib      byte = 'Z'
	ModeLZ4       byte = '4'
	ModeRecursive byte = 'F'
	ModeEncrypted byte = 'E'
)

// Encryption method bytes, used inside mode-E chunks.
const (
	EncryptionSalsa20 byte = 'S'
	EncryptionARC4    byte = 'A'
)

// ErrBadMagic is returned when the stream does not begin with "BLTE".
var ErrBadMagic = fmt.Errorf("blte: bad magic")

// ErrTruncated is returned when the stream is shorter than its declared structure requires.
var ErrTruncated = fmt.Errorf("blte: truncated stream")

// InvalidHeaderSizeError is returned when the declared chunk-table span is inconsistent with the stream.
type InvalidHeaderSizeError struct {
	HeaderSize uint32
	Required   uint32
}

func (e *InvalidHeaderSizeError) Error() string {
	return fmt.Sprintf("blte: header size %d is too small for its chunk table (needs at least %d)",
		e.HeaderSize, e.Required)
}

// ChecksumMismatchError is returned when a chunk's computed MD5 does not match the value stored in the chunk table.
type ChecksumMismatchError struct {
	ChunkIndex int
	Expected   [16]byte
	Actual     [16]byte
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("blte: checksum mismatch in chunk %d: expected %x, got %x",
		e.ChunkIndex, e.Expected, e.Actual)
}

// UnknownModeError is returned when a chunk's mode byte is not one of N/Z/4/F/E.
type UnknownModeError struct {
	Mode byte
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("blte: unknown compression mode %q (0x%02x)", rune(e.Mode), e.Mode)
}

// UnsupportedEncryptionError is returned when an encrypted chunk names a method other than Salsa20/ARC4.
type UnsupportedEncryptionError struct {
	Method byte
}

func (e *UnsupportedEncryptionError) Error() string {
	return fmt.Sprintf("blte: unsupported encryption method %q (0x%02x)", rune(e.Method), e.Method)
}

// MissingKeyError is returned when an encrypted chunk's key ID is not resolvable via the supplied keystore.Provider.
type MissingKeyError struct {
	KeyID uint64
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("blte: missing decryption key 0x%016x", e.KeyID)
}

// ErrKeyIDParse is returned when an encrypted chunk's key-ID framing is malformed.
var ErrKeyIDParse = fmt.Errorf("blte: failed to parse encrypted chunk key id")

// DecompressionFailedError wraps an error from the underlying zlib/LZ4 codec, or a length mismatch against the
// chunk table's declared decompressed size.
type DecompressionFailedError struct {
	Mode byte
	Err  error
}

func (e *DecompressionFailedError) Error() string {
	return fmt.Sprintf("blte: decompression failed for mode %q: %v", rune(e.Mode), e.Err)
}

func (e *DecompressionFailedError) Unwrap() error {
	return e.Err
}

// DecryptionFailedError is returned when an encrypted chunk fails to decrypt cleanly (size mismatch or invalid
// inner mode byte after decryption).
type DecryptionFailedError struct {
	Reason string
}

func (e *DecryptionFailedError) Error() string {
	return fmt.Sprintf("blte: decryption failed: %s", e.Reason)
}

// ErrChunkTableSizeMismatch is returned when the sum of a multi-chunk stream's declared compressed sizes does not
// equal the number of bytes actually available after the header.
var ErrChunkTableSizeMismatch = fmt.Errorf("blte: chunk table compressed-size sum does not match stream length")
