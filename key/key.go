// Package key implements the fixed-size content/encoding key identifiers shared by the BLTE codec and the CASC
// storage engine.
package key

import (
	"encoding/hex"
	"fmt"
)

// Size is the length in bytes of an EKey/CKey.
const Size = 16

// TruncatedSize is the length of a key once truncated for storage in a '.idx'/'.index' entry.
const TruncatedSize = 9

// NumBuckets is the number of buckets a key's bucket hash may resolve to.
const NumBuckets = 16

// EKey is a 16-byte encoding key: the MD5 of an assembled BLTE stream.
type EKey [Size]byte

// CKey is a 16-byte content key: the MD5 of decompressed content.
type CKey [Size]byte

// Truncated is the first 9 bytes of a key, as stored in '.idx'/'.index' entries.
type Truncated [TruncatedSize]byte

// Parse decodes a lowercase (or mixed case) hex string into an EKey.
func Parse(s string) (EKey, error) {
	var k EKey

	if len(s) != Size*2 {
		return k, fmt.Errorf("key: expected %d hex characters, got %d", Size*2, len(s))
	}

	n, err := hex.Decode(k[:], []byte(s))
	if err != nil {
		return k, fmt.Errorf("key: %w", err)
	}

	if n != Size {
		return k, fmt.Errorf("key: short decode, got %d bytes", n)
	}

	return k, nil
}

// ParseCKey decodes a hex string into a CKey.
func ParseCKey(s string) (CKey, error) {
	e, err := Parse(s)
	return CKey(e), err
}

// String returns the lowercase hex representation of the key.
func (k EKey) String() string {
	return hex.EncodeToString(k[:])
}

// String returns the lowercase hex representation of the key.
func (k CKey) String() string {
	return hex.EncodeToString(k[:])
}

// Bucket returns the bucket (0-15) that this key's entries live in: the XOR of all 16 bytes, masked to the low 4
// bits.
func (k EKey) Bucket() uint8 {
	return bucket(k[:])
}

// Bucket returns the bucket (0-15) that this key's entries live in.
func (k CKey) Bucket() uint8 {
	return bucket(k[:])
}

func bucket(b []byte) uint8 {
	var x byte
	for _, v := range b {
		x ^= v
	}

	return x & 0x0F
}

// Truncate returns the first 9 bytes of the key, as used by on-disk index entries.
func (k EKey) Truncate() Truncated {
	var t Truncated
	copy(t[:], k[:TruncatedSize])

	return t
}

// Reverse returns the key with its byte order reversed, matching the on-disk order used by local headers.
func (k EKey) Reverse() EKey {
	var r EKey
	for i := range k {
		r[i] = k[Size-1-i]
	}

	return r
}

// Less reports whether k sorts before other, comparing bytes in order. Used to keep sorted index sections
// monotonically increasing.
func (t Truncated) Less(other Truncated) bool {
	for i := 0; i < TruncatedSize; i++ {
		if t[i] != other[i] {
			return t[i] < other[i]
		}
	}

	return false
}

// String returns the lowercase hex representation of the truncated key.
func (t Truncated) String() string {
	return hex.EncodeToString(t[:])
}

// IsZero reports whether the key is all-zero (used to detect "verification skipped" MD5 fields).
func (k EKey) IsZero() bool {
	for _, b := range k {
		if b != 0 {
			return false
		}
	}

	return true
}
