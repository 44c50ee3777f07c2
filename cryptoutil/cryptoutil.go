// Package cryptoutil implements the MD5 and stream-cipher primitives used by the BLTE codec: chunk checksums and the
// Salsa20/ARC4 decryption of mode-E chunks.
package cryptoutil

import (
	"crypto/md5" //nolint:gosec // MD5 is mandated by the BLTE wire format, not chosen for security.
	"crypto/rc4"
	"fmt"

	"golang.org/x/crypto/salsa20"
)

// MD5Size is the length in bytes of an MD5 digest.
const MD5Size = md5.Size

// Sum returns the MD5 digest of b.
func Sum(b []byte) [MD5Size]byte {
	return md5.Sum(b) //nolint:gosec
}

// Verify reports whether b's MD5 digest matches expected. An all-zero expected digest always verifies (BLTE's
// "verification skipped" convention).
func Verify(b []byte, expected [MD5Size]byte) bool {
	if expected == ([MD5Size]byte{}) {
		return true
	}

	return Sum(b) == expected
}

// ExtendKey extends a 16-byte BLTE encryption key to the 32 bytes Salsa20 requires, by duplication.
func ExtendKey(key [16]byte) [32]byte {
	var extended [32]byte

	copy(extended[:16], key[:])
	copy(extended[16:], key[:])

	return extended
}

// DeriveChunkIV extends a 4-byte IV to the 8 bytes Salsa20/ARC4 require by duplicating it, then XORs the low 4 bytes
// with chunkIndex encoded little-endian, per the BLTE encrypted-chunk spec.
func DeriveChunkIV(iv [4]byte, chunkIndex uint32) [8]byte {
	var full [8]byte

	copy(full[:4], iv[:])
	copy(full[4:], iv[:])

	full[0] ^= byte(chunkIndex)
	full[1] ^= byte(chunkIndex >> 8)
	full[2] ^= byte(chunkIndex >> 16)
	full[3] ^= byte(chunkIndex >> 24)

	return full
}

// Salsa20XOR decrypts (or encrypts; the cipher is symmetric) src into dst using the given 32-byte key and 8-byte
// nonce, starting at block/counter zero.
func Salsa20XOR(dst, src []byte, nonce [8]byte, key [32]byte) {
	salsa20.XORKeyStream(dst, src, nonce[:], &key)
}

// ARC4XOR decrypts (or encrypts) src into dst using ARC4 keyed with all of key. ARC4 has no nonce; callers that need
// a per-chunk IV fold it into key themselves.
func ARC4XOR(dst, src []byte, key []byte) error {
	c, err := rc4.NewCipher(key)
	if err != nil {
		return fmt.Errorf("cryptoutil: failed to create rc4 cipher: %w", err)
	}

	c.XORKeyStream(dst, src)

	return nil
}
