package blte

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pierrec/lz4/v4"

	"github.com/ngdp-go/casc/cryptoutil"
	"github.com/ngdp-go/casc/keystore"
)

// Decompress fully decodes a BLTE stream held in memory. keyProvider may be nil if the stream is known not to
// contain encrypted chunks; a nil provider encountering a mode-E chunk fails with MissingKeyError.
func Decompress(data []byte, keyProvider keystore.Provider) ([]byte, error) {
	header, err := Parse(data)
	if err != nil {
		return nil, err
	}

	body := data[header.Size():]

	if header.Single() {
		return decodeChunk(body, 0, keyProvider, 0)
	}

	if header.totalCompressedSize() != uint64(len(body)) {
		return nil, ErrChunkTableSizeMismatch
	}

	var out []byte

	offset := 0

	for i, chunk := range header.Chunks {
		raw := body[offset : offset+int(chunk.CompressedSize)]
		offset += int(chunk.CompressedSize)

		if !cryptoutil.Verify(raw, chunk.Checksum) {
			return nil, &ChecksumMismatchError{ChunkIndex: i, Expected: chunk.Checksum, Actual: cryptoutil.Sum(raw)}
		}

		plain, err := decodeChunk(raw, chunk.DecompressedSize, keyProvider, uint32(i))
		if err != nil {
			return nil, fmt.Errorf("blte: chunk %d: %w", i, err)
		}

		out = append(out, plain...)
	}

	return out, nil
}

// decodeChunk dispatches a single mode-prefixed chunk payload to its codec. decompressedSize is advisory (0 means
// "unknown", used for the top-level single-chunk case where the chunk table doesn't exist); when nonzero it is used
// to preallocate and to sanity-check decompression output length.
func decodeChunk(payload []byte, decompressedSize uint32, keyProvider keystore.Provider, chunkIndex uint32) ([]byte, error) {
	if len(payload) == 0 {
		return nil, ErrTruncated
	}

	mode := payload[0]
	rest := payload[1:]

	switch mode {
	case ModeNone:
		return rest, nil

	case ModeZlib:
		return decodeZlib(rest, decompressedSize)

	case ModeLZ4:
		return decodeLZ4(rest, decompressedSize)

	case ModeRecursive:
		return Decompress(rest, keyProvider)

	case ModeEncrypted:
		return decodeEncrypted(rest, decompressedSize, keyProvider, chunkIndex)

	default:
		return nil, &UnknownModeError{Mode: mode}
	}
}

func decodeZlib(compressed []byte, decompressedSize uint32) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, &DecompressionFailedError{Mode: ModeZlib, Err: err}
	}
	defer r.Close()

	out := make([]byte, 0, decompressedSize)

	buf := bytes.NewBuffer(out)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, &DecompressionFailedError{Mode: ModeZlib, Err: err}
	}

	if decompressedSize != 0 && buf.Len() != int(decompressedSize) {
		err := fmt.Errorf("inflated to %d bytes, chunk table declared %d", buf.Len(), decompressedSize)
		return nil, &DecompressionFailedError{Mode: ModeZlib, Err: err}
	}

	return buf.Bytes(), nil
}

// decodeLZ4 decodes an LZ4-mode payload: a 4-byte little-endian decompressed size, then a single LZ4 block.
// decompressedSize, when known from the chunk table, must agree with the declared size.
func decodeLZ4(compressed []byte, decompressedSize uint32) ([]byte, error) {
	if len(compressed) < 4 {
		return nil, &DecompressionFailedError{Mode: ModeLZ4, Err: io.ErrUnexpectedEOF}
	}

	size := binary.LittleEndian.Uint32(compressed[:4])
	if decompressedSize != 0 && size != decompressedSize {
		err := fmt.Errorf("declared size %d does not match chunk table size %d", size, decompressedSize)
		return nil, &DecompressionFailedError{Mode: ModeLZ4, Err: err}
	}

	out := make([]byte, size)

	n, err := lz4.UncompressBlock(compressed[4:], out)
	if err != nil {
		return nil, &DecompressionFailedError{Mode: ModeLZ4, Err: err}
	}

	if uint32(n) != size {
		err := fmt.Errorf("decoded %d bytes, declared %d", n, size)
		return nil, &DecompressionFailedError{Mode: ModeLZ4, Err: err}
	}

	return out, nil
}

// decodeEncrypted parses an encrypted chunk's framing (key id, IV, method, ciphertext), resolves the key via
// keyProvider, decrypts, and recursively dispatches the decrypted payload back through decodeChunk; the decrypted
// bytes are themselves a full mode-prefixed chunk, per the BLTE encrypted-chunk design.
func decodeEncrypted(payload []byte, decompressedSize uint32, keyProvider keystore.Provider, chunkIndex uint32) ([]byte, error) {
	if len(payload) < 1 {
		return nil, ErrKeyIDParse
	}

	keyIDLen := int(payload[0])
	payload = payload[1:]

	// 8-byte ids are what ships today, but any width up to 8 decodes as a little-endian integer of that width.
	if keyIDLen == 0 || keyIDLen > 8 || len(payload) < keyIDLen {
		return nil, ErrKeyIDParse
	}

	var keyID uint64
	for i := keyIDLen - 1; i >= 0; i-- {
		keyID = keyID<<8 | uint64(payload[i])
	}

	payload = payload[keyIDLen:]

	if len(payload) < 1 {
		return nil, ErrKeyIDParse
	}

	ivLen := int(payload[0])
	payload = payload[1:]

	if ivLen != 4 || len(payload) < ivLen {
		return nil, ErrKeyIDParse
	}

	iv := [4]byte(payload[:ivLen])
	payload = payload[ivLen:]

	if len(payload) < 1 {
		return nil, ErrKeyIDParse
	}

	method := payload[0]
	ciphertext := payload[1:]

	if keyProvider == nil {
		return nil, &MissingKeyError{KeyID: keyID}
	}

	key, ok := keyProvider.Key(keyID)
	if !ok {
		return nil, &MissingKeyError{KeyID: keyID}
	}

	nonce := cryptoutil.DeriveChunkIV(iv, chunkIndex)

	plaintext := make([]byte, len(ciphertext))

	switch method {
	case EncryptionSalsa20:
		cryptoutil.Salsa20XOR(plaintext, ciphertext, nonce, cryptoutil.ExtendKey(key))

	case EncryptionARC4:
		material := append(append([]byte{}, key[:]...), nonce[:]...)
		if err := cryptoutil.ARC4XOR(plaintext, ciphertext, material); err != nil {
			return nil, &DecryptionFailedError{Reason: err.Error()}
		}

	default:
		return nil, &UnsupportedEncryptionError{Method: method}
	}

	if len(plaintext) == 0 {
		return nil, &DecryptionFailedError{Reason: "empty plaintext after decrypting chunk"}
	}

	switch plaintext[0] {
	case ModeNone, ModeZlib, ModeLZ4, ModeRecursive, ModeEncrypted:
	default:
		return nil, &DecryptionFailedError{Reason: fmt.Sprintf("invalid inner mode 0x%02x after decrypting chunk", plaintext[0])}
	}

	return decodeChunk(plaintext, decompressedSize, keyProvider, chunkIndex)
}
