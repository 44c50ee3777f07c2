package blte

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zlib"
	"github.com/pierrec/lz4/v4"

	"github.com/ngdp-go/casc/cryptoutil"
)

// EncodeSingle produces a single-chunk BLTE stream (HeaderSize == 0) from plaintext, compressed with the given mode.
// Single-chunk streams carry no checksum table; the mode byte and payload are the entire body.
func EncodeSingle(plaintext []byte, mode byte) ([]byte, error) {
	payload, err := encodeChunkPayload(mode, plaintext)
	if err != nil {
		return nil, err
	}

	return append(encodePreamble(0), payload...), nil
}

// ChunkPlan describes one chunk of a multi-chunk encode: its plaintext and the mode to compress it with.
type ChunkPlan struct {
	Plaintext []byte
	Mode      byte
}

// EncodeMulti produces a multi-chunk BLTE stream where every chunk uses the same mode.
func EncodeMulti(chunks [][]byte, mode byte) ([]byte, error) {
	plans := make([]ChunkPlan, len(chunks))
	for i, c := range chunks {
		plans[i] = ChunkPlan{Plaintext: c, Mode: mode}
	}

	return EncodeHeterogeneous(plans)
}

// EncodeHeterogeneous produces a multi-chunk BLTE stream where each chunk may use a different compression mode,
// since every chunk's payload begins with its own mode byte.
func EncodeHeterogeneous(plans []ChunkPlan) ([]byte, error) {
	infos := make([]ChunkInfo, len(plans))
	bodies := make([][]byte, len(plans))

	for i, plan := range plans {
		payload, err := encodeChunkPayload(plan.Mode, plan.Plaintext)
		if err != nil {
			return nil, fmt.Errorf("blte: encoding chunk %d: %w", i, err)
		}

		bodies[i] = payload
		infos[i] = ChunkInfo{
			CompressedSize:   uint32(len(payload)),
			DecompressedSize: uint32(len(plan.Plaintext)),
			Checksum:         cryptoutil.Sum(payload),
		}
	}

	table, headerSize := encodeChunkTable(0x0F, infos)

	out := append(encodePreamble(headerSize), table...)
	for _, body := range bodies {
		out = append(out, body...)
	}

	return out, nil
}

// EncodeEncrypted produces a single-chunk BLTE stream whose sole chunk is a mode-E wrapper around innerMode-encoded
// plaintext, encrypted with the given method (EncryptionSalsa20 or EncryptionARC4) under key/keyID/iv. The
// decrypted payload recovered by decodeChunk is exactly innerMode's own encoded bytes, matching decodeEncrypted's
// expectations.
func EncodeEncrypted(plaintext []byte, innerMode, method byte, keyID uint64, key [16]byte, iv [4]byte, chunkIndex uint32) ([]byte, error) {
	inner, err := encodeChunkPayload(innerMode, plaintext)
	if err != nil {
		return nil, err
	}

	nonce := cryptoutil.DeriveChunkIV(iv, chunkIndex)

	ciphertext := make([]byte, len(inner))

	switch method {
	case EncryptionSalsa20:
		cryptoutil.Salsa20XOR(ciphertext, inner, nonce, cryptoutil.ExtendKey(key))

	case EncryptionARC4:
		material := append(append([]byte{}, key[:]...), nonce[:]...)
		if err := cryptoutil.ARC4XOR(ciphertext, inner, material); err != nil {
			return nil, fmt.Errorf("blte: arc4 encrypt: %w", err)
		}

	default:
		return nil, &UnsupportedEncryptionError{Method: method}
	}

	var framed bytes.Buffer

	framed.WriteByte(8)

	keyIDBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(keyIDBytes, keyID)
	framed.Write(keyIDBytes)

	framed.WriteByte(4)
	framed.Write(iv[:])

	framed.WriteByte(method)
	framed.Write(ciphertext)

	payload := append([]byte{ModeEncrypted}, framed.Bytes()...)

	return append(encodePreamble(0), payload...), nil
}

// encodeChunkPayload compresses plaintext under mode and prefixes the mode byte, producing the bytes that belong in
// a chunk table entry's compressed span (and whose MD5 is what the chunk table checksum covers).
func encodeChunkPayload(mode byte, plaintext []byte) ([]byte, error) {
	var body []byte

	switch mode {
	case ModeNone:
		body = plaintext

	case ModeZlib:
		var buf bytes.Buffer

		w := zlib.NewWriter(&buf)
		if _, err := w.Write(plaintext); err != nil {
			return nil, fmt.Errorf("blte: zlib compress: %w", err)
		}

		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("blte: zlib compress: %w", err)
		}

		body = buf.Bytes()

	case ModeLZ4:
		compressed := make([]byte, 4+lz4.CompressBlockBound(len(plaintext)))
		binary.LittleEndian.PutUint32(compressed[:4], uint32(len(plaintext)))

		var c lz4.Compressor

		n, err := c.CompressBlock(plaintext, compressed[4:])
		if err != nil {
			return nil, fmt.Errorf("blte: lz4 compress: %w", err)
		}

		if n == 0 {
			// Incompressible input: store it as a single literal-only sequence, which is still a valid block.
			body = append(compressed[:4:4], rawLZ4Block(plaintext)...)
		} else {
			body = compressed[:4+n]
		}

	case ModeRecursive:
		encoded, err := EncodeSingle(plaintext, ModeNone)
		if err != nil {
			return nil, err
		}

		body = encoded

	default:
		return nil, &UnknownModeError{Mode: mode}
	}

	return append([]byte{mode}, body...), nil
}

// rawLZ4Block wraps src in a literal-only LZ4 block (token + extended literal length + literals), used when the
// block compressor reports the input incompressible.
func rawLZ4Block(src []byte) []byte {
	out := make([]byte, 0, len(src)+2+len(src)/255)

	if n := len(src); n < 15 {
		out = append(out, byte(n)<<4)
	} else {
		out = append(out, 0xF0)

		for rem := n - 15; ; rem -= 255 {
			if rem < 255 {
				out = append(out, byte(rem))
				break
			}

			out = append(out, 255)
		}
	}

	return append(out, src...)
}
