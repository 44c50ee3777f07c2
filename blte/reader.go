package blte

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ngdp-go/casc/cryptoutil"
	"github.com/ngdp-go/casc/freelist"
	"github.com/ngdp-go/casc/keystore"
)

// Reader decodes a BLTE stream lazily, one chunk at a time, buffering at most one decoded chunk in memory. The
// header is parsed eagerly in NewReader, and each Read call drains a chunk-sized plaintext buffer before decoding
// the next chunk from the underlying io.Reader.
type Reader struct {
	src         io.Reader
	keyProvider keystore.Provider
	header      *Header

	chunkIndex int
	buf        bytes.Buffer
	done       bool

	// rawPool holds a single reusable scratch buffer for a chunk's compressed bytes. Only one chunk is ever read
	// at a time, so a capacity-1 pool avoids a fresh allocation on every advance() once chunk sizes stabilise.
	rawPool freelist.FreeList[[]byte]
}

// NewReader reads and parses a BLTE header from src, then returns a Reader ready to stream decoded plaintext.
// keyProvider may be nil if the stream is known not to contain encrypted chunks.
func NewReader(src io.Reader, keyProvider keystore.Provider) (*Reader, error) {
	preamble := make([]byte, PreambleSize)
	if _, err := io.ReadFull(src, preamble); err != nil {
		return nil, fmt.Errorf("blte: reading preamble: %w", ErrTruncated)
	}

	if [4]byte(preamble[:4]) != Magic {
		return nil, ErrBadMagic
	}

	headerSize := binary.BigEndian.Uint32(preamble[4:8])

	h := &Header{HeaderSize: headerSize}

	if headerSize > 0 {
		table := make([]byte, headerSize)
		if _, err := io.ReadFull(src, table); err != nil {
			return nil, fmt.Errorf("blte: reading chunk table: %w", ErrTruncated)
		}

		parsed, err := Parse(append(preamble, table...))
		if err != nil {
			return nil, err
		}

		h = parsed
	}

	return &Reader{src: src, keyProvider: keyProvider, header: h, rawPool: freelist.NewFreeList[[]byte](1)}, nil
}

// borrowRaw returns a scratch buffer of length n, reusing the pooled one when it is large enough.
func (r *Reader) borrowRaw(n int) []byte {
	if buf, ok := r.rawPool.TryGet(); ok {
		if cap(buf) >= n {
			return buf[:n]
		}
	}

	return make([]byte, n)
}

// returnRaw gives buf back to the pool for the next advance() call.
func (r *Reader) returnRaw(buf []byte) {
	_ = r.rawPool.Put(context.Background(), buf) //nolint:errcheck
}

// Read implements io.Reader, decoding chunks on demand.
func (r *Reader) Read(p []byte) (int, error) {
	for r.buf.Len() == 0 {
		if r.done {
			return 0, io.EOF
		}

		if err := r.advance(); err != nil {
			return 0, err
		}
	}

	return r.buf.Read(p)
}

// advance decodes the next chunk into r.buf, or marks the reader done.
func (r *Reader) advance() error {
	if r.header.Single() {
		if r.chunkIndex > 0 {
			r.done = true
			return nil
		}

		raw, err := io.ReadAll(r.src)
		if err != nil {
			return fmt.Errorf("blte: reading single chunk body: %w", err)
		}

		plain, err := decodeChunk(raw, 0, r.keyProvider, 0)
		if err != nil {
			return err
		}

		r.buf.Write(plain)
		r.chunkIndex++
		r.done = true

		return nil
	}

	if r.chunkIndex >= len(r.header.Chunks) {
		r.done = true
		return nil
	}

	info := r.header.Chunks[r.chunkIndex]

	raw := r.borrowRaw(int(info.CompressedSize))
	if _, err := io.ReadFull(r.src, raw); err != nil {
		return fmt.Errorf("blte: reading chunk %d: %w", r.chunkIndex, ErrTruncated)
	}

	if !cryptoutil.Verify(raw, info.Checksum) {
		return &ChecksumMismatchError{ChunkIndex: r.chunkIndex, Expected: info.Checksum, Actual: cryptoutil.Sum(raw)}
	}

	plain, err := decodeChunk(raw, info.DecompressedSize, r.keyProvider, uint32(r.chunkIndex))
	if err != nil {
		return fmt.Errorf("blte: chunk %d: %w", r.chunkIndex, err)
	}

	// plain may alias raw (mode N returns its tail directly); copy into r.buf before the buffer goes back to the
	// pool for the next chunk.
	r.buf.Write(plain)
	r.returnRaw(raw)
	r.chunkIndex++

	if r.chunkIndex >= len(r.header.Chunks) {
		r.done = true
	}

	return nil
}
