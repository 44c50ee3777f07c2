package blte

import (
	"encoding/binary"
)

// Magic is the 4-byte signature every BLTE stream begins with.
var Magic = [4]byte{'B', 'L', 'T', 'E'}

// PreambleSize is the length of the magic+header_size prefix, before the (possibly absent) chunk table.
const PreambleSize = 8

// ChunkEntrySize is the on-wire size of a single chunk-table entry: 4-byte compressed size, 4-byte decompressed
// size, 16-byte MD5 checksum.
const ChunkEntrySize = 24

// ChunkTablePrefixSize is the 1-byte flag plus 3-byte big-endian chunk count that precedes the entries themselves.
const ChunkTablePrefixSize = 4

// ChunkInfo is one entry of a multi-chunk BLTE chunk table.
type ChunkInfo struct {
	CompressedSize   uint32
	DecompressedSize uint32
	Checksum         [16]byte
}

// Header is a parsed BLTE preamble plus (if present) chunk table. A single-chunk stream (HeaderSize == 0) has a nil
// Chunks slice; the whole remainder of the stream is that one chunk's encoded payload, with no checksum to verify.
type Header struct {
	HeaderSize uint32
	Flag       byte
	Chunks     []ChunkInfo
}

// Single reports whether this is a single-chunk stream (HeaderSize == 0, no chunk table).
func (h *Header) Single() bool {
	return h.HeaderSize == 0
}

// Size returns the total number of header bytes this Header occupies on the wire, including the 8-byte preamble.
func (h *Header) Size() int {
	return PreambleSize + int(h.HeaderSize)
}

// Parse reads a BLTE header (preamble and, if present, chunk table) from the front of data. It returns the parsed
// Header; callers use Header.Size() to find where the chunk payloads begin.
func Parse(data []byte) (*Header, error) {
	if len(data) < PreambleSize {
		return nil, ErrTruncated
	}

	if [4]byte(data[:4]) != Magic {
		return nil, ErrBadMagic
	}

	headerSize := binary.BigEndian.Uint32(data[4:8])

	h := &Header{HeaderSize: headerSize}

	if headerSize == 0 {
		return h, nil
	}

	if int(headerSize) < ChunkTablePrefixSize {
		return nil, &InvalidHeaderSizeError{HeaderSize: headerSize, Required: ChunkTablePrefixSize}
	}

	if len(data) < PreambleSize+int(headerSize) {
		return nil, ErrTruncated
	}

	table := data[PreambleSize : PreambleSize+int(headerSize)]

	h.Flag = table[0]
	count := int(table[1])<<16 | int(table[2])<<8 | int(table[3])

	required := ChunkTablePrefixSize + count*ChunkEntrySize
	if int(headerSize) < required {
		return nil, &InvalidHeaderSizeError{HeaderSize: headerSize, Required: uint32(required)}
	}

	h.Chunks = make([]ChunkInfo, count)

	entries := table[ChunkTablePrefixSize:]
	for i := 0; i < count; i++ {
		entry := entries[i*ChunkEntrySize : (i+1)*ChunkEntrySize]

		h.Chunks[i] = ChunkInfo{
			CompressedSize:   binary.BigEndian.Uint32(entry[0:4]),
			DecompressedSize: binary.BigEndian.Uint32(entry[4:8]),
			Checksum:         [16]byte(entry[8:24]),
		}
	}

	return h, nil
}

// totalCompressedSize sums every chunk's declared compressed size, used to validate a multi-chunk stream's length.
func (h *Header) totalCompressedSize() uint64 {
	var total uint64
	for _, c := range h.Chunks {
		total += uint64(c.CompressedSize)
	}

	return total
}

// encodeChunkTable serializes the flag byte and chunk entries (but not the 8-byte preamble) for a multi-chunk
// stream, returning the bytes that belong at offset 8 and the header_size value that describes them.
func encodeChunkTable(flag byte, chunks []ChunkInfo) (table []byte, headerSize uint32) {
	n := len(chunks)
	size := ChunkTablePrefixSize + n*ChunkEntrySize
	table = make([]byte, size)

	table[0] = flag
	table[1] = byte(n >> 16)
	table[2] = byte(n >> 8)
	table[3] = byte(n)

	for i, c := range chunks {
		entry := table[ChunkTablePrefixSize+i*ChunkEntrySize : ChunkTablePrefixSize+(i+1)*ChunkEntrySize]
		binary.BigEndian.PutUint32(entry[0:4], c.CompressedSize)
		binary.BigEndian.PutUint32(entry[4:8], c.DecompressedSize)
		copy(entry[8:24], c.Checksum[:])
	}

	return table, uint32(size)
}

func encodePreamble(headerSize uint32) []byte {
	buf := make([]byte, PreambleSize)
	copy(buf[:4], Magic[:])
	binary.BigEndian.PutUint32(buf[4:8], headerSize)

	return buf
}
