package tvfs

import (
	"testing"

	"github.com/ngdp-go/casc/key"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := NewHeader(FlagIncludeCKey)
	h.PathTableOffset = 38
	h.PathTableSize = 10
	h.VFSTableOffset = 48
	h.VFSTableSize = 0
	h.CFTTableOffset = 48
	h.CFTTableSize = 20
	h.MaxDepth = 3

	encoded := h.Encode()
	require.Len(t, encoded, baseHeaderSize)

	decoded, err := DecodeHeader(encoded)
	require.NoError(t, err)
	require.Equal(t, h.PathTableOffset, decoded.PathTableOffset)
	require.Equal(t, h.MaxDepth, decoded.MaxDepth)
	require.True(t, decoded.IncludesContentKeys())
}

func TestHeaderWithEncodingSpec(t *testing.T) {
	h := NewHeader(FlagEncodingSpec)
	h.ESTTableOffset = 100
	h.ESTTableSize = 20

	encoded := h.Encode()
	require.Len(t, encoded, fullHeaderSize)

	decoded, err := DecodeHeader(encoded)
	require.NoError(t, err)
	require.True(t, decoded.HasEncodingSpec())
	require.Equal(t, uint32(100), decoded.ESTTableOffset)
}

func TestHeaderBadMagic(t *testing.T) {
	data := make([]byte, baseHeaderSize)
	copy(data, "XXXX")

	_, err := DecodeHeader(data)
	require.Error(t, err)
}

func TestVarintRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 127, 128, 255, 16384, 0x0FFFFFFF}

	for _, v := range values {
		buf := WriteVarint(nil, v)
		require.Len(t, buf, VarintSize(v))

		offset := 0
		got, err := ReadVarint(buf, &offset)
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, len(buf), offset)
	}
}

func TestCFTRoundTrip(t *testing.T) {
	h := NewHeader(0)

	entries := []CFTEntry{
		{Spans: []Span{{EKey: key.Truncated{1, 2, 3}, Offset: 0, Size: 64}}},
		{Spans: []Span{
			{EKey: key.Truncated{4}, Offset: 0, Size: 32},
			{EKey: key.Truncated{5}, Offset: 32, Size: 32},
		}},
	}

	data := EncodeCFT(entries, h)

	got, err := DecodeCFT(data, h)
	require.NoError(t, err)
	require.Equal(t, entries, got)
}

func TestPathTableRoundTrip(t *testing.T) {
	entries := []PathEntry{
		{Path: "Interface/FrameXML/UIParent.lua", CFTIndex: 0},
		{Path: "World/Generic/human/passivedoodads/checkpoint.m2", CFTIndex: 1},
	}

	data := EncodePathTable(entries)

	got, err := DecodePathTable(data)
	require.NoError(t, err)
	require.Equal(t, entries, got)
}

func TestReaderLookup(t *testing.T) {
	h := NewHeader(0)

	cftEntries := []CFTEntry{
		{Spans: []Span{{EKey: key.Truncated{9, 9, 9}, Offset: 0, Size: 100}}},
	}

	pathEntries := []PathEntry{{Path: "README.txt", CFTIndex: 0}}

	cftData := EncodeCFT(cftEntries, h)
	pathData := EncodePathTable(pathEntries)

	h.PathTableOffset = uint32(baseHeaderSize)
	h.PathTableSize = uint32(len(pathData))
	h.CFTTableOffset = h.PathTableOffset + h.PathTableSize
	h.CFTTableSize = uint32(len(cftData))

	blob := h.Encode()
	blob = append(blob, pathData...)
	blob = append(blob, cftData...)

	reader, err := NewReader(blob)
	require.NoError(t, err)

	entry, ok := reader.Lookup("README.txt")
	require.True(t, ok)
	require.EqualValues(t, 100, entry.TotalSize())

	_, ok = reader.Lookup("missing.txt")
	require.False(t, ok)
}
