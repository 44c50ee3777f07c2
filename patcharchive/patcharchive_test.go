package patcharchive

import (
	"testing"

	"github.com/ngdp-go/casc/key"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	idx := &Index{
		Entries: []Entry{
			{OldKey: key.CKey{1}, NewKey: key.CKey{2}, Offset: 0, Size: 128},
			{OldKey: key.CKey{3}, NewKey: key.CKey{4}, Offset: 128, Size: 256},
		},
	}

	data := Encode(idx)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, idx.Entries, got.Entries)
}

func TestLookup(t *testing.T) {
	idx := &Index{Entries: []Entry{{OldKey: key.CKey{9}, NewKey: key.CKey{10}, Offset: 4, Size: 8}}}

	entry, ok := idx.Lookup(key.CKey{9})
	require.True(t, ok)
	require.Equal(t, key.CKey{10}, entry.NewKey)

	_, ok = idx.Lookup(key.CKey{99})
	require.False(t, ok)
}

func TestDecodeBadMagic(t *testing.T) {
	_, err := Decode([]byte("XXXX\x00\x00\x00\x00"))
	require.Error(t, err)
}

func TestDecodeTruncated(t *testing.T) {
	_, err := Decode([]byte("PT"))
	require.Error(t, err)
}

func TestByNewKey(t *testing.T) {
	idx := &Index{
		Entries: []Entry{
			{OldKey: key.CKey{1}, NewKey: key.CKey{9}},
			{OldKey: key.CKey{2}, NewKey: key.CKey{9}},
		},
	}

	byNew := idx.ByNewKey()
	require.Len(t, byNew[key.CKey{9}], 2)
}
