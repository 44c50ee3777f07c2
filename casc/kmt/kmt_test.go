package kmt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookup3Deterministic(t *testing.T) {
	h1 := Lookup3([]byte("hello world"), 0)
	h2 := Lookup3([]byte("hello world"), 0)
	require.Equal(t, h1, h2)

	h3 := Lookup3([]byte("hello worlD"), 0)
	require.NotEqual(t, h1, h3)
}

func TestTableInsertAndLookup(t *testing.T) {
	table := New()

	for i := 0; i < 60; i++ {
		hash := Hash64([]byte{byte(i)}, 0)
		table.Insert(NewEntry(uint32(i*100), 0, 1, hash))
	}

	require.True(t, len(table.pages) > 1, "60 entries at 25/page should span multiple pages")

	for i := 0; i < 60; i++ {
		hash := Hash64([]byte{byte(i)}, 0)

		e, ok := table.Lookup(hash)
		require.True(t, ok)
		require.Equal(t, uint32(i*100), e.Offset())
	}

	table.Compact()
	require.Equal(t, 0, table.PendingEntries())

	e, ok := table.Lookup(Hash64([]byte{42}, 0))
	require.True(t, ok)
	require.Equal(t, uint32(4200), e.Offset())
}

func TestTableInsertOverwritesPendingEntryInPlace(t *testing.T) {
	table := New()

	hash := Hash64([]byte("same-key"), 0)

	table.Insert(NewEntry(100, 0, 1, hash))
	table.Insert(NewEntry(200, 0, 1, hash))

	require.Equal(t, 1, table.PendingEntries(), "re-inserting a pending key must not grow the update section")

	e, ok := table.Lookup(hash)
	require.True(t, ok)
	require.Equal(t, uint32(200), e.Offset())
}

func TestEntryPackedOffsetFlags(t *testing.T) {
	e := NewEntry(123456, 2, 7, 0xdeadbeef)
	require.Equal(t, uint32(123456), e.Offset())
	require.Equal(t, uint8(2), e.Flags())

	decoded := DecodeEntry(e.Encode())
	require.Equal(t, e, decoded)
}
