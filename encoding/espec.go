package encoding

import (
	"bytes"
	"fmt"
)

// ESpecTable is the null-terminated list of BLTE encoding-spec strings referenced by index from the
// EKey -> ESpec page table.
type ESpecTable struct {
	entries []string
}

// DecodeESpecTable splits a raw espec block (exactly header.ESpecBlockSize bytes) into its constituent
// null-terminated strings.
func DecodeESpecTable(data []byte) (ESpecTable, error) {
	var entries []string

	start := 0
	for i, b := range data {
		if b != 0 {
			continue
		}

		entries = append(entries, string(data[start:i]))
		start = i + 1
	}

	if start != len(data) {
		return ESpecTable{}, fmt.Errorf("encoding: espec block not null-terminated")
	}

	return ESpecTable{entries: entries}, nil
}

// Encode serializes the table back into its null-terminated wire form.
func (t ESpecTable) Encode() []byte {
	var buf bytes.Buffer

	for _, s := range t.entries {
		buf.WriteString(s)
		buf.WriteByte(0)
	}

	return buf.Bytes()
}

// Get returns the ESpec string at index, if any.
func (t ESpecTable) Get(index uint32) (string, bool) {
	if int(index) >= len(t.entries) {
		return "", false
	}

	return t.entries[index], true
}

// Add appends spec to the table and returns its new index.
func (t *ESpecTable) Add(spec string) uint32 {
	t.entries = append(t.entries, spec)
	return uint32(len(t.entries) - 1)
}

// Len reports the number of entries in the table.
func (t ESpecTable) Len() int {
	return len(t.entries)
}
