package encoding

import "fmt"

// Table is a fully decoded encoding table: the CKey -> (file size, EKey[]) map and the EKey -> ESpec map that
// together let a resolver turn a content key into the encoding keys (and BLTE encoding spec) it needs to fetch
// and decode.
type Table struct {
	Header Header
	ESpecs ESpecTable

	CKeyEntries     []CKeyEntry
	EKeySpecEntries []EKeySpecEntry

	byCKey map[[16]byte]CKeyEntry
	byEKey map[[16]byte]EKeySpecEntry
}

// Decode parses a complete (already BLTE-decoded) encoding table blob.
func Decode(data []byte) (*Table, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}

	offset := headerSize

	especEnd := offset + int(h.ESpecBlockSize)
	if especEnd > len(data) {
		return nil, fmt.Errorf("encoding: espec block out of bounds")
	}

	especs, err := DecodeESpecTable(data[offset:especEnd])
	if err != nil {
		return nil, err
	}

	offset = especEnd

	ckeyIndexSize := int(h.CEKeyPageCount) * (16 + 16)
	if offset+ckeyIndexSize > len(data) {
		return nil, fmt.Errorf("encoding: ckey page index out of bounds")
	}

	_, err = DecodeCKeyPageIndex(data[offset:offset+ckeyIndexSize], h.CEKeyPageCount)
	if err != nil {
		return nil, err
	}

	offset += ckeyIndexSize

	var ckeyEntries []CKeyEntry

	for i := uint32(0); i < h.CEKeyPageCount; i++ {
		pageEnd := offset + int(h.CEKeyPageSize)
		if pageEnd > len(data) {
			return nil, fmt.Errorf("encoding: ckey page %d out of bounds", i)
		}

		entries, err := DecodeCKeyPage(data[offset:pageEnd])
		if err != nil {
			return nil, fmt.Errorf("encoding: ckey page %d: %w", i, err)
		}

		ckeyEntries = append(ckeyEntries, entries...)
		offset = pageEnd
	}

	ekeySpecIndexSize := int(h.EKeySpecPageCount) * (16 + 16)
	if offset+ekeySpecIndexSize > len(data) {
		return nil, fmt.Errorf("encoding: ekeyspec page index out of bounds")
	}

	_, err = DecodeEKeySpecPageIndex(data[offset:offset+ekeySpecIndexSize], h.EKeySpecPageCount)
	if err != nil {
		return nil, err
	}

	offset += ekeySpecIndexSize

	var ekeySpecEntries []EKeySpecEntry

	for i := uint32(0); i < h.EKeySpecPageCount; i++ {
		pageEnd := offset + int(h.EKeySpecPageSize)
		if pageEnd > len(data) {
			return nil, fmt.Errorf("encoding: ekeyspec page %d out of bounds", i)
		}

		ekeySpecEntries = append(ekeySpecEntries, DecodeEKeySpecPage(data[offset:pageEnd])...)
		offset = pageEnd
	}

	t := &Table{
		Header:          h,
		ESpecs:          especs,
		CKeyEntries:     ckeyEntries,
		EKeySpecEntries: ekeySpecEntries,
	}

	t.index()

	return t, nil
}

func (t *Table) index() {
	t.byCKey = make(map[[16]byte]CKeyEntry, len(t.CKeyEntries))
	for _, e := range t.CKeyEntries {
		t.byCKey[e.CKey] = e
	}

	t.byEKey = make(map[[16]byte]EKeySpecEntry, len(t.EKeySpecEntries))
	for _, e := range t.EKeySpecEntries {
		t.byEKey[e.EKey] = e
	}
}

// LookupCKey returns the file size and encoding keys for ckey, if present.
func (t *Table) LookupCKey(ckey [16]byte) (CKeyEntry, bool) {
	e, ok := t.byCKey[ckey]
	return e, ok
}

// LookupEKey returns the ESpec index and file size recorded for ekey, if present.
func (t *Table) LookupEKey(ekey [16]byte) (EKeySpecEntry, bool) {
	e, ok := t.byEKey[ekey]
	return e, ok
}

// ESpecFor resolves the BLTE encoding spec string for ekey, if both the EKeySpec entry and its ESpecTable
// index are present.
func (t *Table) ESpecFor(ekey [16]byte) (string, bool) {
	e, ok := t.byEKey[ekey]
	if !ok {
		return "", false
	}

	return t.ESpecs.Get(e.ESpecIndex)
}

// Builder assembles a Table from scratch for encode-path use (e.g. by a repair or packaging tool) rather than
// parsing an existing blob.
type Builder struct {
	ckeyPageSize     int
	ekeySpecPageSize int

	especs          ESpecTable
	ckeyEntries     []CKeyEntry
	ekeySpecEntries []EKeySpecEntry
}

// NewBuilder creates a Builder using the given page sizes in bytes (conventionally 4096).
func NewBuilder(ckeyPageSize, ekeySpecPageSize int) *Builder {
	return &Builder{ckeyPageSize: ckeyPageSize, ekeySpecPageSize: ekeySpecPageSize}
}

// AddESpec registers a BLTE encoding spec string and returns its index.
func (b *Builder) AddESpec(spec string) uint32 {
	return b.especs.Add(spec)
}

// AddCKeyEntry registers a CKey -> EKey[] mapping.
func (b *Builder) AddCKeyEntry(e CKeyEntry) {
	b.ckeyEntries = append(b.ckeyEntries, e)
}

// AddEKeySpecEntry registers an EKey -> ESpec mapping.
func (b *Builder) AddEKeySpecEntry(e EKeySpecEntry) {
	b.ekeySpecEntries = append(b.ekeySpecEntries, e)
}

// Encode packs the accumulated entries into pages and serializes a complete encoding table blob.
func (b *Builder) Encode() ([]byte, error) {
	ckeyPages, ckeyRefs, err := packCKeyPages(b.ckeyEntries, b.ckeyPageSize)
	if err != nil {
		return nil, err
	}

	ekeySpecPages, ekeySpecRefs, err := packEKeySpecPages(b.ekeySpecEntries, b.ekeySpecPageSize)
	if err != nil {
		return nil, err
	}

	especBlock := b.especs.Encode()

	h := Header{
		Version:           1,
		CKeySize:          16,
		EKeySize:          16,
		CEKeyPageSize:     uint32(b.ckeyPageSize),
		EKeySpecPageSize:  uint32(b.ekeySpecPageSize),
		CEKeyPageCount:    uint32(len(ckeyPages)),
		EKeySpecPageCount: uint32(len(ekeySpecPages)),
		ESpecBlockSize:    uint32(len(especBlock)),
	}

	var out []byte
	out = append(out, h.Encode()...)
	out = append(out, especBlock...)
	out = append(out, EncodeCKeyPageIndex(ckeyRefs)...)

	for _, p := range ckeyPages {
		out = append(out, p...)
	}

	out = append(out, EncodeEKeySpecPageIndex(ekeySpecRefs)...)

	for _, p := range ekeySpecPages {
		out = append(out, p...)
	}

	return out, nil
}

func packCKeyPages(entries []CKeyEntry, pageSize int) ([][]byte, []PageRef, error) {
	if len(entries) == 0 {
		return nil, nil, nil
	}

	var pages [][]byte

	var refs []PageRef

	var current []CKeyEntry

	flush := func() error {
		if len(current) == 0 {
			return nil
		}

		page, err := EncodeCKeyPage(current, pageSize)
		if err != nil {
			return err
		}

		pages = append(pages, page)
		refs = append(refs, PageRef{FirstKey: current[0].CKey, PageMD5: PageMD5(page)})
		current = nil

		return nil
	}

	for _, e := range entries {
		candidate := append(append([]CKeyEntry{}, current...), e)

		if _, err := EncodeCKeyPage(candidate, pageSize); err != nil {
			if err := flush(); err != nil {
				return nil, nil, err
			}

			current = []CKeyEntry{e}

			continue
		}

		current = candidate
	}

	if err := flush(); err != nil {
		return nil, nil, err
	}

	return pages, refs, nil
}

func packEKeySpecPages(entries []EKeySpecEntry, pageSize int) ([][]byte, []EKeySpecPageRef, error) {
	if len(entries) == 0 {
		return nil, nil, nil
	}

	perPage := pageSize / ekeySpecEntrySize
	if perPage == 0 {
		return nil, nil, fmt.Errorf("encoding: ekeyspec page size %d too small for one entry", pageSize)
	}

	var pages [][]byte

	var refs []EKeySpecPageRef

	for i := 0; i < len(entries); i += perPage {
		end := i + perPage
		if end > len(entries) {
			end = len(entries)
		}

		chunk := entries[i:end]

		page, err := EncodeEKeySpecPage(chunk, pageSize)
		if err != nil {
			return nil, nil, err
		}

		pages = append(pages, page)
		refs = append(refs, EKeySpecPageRef{FirstKey: chunk[0].EKey, PageMD5: PageMD5(page)})
	}

	return pages, refs, nil
}
