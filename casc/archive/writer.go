package archive

import (
	"os"
	"sync"
)

// Writer is the bounded, append-only tail of a single 'data.NNN' segment. Writes are sequential and the returned
// offset is monotonic; a Writer never rewinds or overwrites a previously written byte.
type Writer struct {
	ID        uint16
	Path      string
	alignment int

	mu     sync.Mutex
	file   *os.File
	offset uint64
	sealed bool
}

// OpenWriter opens (creating if necessary) the segment at path for append, positioning the write cursor at the
// file's current end-of-file. alignment, if non-zero, pads every record up to the next multiple of alignment bytes
// before writing.
func OpenWriter(id uint16, path string, alignment int) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o660)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	return &Writer{ID: id, Path: path, alignment: alignment, file: file, offset: uint64(info.Size())}, nil
}

// Size returns the current length of the segment, including any padding written so far.
func (w *Writer) Size() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.offset
}

// Seal marks the writer closed to further appends. It does not close
// the underlying file handle, since readers may still want to open the same path independently.
func (w *Writer) Seal() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.sealed = true
}

// Sealed reports whether this writer has stopped accepting appends.
func (w *Writer) Sealed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.sealed
}

// Append writes record as a single atomic append and returns the offset it was written at. The write is staged as
// one Write call rather than incremental writes, so a context cancellation observed by the caller after Append
// returns never leaves a partial record on disk.
func (w *Writer) Append(record []byte) (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sealed {
		return 0, &SealedError{ArchiveID: w.ID}
	}

	if w.alignment > 1 {
		if pad := alignPadding(w.offset, w.alignment); pad > 0 {
			if _, err := w.file.WriteAt(make([]byte, pad), int64(w.offset)); err != nil {
				return 0, err
			}

			w.offset += uint64(pad)
		}
	}

	offset := w.offset

	n, err := w.file.WriteAt(record, int64(offset))
	if err != nil {
		return 0, err
	}

	w.offset += uint64(n)

	return offset, nil
}

// Sync flushes the writer's file to stable storage.
func (w *Writer) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.file.Sync()
}

// Close releases the writer's file handle.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.file.Close()
}

func alignPadding(offset uint64, alignment int) int {
	a := uint64(alignment)
	if rem := offset % a; rem != 0 {
		return int(a - rem)
	}

	return 0
}
