package install

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ShmemVersion4 control blocks carry only a data size and init flag.
const ShmemVersion4 = 4

// ShmemVersion5 control blocks add a PID/mode coordination table.
const ShmemVersion5 = 5

// shmemProcessEntrySize is the on-wire size of one PID/mode table row.
const shmemProcessEntrySize = 5

// ProcessEntry is one row of a v5 control block's coordination table: a participating process and the access mode
// it holds.
type ProcessEntry struct {
	PID  uint32
	Mode uint8
}

// ShmemControlBlock maps the small control block a '*.shmem' file holds: version (4 or 5), an init flag, the data
// size it describes, and (v5 only) a table of participating process ids and their access mode, used to coordinate
// concurrent processes sharing one installation.
type ShmemControlBlock struct {
	path        string
	file        *os.File
	SessionID   uuid.UUID
	Version     uint8
	Initialized bool
	DataSize    uint64
	Processes   []ProcessEntry
}

// openShmem creates (or reuses) a v5 control block file under dir, named after a freshly generated session UUID,
// and registers the current process in its coordination table.
func openShmem(dir string) (*ShmemControlBlock, error) {
	sessionID := uuid.New()
	path := filepath.Join(dir, sessionID.String()+".shmem")

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("install: create shmem control block: %w", err)
	}

	block := &ShmemControlBlock{
		path:        path,
		file:        file,
		SessionID:   sessionID,
		Version:     ShmemVersion5,
		Initialized: true,
		Processes:   []ProcessEntry{{PID: uint32(os.Getpid()), Mode: uint8(1)}},
	}

	if err := block.sync(); err != nil {
		file.Close()
		return nil, err
	}

	return block, nil
}

// Encode serializes the control block to its wire form: a 14-byte fixed header (version, init flag, data size,
// process-table count) followed by shmemProcessEntrySize bytes per ProcessEntry for v5 blocks.
func (s *ShmemControlBlock) Encode() []byte {
	header := make([]byte, 14)
	header[0] = s.Version

	if s.Initialized {
		header[1] = 1
	}

	binary.LittleEndian.PutUint64(header[2:10], s.DataSize)

	if s.Version < ShmemVersion5 {
		return header[:10]
	}

	binary.LittleEndian.PutUint32(header[10:14], uint32(len(s.Processes)))

	buf := make([]byte, 0, len(header)+len(s.Processes)*shmemProcessEntrySize)
	buf = append(buf, header...)

	for _, p := range s.Processes {
		entry := make([]byte, shmemProcessEntrySize)
		binary.LittleEndian.PutUint32(entry[0:4], p.PID)
		entry[4] = p.Mode

		buf = append(buf, entry...)
	}

	return buf
}

// DecodeShmem parses a control block from its wire form.
func DecodeShmem(data []byte) (*ShmemControlBlock, error) {
	if len(data) < 10 {
		return nil, fmt.Errorf("install: shmem control block too short: %d bytes", len(data))
	}

	block := &ShmemControlBlock{
		Version:     data[0],
		Initialized: data[1] != 0,
		DataSize:    binary.LittleEndian.Uint64(data[2:10]),
	}

	if block.Version < ShmemVersion5 {
		return block, nil
	}

	if len(data) < 14 {
		return nil, fmt.Errorf("install: v5 shmem control block missing process table header")
	}

	count := binary.LittleEndian.Uint32(data[10:14])
	offset := 14

	for i := uint32(0); i < count; i++ {
		if offset+shmemProcessEntrySize > len(data) {
			return nil, fmt.Errorf("install: v5 shmem control block truncated process table")
		}

		block.Processes = append(block.Processes, ProcessEntry{
			PID:  binary.LittleEndian.Uint32(data[offset : offset+4]),
			Mode: data[offset+4],
		})

		offset += shmemProcessEntrySize
	}

	return block, nil
}

// sync rewrites the control block file in place with the current in-memory state.
func (s *ShmemControlBlock) sync() error {
	if _, err := s.file.WriteAt(s.Encode(), 0); err != nil {
		return fmt.Errorf("install: sync shmem control block: %w", err)
	}

	return nil
}

// Close removes this process's entry from the coordination table and, if it was the last one, removes the control
// block file entirely.
func (s *ShmemControlBlock) Close() error {
	defer s.file.Close()

	pid := uint32(os.Getpid())

	remaining := s.Processes[:0]
	for _, p := range s.Processes {
		if p.PID != pid {
			remaining = append(remaining, p)
		}
	}

	s.Processes = remaining

	if len(s.Processes) == 0 {
		return os.Remove(s.path)
	}

	return s.sync()
}
