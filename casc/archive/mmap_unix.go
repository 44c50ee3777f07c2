//go:build linux || darwin
// +build linux darwin

package archive

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapFile maps the first size bytes of file read-only.
func mmapFile(file *os.File, size int64) ([]byte, error) {
	return unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
}

// munmapFile releases a mapping previously returned by mmapFile.
func munmapFile(data []byte) error {
	return unix.Munmap(data)
}
