//go:build linux

package propsfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// fallocateFile reserves size bytes for file and sets its length, so that
// writes through the mapping cannot SIGBUS on a full disk.
func fallocateFile(file *os.File, size int64) error {
	fd := int(file.Fd())
	// Some filesystems (NFS, tmpfs on old kernels) reject fallocate; the
	// truncate below still sizes the file.
	_ = unix.Fallocate(fd, 0, 0, size)
	return unix.Ftruncate(fd, size)
}
