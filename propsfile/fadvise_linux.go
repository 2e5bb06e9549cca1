//go:build linux

package propsfile

import "golang.org/x/sys/unix"

// adviseSequential hints that the file behind fd, mapped at data, will be
// scanned front to back, as Verify and All do. Best-effort.
func adviseSequential(fd uintptr, data []byte) {
	_ = unix.Fadvise(int(fd), 0, int64(len(data)), unix.FADV_SEQUENTIAL)
	if len(data) > 0 {
		_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
	}
}
