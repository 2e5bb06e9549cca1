//go:build !linux

package propsfile

// adviseSequential is a no-op outside Linux.
func adviseSequential(fd uintptr, data []byte) {}
