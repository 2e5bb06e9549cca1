//go:build !linux

package propsfile

func prefaultRegion(data []byte) {}
