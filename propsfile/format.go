package propsfile

import (
	"github.com/tamirms/sstid/coding"
	sstiderrors "github.com/tamirms/sstid/errors"
)

const (
	// magic is "SSTP" in little-endian.
	magic = uint32(0x50545353)

	version = uint16(0x0001)

	headerSize = 32
	footerSize = 16

	// offsetSize is the width of one entry in the offsets region.
	offsetSize = 8

	minFileSize = headerSize + footerSize
)

// header is the 32-byte file header.
//
// Layout:
//
//	Offset  Size  Field        Type
//	0       4     Magic        0x50545353 ("SSTP")
//	4       2     Version      0x0001
//	6       8     Count        uint64_le (number of records)
//	14      8     RecordsSize  uint64_le (bytes in the records region)
//	22      10    Reserved     [10]byte (zero)
type header struct {
	Magic       uint32
	Version     uint16
	Count       uint64
	RecordsSize uint64
	Reserved    [10]byte
}

func (h *header) encodeTo(buf []byte) {
	coding.EncodeFixed32(buf[0:4], h.Magic)
	coding.EncodeFixed16(buf[4:6], h.Version)
	coding.EncodeFixed64(buf[6:14], h.Count)
	coding.EncodeFixed64(buf[14:22], h.RecordsSize)
	copy(buf[22:32], h.Reserved[:])
}

func decodeHeader(buf []byte) (*header, error) {
	if len(buf) < headerSize {
		return nil, sstiderrors.ErrTruncatedFile
	}

	h := &header{
		Magic:       coding.DecodeFixed32(buf[0:4]),
		Version:     coding.DecodeFixed16(buf[4:6]),
		Count:       coding.DecodeFixed64(buf[6:14]),
		RecordsSize: coding.DecodeFixed64(buf[14:22]),
	}
	copy(h.Reserved[:], buf[22:32])

	if h.Magic != magic {
		return nil, sstiderrors.ErrInvalidMagic
	}
	if h.Version != version {
		return nil, sstiderrors.ErrInvalidVersion
	}
	return h, nil
}

// fileSize returns the exact size of a file described by h, or false if
// the sizes overflow.
func (h *header) fileSize() (uint64, bool) {
	const maxU64 = ^uint64(0)
	if h.Count > (maxU64-minFileSize)/offsetSize {
		return 0, false
	}
	fixed := minFileSize + h.Count*offsetSize
	if h.RecordsSize > maxU64-fixed {
		return 0, false
	}
	return fixed + h.RecordsSize, true
}

// footer is the 16-byte file footer.
//
//	Offset  Size  Field     Type
//	0       8     BodyHash  uint64_le (xxHash64 of offsets and records regions)
//	8       8     Reserved  [8]byte (zero)
type footer struct {
	BodyHash uint64
	Reserved [8]byte
}

func (f *footer) encodeTo(buf []byte) {
	coding.EncodeFixed64(buf[0:8], f.BodyHash)
	copy(buf[8:16], f.Reserved[:])
}

func decodeFooter(buf []byte) (*footer, error) {
	if len(buf) < footerSize {
		return nil, sstiderrors.ErrTruncatedFile
	}
	f := &footer{BodyHash: coding.DecodeFixed64(buf[0:8])}
	copy(f.Reserved[:], buf[8:16])
	return f, nil
}
