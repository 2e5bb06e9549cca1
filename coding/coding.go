// Package coding provides the little-endian fixed-width and varint codecs used
// by persisted unique IDs and the properties file.
//
// Encode*/Decode* operate on caller-sized buffers and index directly; a short
// buffer is a caller bug and panics like any out-of-range slice access.
// Put* append to a slice. Get* consume from the front of a slice and report
// ok=false when the input is short or malformed.
package coding

import "encoding/binary"

// MaxVarint32Length and MaxVarint64Length are the longest encodings.
const (
	MaxVarint32Length = 5
	MaxVarint64Length = 10
)

func EncodeFixed16(dst []byte, v uint16) { binary.LittleEndian.PutUint16(dst, v) }
func EncodeFixed32(dst []byte, v uint32) { binary.LittleEndian.PutUint32(dst, v) }
func EncodeFixed64(dst []byte, v uint64) { binary.LittleEndian.PutUint64(dst, v) }

func DecodeFixed16(src []byte) uint16 { return binary.LittleEndian.Uint16(src) }
func DecodeFixed32(src []byte) uint32 { return binary.LittleEndian.Uint32(src) }
func DecodeFixed64(src []byte) uint64 { return binary.LittleEndian.Uint64(src) }

func PutFixed16(dst []byte, v uint16) []byte { return binary.LittleEndian.AppendUint16(dst, v) }
func PutFixed32(dst []byte, v uint32) []byte { return binary.LittleEndian.AppendUint32(dst, v) }
func PutFixed64(dst []byte, v uint64) []byte { return binary.LittleEndian.AppendUint64(dst, v) }

func GetFixed16(in []byte) (uint16, []byte, bool) {
	if len(in) < 2 {
		return 0, in, false
	}
	return DecodeFixed16(in), in[2:], true
}

func GetFixed32(in []byte) (uint32, []byte, bool) {
	if len(in) < 4 {
		return 0, in, false
	}
	return DecodeFixed32(in), in[4:], true
}

func GetFixed64(in []byte) (uint64, []byte, bool) {
	if len(in) < 8 {
		return 0, in, false
	}
	return DecodeFixed64(in), in[8:], true
}

// EncodeVarint32 writes v to dst and returns the number of bytes written.
// dst must have room for VarintLength(uint64(v)) bytes.
func EncodeVarint32(dst []byte, v uint32) int {
	return EncodeVarint64(dst, uint64(v))
}

// EncodeVarint64 writes v to dst and returns the number of bytes written.
func EncodeVarint64(dst []byte, v uint64) int {
	i := 0
	for v >= 0x80 {
		dst[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	dst[i] = byte(v)
	return i + 1
}

func PutVarint32(dst []byte, v uint32) []byte {
	var buf [MaxVarint32Length]byte
	n := EncodeVarint32(buf[:], v)
	return append(dst, buf[:n]...)
}

func PutVarint64(dst []byte, v uint64) []byte {
	var buf [MaxVarint64Length]byte
	n := EncodeVarint64(buf[:], v)
	return append(dst, buf[:n]...)
}

func PutVarint32Varint32(dst []byte, v1, v2 uint32) []byte {
	return PutVarint32(PutVarint32(dst, v1), v2)
}

func PutVarint32Varint64(dst []byte, v1 uint32, v2 uint64) []byte {
	return PutVarint64(PutVarint32(dst, v1), v2)
}

func PutVarint64Varint64(dst []byte, v1, v2 uint64) []byte {
	return PutVarint64(PutVarint64(dst, v1), v2)
}

// DecodeVarint32 parses a varint32 from the front of p. It reads at most
// MaxVarint32Length bytes; bits beyond 32 in the last byte are dropped.
// n is 0 if p ends before the terminating byte or the encoding is too long.
func DecodeVarint32(p []byte) (v uint32, n int) {
	for shift := uint(0); shift <= 28 && n < len(p); shift += 7 {
		b := p[n]
		n++
		if b&0x80 == 0 {
			return v | uint32(b)<<shift, n
		}
		v |= uint32(b&0x7f) << shift
	}
	return 0, 0
}

// DecodeVarint64 is DecodeVarint32 for 64-bit values (at most
// MaxVarint64Length bytes).
func DecodeVarint64(p []byte) (v uint64, n int) {
	for shift := uint(0); shift <= 63 && n < len(p); shift += 7 {
		b := p[n]
		n++
		if b&0x80 == 0 {
			return v | uint64(b)<<shift, n
		}
		v |= uint64(b&0x7f) << shift
	}
	return 0, 0
}

func GetVarint32(in []byte) (uint32, []byte, bool) {
	v, n := DecodeVarint32(in)
	if n == 0 {
		return 0, in, false
	}
	return v, in[n:], true
}

func GetVarint64(in []byte) (uint64, []byte, bool) {
	v, n := DecodeVarint64(in)
	if n == 0 {
		return 0, in, false
	}
	return v, in[n:], true
}

// VarintLength returns the number of bytes the varint encoding of v occupies.
func VarintLength(v uint64) int {
	n := 1
	for v >= 128 {
		v >>= 7
		n++
	}
	return n
}

func i64ToZigzag(v int64) uint64 { return uint64(v<<1) ^ uint64(v>>63) }
func zigzagToI64(u uint64) int64 { return int64(u>>1) ^ -int64(u&1) }

// PutVarsignedint64 appends v zig-zag encoded, so small magnitudes stay short.
func PutVarsignedint64(dst []byte, v int64) []byte {
	return PutVarint64(dst, i64ToZigzag(v))
}

func GetVarsignedint64(in []byte) (int64, []byte, bool) {
	u, rest, ok := GetVarint64(in)
	if !ok {
		return 0, in, false
	}
	return zigzagToI64(u), rest, true
}

// PutLengthPrefixedSlice appends a varint32 length followed by value.
func PutLengthPrefixedSlice(dst, value []byte) []byte {
	dst = PutVarint32(dst, uint32(len(value)))
	return append(dst, value...)
}

// GetLengthPrefixedSlice returns the value written by PutLengthPrefixedSlice.
// The result aliases in.
func GetLengthPrefixedSlice(in []byte) (value, rest []byte, ok bool) {
	n, r, ok := GetVarint32(in)
	if !ok || uint64(n) > uint64(len(r)) {
		return nil, in, false
	}
	return r[:n:n], r[n:], true
}

// GetSliceUntil splits in at the first delim. head excludes the delimiter;
// rest starts after it. Without a delimiter, head is all of in and rest is empty.
func GetSliceUntil(in []byte, delim byte) (head, rest []byte) {
	for i, b := range in {
		if b == delim {
			return in[:i], in[i+1:]
		}
	}
	return in, in[len(in):]
}
