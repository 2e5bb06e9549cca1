// Package xxph3 implements XXPH3, the 64-bit hash from the xxHash 0.7.2
// preview that persisted unique IDs and on-disk checksums were built on.
//
// The final XXH3 release changed several per-length formulas, so this is
// not interchangeable with a current XXH3 library. Outputs must never change.
package xxph3

import (
	"encoding/binary"

	"github.com/tamirms/sstid/internal/bits"
)

const (
	prime32_1 = 0x9E3779B1
	prime32_2 = 0x85EBCA77
	prime32_3 = 0xC2B2AE3D

	prime64_1 = 0x9E3779B185EBCA87
	prime64_2 = 0xC2B2AE3D27D4EB4F
	prime64_3 = 0x165667B19E3779F9
	prime64_4 = 0x85EBCA77C2B2AE63
	prime64_5 = 0x27D4EB2F165667C5
)

const (
	secretSize     = 192
	stripeLen      = 64
	accNB          = stripeLen / 8
	secretConsume  = 8
	secretLastAcc  = 7
	secretMerge    = 11
	midSizeMax     = 240
	midSizeStart   = 3
	midSizeLastOff = 17
	stripesPerBlk  = (secretSize - stripeLen) / secretConsume
	blockLen       = stripeLen * stripesPerBlk
)

var secret = [secretSize]byte{
	0xb8, 0xfe, 0x6c, 0x39, 0x23, 0xa4, 0x4b, 0xbe, 0x7c, 0x01, 0x81, 0x2c, 0xf7, 0x21, 0xad, 0x1c,
	0xde, 0xd4, 0x6d, 0xe9, 0x83, 0x90, 0x97, 0xdb, 0x72, 0x40, 0xa4, 0xa4, 0xb7, 0xb3, 0x67, 0x1f,
	0xcb, 0x79, 0xe6, 0x4e, 0xcc, 0xc0, 0xe5, 0x78, 0x82, 0x5a, 0xd0, 0x7d, 0xcc, 0xff, 0x72, 0x21,
	0xb8, 0x08, 0x46, 0x74, 0xf7, 0x43, 0x24, 0x8e, 0xe0, 0x35, 0x90, 0xe6, 0x81, 0x3a, 0x26, 0x4c,
	0x3c, 0x28, 0x52, 0xbb, 0x91, 0xc3, 0x00, 0xcb, 0x88, 0xd0, 0x65, 0x8b, 0x1b, 0x53, 0x2e, 0xa3,
	0x71, 0x64, 0x48, 0x97, 0xa2, 0x0d, 0xf9, 0x4e, 0x38, 0x19, 0xef, 0x46, 0xa9, 0xde, 0xac, 0xd8,
	0xa8, 0xfa, 0x76, 0x3f, 0xe3, 0x9c, 0x34, 0x3f, 0xf9, 0xdc, 0xbb, 0xc7, 0xc7, 0x0b, 0x4f, 0x1d,
	0x8a, 0x51, 0xe0, 0x4b, 0xcd, 0xb4, 0x59, 0x31, 0xc8, 0x9f, 0x7e, 0xc9, 0xd9, 0x78, 0x73, 0x64,
	0xea, 0xc5, 0xac, 0x83, 0x34, 0xd3, 0xeb, 0xc3, 0xc5, 0x81, 0xa0, 0xff, 0xfa, 0x13, 0x63, 0xeb,
	0x17, 0x0d, 0xdd, 0x51, 0xb7, 0xf0, 0xda, 0x49, 0xd3, 0x16, 0x55, 0x26, 0x29, 0xd4, 0x68, 0x9e,
	0x2b, 0x16, 0xbe, 0x58, 0x7d, 0x47, 0xa1, 0xfc, 0x8f, 0xf8, 0xb8, 0xd1, 0x7a, 0xd0, 0x31, 0xce,
	0x45, 0xcb, 0x3a, 0x8f, 0x95, 0x16, 0x04, 0x28, 0xaf, 0xd7, 0xfb, 0xca, 0xbb, 0x4b, 0x40, 0x7e,
}

func readLE32(b []byte, off int) uint64 { return uint64(binary.LittleEndian.Uint32(b[off:])) }
func readLE64(b []byte, off int) uint64 { return binary.LittleEndian.Uint64(b[off:]) }

// Avalanche is the final xor-shift-multiply mix applied to every output.
func Avalanche(h uint64) uint64 {
	h ^= h >> 37
	h *= prime64_3
	h ^= h >> 32
	return h
}

// Hash64 hashes data with seed 0.
func Hash64(data []byte) uint64 {
	return Hash64WithSeed(data, 0)
}

// Hash64WithSeed hashes data. Inputs up to 240 bytes do not allocate.
func Hash64WithSeed(data []byte, seed uint64) uint64 {
	n := len(data)
	switch {
	case n <= 16:
		return len0To16(data, seed)
	case n <= 128:
		return len17To128(data, seed)
	case n <= midSizeMax:
		return len129To240(data, seed)
	case seed == 0:
		return hashLong(data, secret[:])
	default:
		var custom [secretSize]byte
		initCustomSecret(&custom, seed)
		return hashLong(data, custom[:])
	}
}

func len1To3(data []byte, seed uint64) uint64 {
	n := len(data)
	c1 := uint32(data[0])
	c2 := uint32(data[n>>1])
	c3 := uint32(data[n-1])
	combined := c1 | c2<<8 | c3<<16 | uint32(n)<<24
	keyed := uint64(combined) ^ (readLE32(secret[:], 0) + seed)
	return Avalanche(keyed * prime64_1)
}

func len4To8(data []byte, seed uint64) uint64 {
	n := len(data)
	in1 := readLE32(data, 0)
	in2 := readLE32(data, n-4)
	in64 := in1 ^ in2<<32
	keyed := in64 ^ (readLE64(secret[:], 0) + seed)
	mix64 := uint64(n) + (keyed^keyed>>51)*prime32_1
	return Avalanche((mix64 ^ mix64>>47) * prime64_2)
}

func len9To16(data []byte, seed uint64) uint64 {
	n := len(data)
	ll1 := readLE64(data, 0) ^ (readLE64(secret[:], 0) + seed)
	ll2 := readLE64(data, n-8) ^ (readLE64(secret[:], 8) - seed)
	acc := uint64(n) + ll1 + ll2 + bits.Mul128Fold64(ll1, ll2)
	return Avalanche(acc)
}

func len0To16(data []byte, seed uint64) uint64 {
	switch n := len(data); {
	case n > 8:
		return len9To16(data, seed)
	case n >= 4:
		return len4To8(data, seed)
	case n > 0:
		return len1To3(data, seed)
	default:
		return bits.Mul128Fold64(seed+readLE64(secret[:], 0), prime64_2)
	}
}

func mix16B(data []byte, off int, sec []byte, secOff int, seed uint64) uint64 {
	lo := readLE64(data, off) ^ (readLE64(sec, secOff) + seed)
	hi := readLE64(data, off+8) ^ (readLE64(sec, secOff+8) - seed)
	return bits.Mul128Fold64(lo, hi)
}

func len17To128(data []byte, seed uint64) uint64 {
	n := len(data)
	acc := uint64(n) * prime64_1
	if n > 32 {
		if n > 64 {
			if n > 96 {
				acc += mix16B(data, 48, secret[:], 96, seed)
				acc += mix16B(data, n-64, secret[:], 112, seed)
			}
			acc += mix16B(data, 32, secret[:], 64, seed)
			acc += mix16B(data, n-48, secret[:], 80, seed)
		}
		acc += mix16B(data, 16, secret[:], 32, seed)
		acc += mix16B(data, n-32, secret[:], 48, seed)
	}
	acc += mix16B(data, 0, secret[:], 0, seed)
	acc += mix16B(data, n-16, secret[:], 16, seed)
	return Avalanche(acc)
}

func len129To240(data []byte, seed uint64) uint64 {
	n := len(data)
	rounds := n / 16
	acc := uint64(n) * prime64_1
	for i := range 8 {
		acc += mix16B(data, 16*i, secret[:], 16*i, seed)
	}
	acc = Avalanche(acc)
	for i := 8; i < rounds; i++ {
		acc += mix16B(data, 16*i, secret[:], 16*(i-8)+midSizeStart, seed)
	}
	// last 16 bytes
	acc += mix16B(data, n-16, secret[:], midSizeMax/2+16-midSizeLastOff, seed)
	return Avalanche(acc)
}

func initCustomSecret(dst *[secretSize]byte, seed uint64) {
	for i := 0; i < secretSize; i += 16 {
		binary.LittleEndian.PutUint64(dst[i:], readLE64(secret[:], i)+seed)
		binary.LittleEndian.PutUint64(dst[i+8:], readLE64(secret[:], i+8)-seed)
	}
}

func accumulate512(acc *[accNB]uint64, data []byte, sec []byte) {
	for i := range accNB {
		dataVal := readLE64(data, 8*i)
		dataKey := dataVal ^ readLE64(sec, 8*i)
		acc[i] += dataVal
		acc[i] += (dataKey & 0xFFFFFFFF) * (dataKey >> 32)
	}
}

func scrambleAcc(acc *[accNB]uint64, sec []byte) {
	for i := range accNB {
		a := acc[i]
		a ^= a >> 47
		a ^= readLE64(sec, 8*i)
		acc[i] = a * prime32_1
	}
}

func accumulate(acc *[accNB]uint64, data []byte, sec []byte, stripes int) {
	for s := range stripes {
		accumulate512(acc, data[s*stripeLen:], sec[s*secretConsume:])
	}
}

func mergeAccs(acc *[accNB]uint64, sec []byte, start uint64) uint64 {
	r := start
	for i := range 4 {
		r += bits.Mul128Fold64(acc[2*i]^readLE64(sec, 16*i), acc[2*i+1]^readLE64(sec, 16*i+8))
	}
	return Avalanche(r)
}

func hashLong(data []byte, sec []byte) uint64 {
	acc := [accNB]uint64{
		prime32_3, prime64_1, prime64_2, prime64_3,
		prime64_4, prime32_2, prime64_5, prime32_1,
	}
	n := len(data)
	blocks := n / blockLen
	for b := range blocks {
		accumulate(&acc, data[b*blockLen:], sec, stripesPerBlk)
		scrambleAcc(&acc, sec[secretSize-stripeLen:])
	}

	// last partial block
	stripes := (n - blocks*blockLen) / stripeLen
	accumulate(&acc, data[blocks*blockLen:], sec, stripes)

	// last stripe
	if n&(stripeLen-1) != 0 {
		accumulate512(&acc, data[n-stripeLen:], sec[secretSize-stripeLen-secretLastAcc:])
	}

	return mergeAccs(&acc, sec[secretMerge:], uint64(n)*prime64_1)
}
