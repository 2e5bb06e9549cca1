// Package hashing provides the stable 64-bit and 128-bit hash functions and
// the invertible 128-bit mixer behind unique table-file IDs.
//
// Every function here is pure and safe for concurrent use. Results are
// persisted, so they are fixed forever for a given input and seed.
package hashing

import (
	"github.com/zeebo/xxh3"

	"github.com/tamirms/sstid/internal/bits"
	"github.com/tamirms/sstid/internal/xxph3"
)

// Hash64 returns the 64-bit XXPH3 hash of data.
func Hash64(data []byte) uint64 {
	return xxph3.Hash64(data)
}

// Hash64WithSeed returns the seeded 64-bit XXPH3 hash of data.
func Hash64WithSeed(data []byte, seed uint64) uint64 {
	return xxph3.Hash64WithSeed(data, seed)
}

// Hash2x64 returns the 128-bit XXH3 hash of data as its upper and lower halves.
func Hash2x64(data []byte) (upper, lower uint64) {
	h := xxh3.Hash128(data)
	return h.Hi, h.Lo
}

// Hash2x64WithSeed is Hash2x64 with a seed.
func Hash2x64WithSeed(data []byte, seed uint64) (upper, lower uint64) {
	h := xxh3.Hash128Seed(data, seed)
	return h.Hi, h.Lo
}

const (
	bitflipLow  = 0x59973f0033362349
	bitflipHigh = 0xc202797692d63d58

	mulA    = 0x9E3779B185EBCA87 // PRIME64_1
	mulAInv = 0x887493432badb37
	mulB    = 0xC2B2AE3D27D4EB4F // PRIME64_2
	mulBInv = 0xba79078168d4baf

	crossMul    = 0x85EBCA76 // PRIME32_2 - 1
	crossMulInv = 0xb6c92f47 // inverse of PRIME32_2 mod 2^32
	lenTerm     = 0x3c0000000000000

	avalancheMul    = 0x165667919E3779F9
	avalancheMulInv = 0x8da8ee41d6df849
)

func avalanche(h uint64) uint64 {
	h ^= h >> 37
	h *= avalancheMul
	h ^= h >> 32
	return h
}

func unavalanche(h uint64) uint64 {
	h ^= h >> 32
	h *= avalancheMulInv
	h ^= h >> 37
	return h
}

// BijectiveHash2x64 is BijectiveHash2x64WithSeed with seed 0.
func BijectiveHash2x64(high, low uint64) (uint64, uint64) {
	return BijectiveHash2x64WithSeed(high, low, 0)
}

// BijectiveHash2x64WithSeed mixes 128 bits to 128 bits without losing
// information. The result equals Hash2x64WithSeed over the 16 little-endian
// bytes of low followed by high.
func BijectiveHash2x64WithSeed(high, low, seed uint64) (uint64, uint64) {
	flipLow := bitflipLow - seed
	flipHigh := bitflipHigh + seed

	lo, hi := bits.Mul128(low^high^flipLow, mulA)
	lo += lenTerm
	high ^= flipHigh
	hi += high + bits.Mult32To64(high, crossMul)
	lo ^= bits.Swap64(hi)

	var prodHi uint64
	lo, prodHi = bits.Mul128(lo, mulB)
	hi = prodHi + hi*mulB
	return avalanche(hi), avalanche(lo)
}

// BijectiveUnhash2x64 is BijectiveUnhash2x64WithSeed with seed 0.
func BijectiveUnhash2x64(high, low uint64) (uint64, uint64) {
	return BijectiveUnhash2x64WithSeed(high, low, 0)
}

// BijectiveUnhash2x64WithSeed inverts BijectiveHash2x64WithSeed.
func BijectiveUnhash2x64WithSeed(high, low, seed uint64) (uint64, uint64) {
	flipLow := bitflipLow - seed
	flipHigh := bitflipHigh + seed

	lo := unavalanche(low)
	hi := unavalanche(high)
	lo *= mulBInv
	hi -= bits.MulHi(lo, mulB)
	hi *= mulBInv
	lo ^= bits.Swap64(hi)
	lo -= lenTerm
	lo *= mulAInv
	hi -= bits.MulHi(lo, mulA)

	// Undo hi += h + uint32(h)*crossMul one 32-bit half at a time.
	t := uint32(hi) * crossMulInv
	hi -= uint64(t)
	hi = (hi & 0xFFFFFFFF00000000) - (uint64(t)*crossMul)&0xFFFFFFFF00000000 + uint64(t)

	hi ^= flipHigh
	lo ^= hi ^ flipLow
	return hi, lo
}
