// Package bits provides the 128-bit multiply primitives shared by the hash
// implementations.
package bits

import "math/bits"

// Mul128 returns the full 128-bit product of a and b as (lo, hi).
func Mul128(a, b uint64) (lo, hi uint64) {
	hi, lo = bits.Mul64(a, b)
	return lo, hi
}

// MulHi returns the upper 64 bits of a*b.
func MulHi(a, b uint64) uint64 {
	hi, _ := bits.Mul64(a, b)
	return hi
}

// Mul128Fold64 multiplies a and b and xors the two halves of the product.
// This is the core mixing step of the XXH3 family.
func Mul128Fold64(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return lo ^ hi
}

// Mult32To64 multiplies the low 32 bits of a and b.
func Mult32To64(a, b uint64) uint64 {
	return uint64(uint32(a)) * uint64(uint32(b))
}

// Swap64 reverses the byte order of v.
func Swap64(v uint64) uint64 { return bits.ReverseBytes64(v) }
