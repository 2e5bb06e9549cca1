// Package basechars encodes and decodes fixed-width unsigned integers in
// bases up to 36.
//
// These helpers differ from strconv in two ways that persisted session IDs
// depend on: PutBaseChars always writes exactly n digits (dropping high
// digits that do not fit), and ParseBaseChars wraps silently on overflow.
package basechars

const (
	upperDigits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerDigits = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// PutBaseChars appends the n least significant base-`base` digits of v to
// dst, most significant first.
func PutBaseChars(dst []byte, n int, v uint64, base uint64, uppercase bool) []byte {
	if base < 2 || base > 36 {
		panic("basechars: base out of range")
	}
	digits := lowerDigits
	if uppercase {
		digits = upperDigits
	}
	start := len(dst)
	dst = append(dst, make([]byte, n)...)
	for i := len(dst) - 1; i >= start; i-- {
		dst[i] = digits[v%base]
		v /= base
	}
	return dst
}

// ParseBaseChars decodes s as a base-`base` number. Letters of either case
// are accepted. ok is false on any character that is not a valid digit.
func ParseBaseChars(s string, base uint64) (v uint64, ok bool) {
	if base < 2 || base > 36 {
		panic("basechars: base out of range")
	}
	for i := 0; i < len(s); i++ {
		d, valid := digitValue(s[i])
		if !valid || d >= base {
			return 0, false
		}
		v = v*base + d
	}
	return v, true
}

func digitValue(c byte) (uint64, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint64(c - '0'), true
	case c >= 'A' && c <= 'Z':
		return uint64(c-'A') + 10, true
	case c >= 'a' && c <= 'z':
		return uint64(c-'a') + 10, true
	default:
		return 0, false
	}
}
