package sstid

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/google/uuid"

	sstiderrors "github.com/tamirms/sstid/errors"
	"github.com/tamirms/sstid/internal/basechars"
)

const (
	sessionIDLen     = 20
	sessionHeadChars = 8
	sessionTailChars = 12
	minSessionIDLen  = 13
	maxSessionIDLen  = 24
)

// EncodeSessionID packs a 128-bit value into the 20-character base-36 session
// ID format ([0-9A-Z]). lower is preserved exactly; only the low 39 or so bits
// of upper survive. The bit layout is fixed so older IDs keep decoding.
func EncodeSessionID(upper, lower uint64) string {
	a := upper<<2 | lower>>62
	b := lower & (math.MaxUint64 >> 2)
	buf := make([]byte, 0, sessionIDLen)
	buf = basechars.PutBaseChars(buf, sessionHeadChars, a, 36, true)
	buf = basechars.PutBaseChars(buf, sessionTailChars, b, 36, true)
	return string(buf)
}

// DecodeSessionID reverses EncodeSessionID. Any length from 13 to 24 is
// accepted: the last 12 characters carry the low bits and the rest carry the
// high bits. Malformed IDs fail with a NotSupported status rather than
// Corruption, since non-standard session IDs only degrade functionality.
func DecodeSessionID(s string) (upper, lower uint64, err error) {
	n := len(s)
	switch {
	case n == 0:
		return 0, 0, sstiderrors.ErrMissingSessionID
	case n < minSessionIDLen:
		return 0, 0, sstiderrors.ErrSessionIDTooShort
	case n > maxSessionIDLen:
		return 0, 0, sstiderrors.ErrSessionIDTooLong
	}

	a, ok := basechars.ParseBaseChars(s[:n-sessionTailChars], 36)
	if !ok {
		return 0, 0, sstiderrors.ErrBadSessionIDDigit
	}
	b, ok := basechars.ParseBaseChars(s[n-sessionTailChars:], 36)
	if !ok {
		return 0, 0, sstiderrors.ErrBadSessionIDDigit
	}
	return a >> 2, b&(math.MaxUint64>>2) | a<<62, nil
}

// SessionIDGenerator produces session IDs that are guaranteed distinct for
// the lifetime of the generator: the upper half is a random base drawn once
// and the lower half is a counter xor-ed with a second random base.
// It is safe for concurrent use.
type SessionIDGenerator struct {
	baseUpper uint64
	baseLower uint64
	counter   atomic.Uint64
}

// NewSessionIDGenerator returns a generator with a freshly drawn random base.
func NewSessionIDGenerator() *SessionIDGenerator {
	var seed [16]byte
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(seed[:])
	return NewSessionIDGeneratorWithBase(
		binary.LittleEndian.Uint64(seed[8:]),
		binary.LittleEndian.Uint64(seed[:8]),
	)
}

// NewSessionIDGeneratorWithBase returns a generator with a fixed base.
// Intended for reproducible tests.
func NewSessionIDGeneratorWithBase(upper, lower uint64) *SessionIDGenerator {
	return &SessionIDGenerator{baseUpper: upper, baseLower: lower}
}

// Next returns the next raw session value. lower is never zero.
func (g *SessionIDGenerator) Next() (upper, lower uint64) {
	for {
		lower = (g.counter.Add(1) - 1) ^ g.baseLower
		if lower != 0 {
			return g.baseUpper, lower
		}
	}
}

// NextString returns the next session ID in its encoded form.
func (g *SessionIDGenerator) NextString() string {
	return EncodeSessionID(g.Next())
}

// NewSessionID returns an encoded session ID from a fresh generator.
func NewSessionID() string {
	return NewSessionIDGenerator().NextString()
}

// NewDBID returns a random RFC 4122 identity for a new database.
func NewDBID() string {
	return uuid.NewString()
}
