package sstid

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// fillFromRNG fills buf with pseudo-random bytes from rng.
func fillFromRNG(rng *rand.Rand, buf []byte) {
	for i := 0; i+8 <= len(buf); i += 8 {
		binary.LittleEndian.PutUint64(buf[i:], rng.Uint64())
	}
	if tail := len(buf) % 8; tail > 0 {
		v := rng.Uint64()
		start := len(buf) - tail
		for j := 0; j < tail; j++ {
			buf[start+j] = byte(v >> (j * 8))
		}
	}
}

// goodProps returns n complete, distinct table properties sharing one DB
// and session, numbered from 1.
func goodProps(rng *rand.Rand, n int) []TableProperties {
	dbID := make([]byte, 36)
	fillFromRNG(rng, dbID)
	session := EncodeSessionID(rng.Uint64(), rng.Uint64()|1)
	props := make([]TableProperties, n)
	for i := range props {
		props[i] = TableProperties{
			DBID:           dbID,
			DBSessionID:    session,
			OrigFileNumber: uint64(i + 1),
		}
	}
	return props
}
