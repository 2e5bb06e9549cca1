package hashing

import (
	"encoding/binary"
	"hash/fnv"
	"math"
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

func randomBytes(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(rng.Uint32())
	}
	return b
}

func TestHash64Empty(t *testing.T) {
	if got := Hash64(nil); got != 5999572062939766020 {
		t.Fatalf("Hash64(\"\") = %d", got)
	}
}

// TestHash64Deterministic checks stability across calls and the seed-0
// equivalence for each length bucket.
func TestHash64Deterministic(t *testing.T) {
	rng := newTestRNG(t)
	for _, n := range []int{0, 1, 4, 9, 17, 129, 241, 1500} {
		data := randomBytes(rng, n)
		h := Hash64(data)
		if h != Hash64(data) {
			t.Fatalf("len=%d: unstable hash", n)
		}
		if h != Hash64WithSeed(data, 0) {
			t.Fatalf("len=%d: seed 0 differs", n)
		}
		if h == Hash64WithSeed(data, 1) {
			t.Fatalf("len=%d: seed ignored", n)
		}
	}
}

func TestHash2x64SeedZero(t *testing.T) {
	rng := newTestRNG(t)
	for _, n := range []int{0, 3, 16, 100, 300} {
		data := randomBytes(rng, n)
		u1, l1 := Hash2x64(data)
		u2, l2 := Hash2x64WithSeed(data, 0)
		if u1 != u2 || l1 != l2 {
			t.Fatalf("len=%d: seed 0 differs", n)
		}
	}
}

func TestBijectiveVectors(t *testing.T) {
	tests := []struct {
		high, low, seed uint64
		wantHigh        uint64
		wantLow         uint64
	}{
		{0, 0, 0, 0xe5189a9599e3f862, 0x05ea23ef06e28b2d},
		{1, 2, 3, 0x2267f4abfd01ecab, 0x0ff9f46e3a55e326},
		{math.MaxUint64, math.MaxUint64, 0, 0x2c75c396ceb7747b, 0xe6873ce65343027f},
		{0x0123456789abcdef, 0xfedcba9876543210, 0xdeadbeef, 0x258083f75d31d9e3, 0x819f622f1b454651},
		// The offsets used for external IDs map to zero.
		{17391078804906429400, 6417269962128484497, 0, 0, 0},
	}
	for _, tt := range tests {
		h, l := BijectiveHash2x64WithSeed(tt.high, tt.low, tt.seed)
		if h != tt.wantHigh || l != tt.wantLow {
			t.Errorf("hash(0x%x, 0x%x, %d) = (0x%016x, 0x%016x), want (0x%016x, 0x%016x)",
				tt.high, tt.low, tt.seed, h, l, tt.wantHigh, tt.wantLow)
		}
		uh, ul := BijectiveUnhash2x64WithSeed(tt.wantHigh, tt.wantLow, tt.seed)
		if uh != tt.high || ul != tt.low {
			t.Errorf("unhash(0x%016x, 0x%016x, %d) = (0x%x, 0x%x), want (0x%x, 0x%x)",
				tt.wantHigh, tt.wantLow, tt.seed, uh, ul, tt.high, tt.low)
		}
	}
}

// TestBijectiveRoundTrip is the core invertibility property over random
// inputs and seeds, in both directions.
func TestBijectiveRoundTrip(t *testing.T) {
	rng := newTestRNG(t)
	const iterations = 100000

	for i := 0; i < iterations; i++ {
		high, low, seed := rng.Uint64(), rng.Uint64(), rng.Uint64()
		if i%4 == 0 {
			seed = 0
		}

		h, l := BijectiveHash2x64WithSeed(high, low, seed)
		uh, ul := BijectiveUnhash2x64WithSeed(h, l, seed)
		if uh != high || ul != low {
			t.Fatalf("iter %d: unhash(hash(0x%X, 0x%X, 0x%X)) = (0x%X, 0x%X)",
				i, high, low, seed, uh, ul)
		}

		uh, ul = BijectiveUnhash2x64WithSeed(high, low, seed)
		h, l = BijectiveHash2x64WithSeed(uh, ul, seed)
		if h != high || l != low {
			t.Fatalf("iter %d: hash(unhash(0x%X, 0x%X, 0x%X)) = (0x%X, 0x%X)",
				i, high, low, seed, h, l)
		}
	}
}

// TestBijectiveSparseInputs exercises single-bit and small values, where
// the 32-bit cross term in the inverse is most likely to go wrong.
func TestBijectiveSparseInputs(t *testing.T) {
	for bit := range 64 {
		for _, v := range [][2]uint64{{1 << bit, 0}, {0, 1 << bit}, {1 << bit, 1 << bit}} {
			h, l := BijectiveHash2x64(v[0], v[1])
			uh, ul := BijectiveUnhash2x64(h, l)
			if uh != v[0] || ul != v[1] {
				t.Fatalf("bit %d: round trip of (0x%X, 0x%X) gave (0x%X, 0x%X)", bit, v[0], v[1], uh, ul)
			}
		}
	}
}

// TestBijectiveMatchesHash2x64 checks that the mixer is the 128-bit hash of
// the same 16 bytes, which pins the constants to the hash family.
func TestBijectiveMatchesHash2x64(t *testing.T) {
	rng := newTestRNG(t)
	var buf [16]byte
	for range 10000 {
		high, low, seed := rng.Uint64(), rng.Uint64(), rng.Uint64()
		binary.LittleEndian.PutUint64(buf[:8], low)
		binary.LittleEndian.PutUint64(buf[8:], high)

		bh, bl := BijectiveHash2x64WithSeed(high, low, seed)
		hu, hl := Hash2x64WithSeed(buf[:], seed)
		if bh != hu || bl != hl {
			t.Fatalf("(0x%X, 0x%X, 0x%X): bijective (0x%X, 0x%X) != hash (0x%X, 0x%X)",
				high, low, seed, bh, bl, hu, hl)
		}
	}
}

func TestAvalancheInverse(t *testing.T) {
	rng := newTestRNG(t)
	for range 10000 {
		v := rng.Uint64()
		if unavalanche(avalanche(v)) != v {
			t.Fatalf("unavalanche(avalanche(0x%X)) mismatch", v)
		}
	}
	var a, b uint64 = avalancheMul, avalancheMulInv
	if a*b != 1 {
		t.Fatal("avalanche multipliers are not inverses")
	}
	a, b = mulA, mulAInv
	if a*b != 1 {
		t.Fatal("mulA inverse wrong")
	}
	a, b = mulB, mulBInv
	if a*b != 1 {
		t.Fatal("mulB inverse wrong")
	}
	var c, d uint32 = crossMul + 1, crossMulInv
	if c*d != 1 {
		t.Fatal("cross multiplier inverse wrong")
	}
}

func BenchmarkHash64(b *testing.B) {
	data := make([]byte, 24)
	for b.Loop() {
		_ = Hash64(data)
	}
}

func BenchmarkHash2x64WithSeed(b *testing.B) {
	data := []byte("a4f7c3d2-1b6e-4a89-9f3d-5c2e8b7a6d10")
	for b.Loop() {
		_, _ = Hash2x64WithSeed(data, 0x1234)
	}
}

func BenchmarkBijectiveHash2x64(b *testing.B) {
	var h, l uint64 = 1, 2
	for b.Loop() {
		h, l = BijectiveHash2x64(h, l)
	}
	_ = h + l
}
