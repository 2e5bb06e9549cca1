package xxph3

import (
	"strconv"
	"testing"
)

const testSeed = 0x1234567890ABCDEF

// patternInput returns n bytes with data[i] = i*31 + 7.
func patternInput(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*31 + 7)
	}
	return b
}

// Reference vectors cover every length bucket and its boundaries,
// including the long path with and without partial blocks and stripes.
var vectors = []struct {
	n        int
	unseeded uint64
	seeded   uint64
}{
	{0, 0x5342c3010fe1dd04, 0x6aea40d5166ea716},
	{1, 0xb71d295c7865c7e9, 0x63ffa57ee1713f0a},
	{2, 0x44b93c64f7bbbc37, 0xaebf996b2cbd5b9c},
	{3, 0xf3eb56c8cb2dfcd1, 0x8ae6d91d6414ebe7},
	{4, 0xf1bda2f29bc8282d, 0xf81c8bb755fa0855},
	{5, 0xacc19d546ae1d058, 0x4f38f0569e0586a2},
	{8, 0x2d72be8e983e1f57, 0x31514e398fc41df4},
	{9, 0x5c19ea1840faf370, 0x6372d3a4998dded0},
	{16, 0x59fe56a053854571, 0xd4d8d55938390535},
	{17, 0x21f14a7ee3c44027, 0x42386a674a08e55f},
	{32, 0xb1f27625977068a6, 0x73fe79e53c232a52},
	{33, 0xb88d020183c02b66, 0x20ff1257c45245a8},
	{64, 0x8ced450ae5b60265, 0x652a6fc87ff269e0},
	{65, 0x9b95ed257ab24880, 0xcabf57e3270ee7be},
	{96, 0xb6a5410525b8a5a2, 0x6a9975c40822533d},
	{97, 0x3fd4e9308b008d53, 0xd9b2196909e3966f},
	{128, 0x0a112f2a51203d48, 0x212404c555ad154d},
	{129, 0xbc911b7c684bfbfd, 0x786452af310d2fdb},
	{200, 0x75a4b03662cfd5b0, 0x19e06b6938652d03},
	{240, 0x926eda7a0b8eacf1, 0x9a2066830ca4a37c},
	{241, 0x57c14ddd1d4b8f69, 0x7a79afa0272d2463},
	{1024, 0x4740611a913a8e75, 0xbabec879388bb6f5},
	{1025, 0x8c9c9bebb083edbe, 0x266260b17f161783},
	{2048, 0xca8ea32bdaccb1f3, 0x7de74e7c96678611},
	{5000, 0x6d01b1907aba05b8, 0xadcbfdc75d8222e2},
}

func TestHash64Vectors(t *testing.T) {
	for _, v := range vectors {
		in := patternInput(v.n)
		if got := Hash64(in); got != v.unseeded {
			t.Errorf("Hash64(len=%d) = 0x%016x, want 0x%016x", v.n, got, v.unseeded)
		}
		if got := Hash64WithSeed(in, testSeed); got != v.seeded {
			t.Errorf("Hash64WithSeed(len=%d) = 0x%016x, want 0x%016x", v.n, got, v.seeded)
		}
	}
}

func TestHash64Empty(t *testing.T) {
	if got := Hash64(nil); got != 5999572062939766020 {
		t.Fatalf("Hash64(nil) = %d", got)
	}
	if Hash64(nil) != Hash64([]byte{}) {
		t.Fatal("nil and empty slice hash differently")
	}
}

func TestSeedZeroMatchesUnseeded(t *testing.T) {
	for _, n := range []int{0, 3, 12, 100, 200, 300, 4096} {
		in := patternInput(n)
		if Hash64(in) != Hash64WithSeed(in, 0) {
			t.Fatalf("len=%d: seed 0 differs from unseeded", n)
		}
	}
}

// TestCustomSecretZeroSeed checks the derived secret degenerates to the
// static one, so the long path is consistent across the seed==0 shortcut.
func TestCustomSecretZeroSeed(t *testing.T) {
	var custom [secretSize]byte
	initCustomSecret(&custom, 0)
	if custom != secret {
		t.Fatal("custom secret for seed 0 differs from static secret")
	}
	in := patternInput(3000)
	if hashLong(in, custom[:]) != Hash64(in) {
		t.Fatal("long hash differs with derived secret")
	}
}

func TestHash64DoesNotAllocate(t *testing.T) {
	in := patternInput(240)
	allocs := testing.AllocsPerRun(100, func() {
		_ = Hash64WithSeed(in, testSeed)
		_ = Hash64WithSeed(in[:17], testSeed)
		_ = Hash64WithSeed(in[:5], testSeed)
	})
	if allocs != 0 {
		t.Fatalf("got %v allocs per run", allocs)
	}
}

func BenchmarkHash64(b *testing.B) {
	for _, n := range []int{8, 16, 64, 128, 240, 1024, 4096} {
		in := patternInput(n)
		b.Run(sizeName(n), func(b *testing.B) {
			b.SetBytes(int64(n))
			for b.Loop() {
				_ = Hash64(in)
			}
		})
	}
}

func sizeName(n int) string {
	if n >= 1024 {
		return strconv.Itoa(n/1024) + "KiB"
	}
	return strconv.Itoa(n) + "B"
}
