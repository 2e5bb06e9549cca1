//go:build linux

// bench_io measures properties-file I/O: writing a file, then reading its
// records back sequentially and at random, with a warm and a cold page
// cache.
//
// Usage:
//
//	go run ./cmd/bench_io -records 5000000
//	go run ./cmd/bench_io -records 20000000 -dir /mnt/scratch
//
// Cold reads drop the file from the page cache with FADV_DONTNEED before
// each pass. To simulate memory pressure instead:
//
//	sudo systemd-run --scope -p MemoryMax=1G --uid=$(id -u) \
//	  go run ./cmd/bench_io -records 20000000
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sys/unix"

	"github.com/tamirms/sstid"
	"github.com/tamirms/sstid/propsfile"
)

func main() {
	numRecords := flag.Int("records", 5_000_000, "number of records to write")
	dbIDLen := flag.Int("dbid", 36, "DB ID length in bytes")
	randomReads := flag.Int("random", 1_000_000, "number of random record reads")
	tmpDir := flag.String("dir", "", "temp directory (default: os.TempDir())")
	flag.Parse()

	if *tmpDir == "" {
		*tmpDir = os.TempDir()
	}

	fmt.Printf("Configuration:\n")
	fmt.Printf("  Records:      %d\n", *numRecords)
	fmt.Printf("  DB ID length: %d bytes\n", *dbIDLen)
	fmt.Printf("  Temp dir:     %s\n", *tmpDir)
	fmt.Printf("  GOMAXPROCS:   %d\n", runtime.GOMAXPROCS(0))
	fmt.Println()

	dir, err := os.MkdirTemp(*tmpDir, "bench-props-*")
	if err != nil {
		fmt.Printf("  ERROR: create temp dir: %v\n", err)
		return
	}
	defer func() { _ = os.RemoveAll(dir) }()
	path := filepath.Join(dir, "props.sstp")

	records := generateRecords(*numRecords, *dbIDLen)

	fmt.Println("=== write ===")
	writeStart := time.Now()
	if err := propsfile.Write(path, records); err != nil {
		fmt.Printf("  ERROR: write: %v\n", err)
		return
	}
	writeDur := time.Since(writeStart)
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("  ERROR: stat: %v\n", err)
		return
	}
	fmt.Printf("  Write:  %6.2fs (%6.2f M records/sec, %.1f MB)\n",
		writeDur.Seconds(), float64(len(records))/writeDur.Seconds()/1e6, float64(info.Size())/1e6)
	fmt.Println()

	for _, cold := range []bool{false, true} {
		if cold {
			fmt.Println("=== read (cold cache) ===")
		} else {
			fmt.Println("=== read (warm cache) ===")
		}
		if err := benchRead(path, *randomReads, cold); err != nil {
			fmt.Printf("  ERROR: %v\n", err)
			return
		}
		fmt.Println()
	}
}

// dropCache evicts path from the page cache. Best-effort.
func dropCache(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	_ = unix.Fdatasync(int(f.Fd()))
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_DONTNEED)
}

func benchRead(path string, randomReads int, cold bool) error {
	if cold {
		dropCache(path)
	}
	openStart := time.Now()
	r, err := propsfile.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()
	openDur := time.Since(openStart)

	verifyStart := time.Now()
	if err := r.Verify(); err != nil {
		return err
	}
	verifyDur := time.Since(verifyStart)

	if cold {
		dropCache(path)
	}
	seqStart := time.Now()
	var checksum uint64
	for p, err := range r.All() {
		if err != nil {
			return err
		}
		checksum += p.OrigFileNumber
	}
	seqDur := time.Since(seqStart)

	if cold {
		dropCache(path)
	}
	rng := rand.New(rand.NewPCG(42, 0))
	n := r.Len()
	randStart := time.Now()
	for range randomReads {
		if n == 0 {
			break
		}
		p, err := r.Record(rng.IntN(n))
		if err != nil {
			return err
		}
		checksum += p.OrigFileNumber
	}
	randDur := time.Since(randStart)

	fmt.Printf("  Open:        %8.3fms\n", float64(openDur.Microseconds())/1000)
	fmt.Printf("  Verify:      %6.2fs\n", verifyDur.Seconds())
	fmt.Printf("  Sequential:  %6.2fs (%6.2f M records/sec)\n", seqDur.Seconds(), float64(n)/seqDur.Seconds()/1e6)
	fmt.Printf("  Random:      %6.2fs (%6.2f M records/sec) [checksum=%x]\n",
		randDur.Seconds(), float64(randomReads)/randDur.Seconds()/1e6, checksum)
	return nil
}

// generateRecords returns n records from a few hundred sessions of one DB.
func generateRecords(n, dbIDLen int) []sstid.TableProperties {
	dbID := make([]byte, dbIDLen)
	rng := rand.New(rand.NewPCG(1, 2))
	for i := range dbID {
		dbID[i] = 'a' + byte(rng.IntN(26))
	}
	gen := sstid.NewSessionIDGenerator()
	records := make([]sstid.TableProperties, n)
	var session string
	for i := range records {
		if i%10_000 == 0 {
			session = gen.NextString()
		}
		records[i] = sstid.TableProperties{
			DBID:           dbID,
			DBSessionID:    session,
			OrigFileNumber: uint64(i + 1),
		}
	}
	return records
}
