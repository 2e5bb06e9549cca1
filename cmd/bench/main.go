// Bench measures hashing and unique-ID throughput.
//
// Usage:
//
//	go run ./cmd/bench -records 1000000 -workers 8
//
// Flags:
//
//	-records   Number of table-property records for the batch phase (default: 1,000,000)
//	-workers   Maximum number of batch workers; powers of two up to this are run (default: GOMAXPROCS)
//	-hashes    Number of hash calls per input length (default: 2,000,000)
//	-extended  Compute 192-bit IDs in the batch phase
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"os"
	"runtime"
	"syscall"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/tamirms/sstid"
	"github.com/tamirms/sstid/hashing"
)

// getMaxRSS returns the maximum resident set size in bytes.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	// On macOS, MaxRss is in bytes. On Linux, it's in kilobytes.
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024
	}
	return maxRSS
}

var hashLengths = []int{0, 3, 8, 16, 64, 128, 240, 1024, 16384}

type hashFunc struct {
	name string
	fn   func([]byte) uint64
}

var hashFuncs = []hashFunc{
	{"Hash64", hashing.Hash64},
	{"xxh3", xxh3.Hash},
	{"xxhash64", xxhash.Sum64},
	{"murmur3", murmur3.Sum64},
}

func main() {
	recordsFlag := flag.Int("records", 1_000_000, "number of table-property records")
	workersFlag := flag.Int("workers", runtime.GOMAXPROCS(0), "maximum number of batch workers")
	hashesFlag := flag.Int("hashes", 2_000_000, "hash calls per input length")
	extendedFlag := flag.Bool("extended", false, "compute 192-bit IDs")
	flag.Parse()

	benchHashes(*hashesFlag)

	fmt.Println("Generating records...")
	props := generateProps(*recordsFlag)

	benchSessions(*recordsFlag, *workersFlag)

	baselineRSS := getMaxRSS()
	fmt.Printf("\n%-8s %12s %12s\n", "workers", "time", "IDs/sec")
	for workers := 1; workers <= max(*workersFlag, 1); workers *= 2 {
		opts := []sstid.Option{sstid.WithWorkers(workers)}
		if *extendedFlag {
			opts = append(opts, sstid.WithExtended())
		}
		start := time.Now()
		results, err := sstid.UniqueIDs(context.Background(), props, opts...)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("UniqueIDs failed: %v\n", err)
			os.Exit(1)
		}
		if len(results) != len(props) {
			fmt.Printf("UniqueIDs returned %d results for %d records\n", len(results), len(props))
			os.Exit(1)
		}
		fmt.Printf("%-8d %12s %9.2f M/s\n", workers, elapsed.Round(time.Microsecond),
			float64(len(props))/elapsed.Seconds()/1_000_000)
	}
	fmt.Printf("Peak RSS growth: %.1f MB\n", float64(getMaxRSS()-baselineRSS)/1_000_000)
}

// benchHashes prints ns/op of each hash function per input length.
func benchHashes(n int) {
	fmt.Printf("%-8s", "len")
	for _, h := range hashFuncs {
		fmt.Printf(" %10s", h.name)
	}
	fmt.Println()

	var sink uint64
	for _, length := range hashLengths {
		buf := make([]byte, length)
		_, _ = rand.Read(buf)
		iters := n
		if length > 1024 {
			iters = max(n/(length/1024), 1)
		}
		fmt.Printf("%-8d", length)
		for _, h := range hashFuncs {
			start := time.Now()
			for range iters {
				sink += h.fn(buf)
			}
			fmt.Printf(" %7.1fns", float64(time.Since(start).Nanoseconds())/float64(iters))
		}
		fmt.Println()
	}
	if sink == 42 {
		fmt.Println()
	}
}

// benchSessions measures concurrent session ID generation from one shared
// generator.
func benchSessions(n, workers int) {
	gen := sstid.NewSessionIDGenerator()
	workers = max(workers, 1)
	per := max(n/workers, 1)

	start := time.Now()
	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			for range per {
				_ = gen.NextString()
			}
			return nil
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)
	fmt.Printf("\nSession IDs: %d across %d goroutines in %s (%.2f M/s)\n",
		per*workers, workers, elapsed.Round(time.Microsecond),
		float64(per*workers)/elapsed.Seconds()/1_000_000)
}

// generateProps returns n records spread over a handful of DBs and sessions.
func generateProps(n int) []sstid.TableProperties {
	const dbs, sessionsPerDB = 4, 8
	filesPerSession := uint64(n/(dbs*sessionsPerDB) + 1)
	props := make([]sstid.TableProperties, 0, n)
	for len(props) < n {
		dbID := []byte(sstid.NewDBID())
		gen := sstid.NewSessionIDGenerator()
		for s := 0; s < sessionsPerDB && len(props) < n; s++ {
			session := gen.NextString()
			for f := uint64(1); f <= filesPerSession && len(props) < n; f++ {
				props = append(props, sstid.TableProperties{
					DBID:           dbID,
					DBSessionID:    session,
					OrigFileNumber: f,
				})
			}
		}
	}
	return props
}
