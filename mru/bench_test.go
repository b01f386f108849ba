package mru

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/avolkov/mrucache/refptr"
)

// benchmarkMix exercises a read/write mix against a warm cache.
// The cache is externally synchronized by contract, so the workload is
// sequential; writes reuse one long-lived handle (Add clones it) to
// keep the measurement on the cache hot path rather than allocation of
// payloads.
func benchmarkMix(b *testing.B, readsPct int) {
	c, err := New[string](100_000, Options[string]{})
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = c.Close() })

	v, err := refptr.New("v", func(string) {})
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(v.Release)

	// Preload half the capacity to get a realistic hit-rate.
	for i := 0; i < 50_000; i++ {
		_ = c.Add("k:"+strconv.Itoa(i), v, -1)
	}

	// Report per-op allocations for a rough idea where costs go.
	b.ReportAllocs()
	b.ResetTimer()

	r := rand.New(rand.NewSource(1))
	keyMask := (1 << 16) - 1 // hot keyspace (power of two for fast &-mask)
	for i := 0; i < b.N; i++ {
		k := "k:" + strconv.Itoa(i&keyMask)
		if r.Intn(100) < readsPct {
			if got, _ := c.Get(k); got != nil {
				got.Release()
			}
		} else {
			_ = c.Add(k, v, -1)
		}
	}
}

func BenchmarkCache_90r10w(b *testing.B) { benchmarkMix(b, 90) }
func BenchmarkCache_50r50w(b *testing.B) { benchmarkMix(b, 50) }

// BenchmarkRefCloneRelease isolates the handle's clone/release pair,
// the per-hit overhead every Get adds on top of the map and list work.
func BenchmarkRefCloneRelease(b *testing.B) {
	v, err := refptr.New("v", func(string) {})
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(v.Release)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Clone().Release()
	}
}
