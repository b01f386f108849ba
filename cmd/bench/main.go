// Command bench runs a synthetic workload against the cache and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/avolkov/mrucache/metrics/prom"
	"github.com/avolkov/mrucache/mru"
	"github.com/avolkov/mrucache/refptr"
)

func main() {
	// ---- Flags ----
	var (
		capacity = flag.Int("cap", 100_000, "cache capacity (entries)")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")

		keys    = flag.Int("keys", 1_000_000, "keyspace size")
		ttl     = flag.Duration("ttl", -1, "per-entry TTL (negative = never expires)")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 0, "preload entries (0 = cap/2)")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr")
	)
	flag.Parse()

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := prom.New(nil, "mru", "bench", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("metrics: serving at %s", *metricsAddr)
		log.Println(http.ListenAndServe(*metricsAddr, nil))
	}()

	// ---- Build cache ----
	// The cache is externally synchronized by contract: one mutex per
	// instance, held across each call. The ref-counted values are the
	// part that fans out to concurrent readers lock-free.
	c, err := mru.New[[]byte](*capacity, mru.Options[[]byte]{Metrics: metrics})
	if err != nil {
		log.Fatalf("mru.New: %v", err)
	}
	defer func() { _ = c.Close() }()
	var mu sync.Mutex

	value, err := refptr.New(make([]byte, 64), func([]byte) {})
	if err != nil {
		log.Fatalf("refptr.New: %v", err)
	}
	defer value.Release()

	// ---- Preload ----
	pl := *preload
	if pl <= 0 {
		pl = *capacity / 2
	}
	for i := 0; i < pl; i++ {
		if err := c.Add("k:"+strconv.Itoa(i), value, *ttl); err != nil {
			log.Fatalf("preload: %v", err)
		}
	}
	log.Printf("preloaded %d entries, cap=%d, workers=%d, reads=%d%%", pl, *capacity, *workers, *readPct)

	// ---- Run workload ----
	var reads, writes, hits atomic.Int64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	var g errgroup.Group
	for w := 0; w < *workers; w++ {
		r := rand.New(rand.NewSource(*seed + int64(w)*9973))
		g.Go(func() error {
			for ctx.Err() == nil {
				k := "k:" + strconv.Itoa(r.Intn(*keys))
				if r.Intn(100) < *readPct {
					mu.Lock()
					got, err := c.Get(k)
					mu.Unlock()
					if err != nil {
						return err
					}
					reads.Add(1)
					if got != nil {
						hits.Add(1)
						// Payload access happens outside the cache lock;
						// the handle keeps the value alive.
						_, _ = got.Payload()
						got.Release()
					}
				} else {
					mu.Lock()
					err := c.Add(k, value, *ttl)
					mu.Unlock()
					if err != nil {
						return err
					}
					writes.Add(1)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("worker: %v", err)
	}
	elapsed := time.Since(start)

	mu.Lock()
	n, _ := c.Len()
	mu.Unlock()

	total := reads.Load() + writes.Load()
	log.Printf("done in %v: %d ops (%.0f ops/s), reads=%d (hits=%d), writes=%d, resident=%d",
		elapsed.Round(time.Millisecond),
		total, float64(total)/elapsed.Seconds(),
		reads.Load(), hits.Load(), writes.Load(), n)
}
