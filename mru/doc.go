// Package mru provides a bounded most-recently-used cache that maps
// string ids to reference-counted value handles (package refptr), with
// per-entry TTL and capacity-based eviction.
//
// Design
//
//   - Storage: a map[string]*entry for lookups and an intrusive
//     MRU↔LRU doubly linked list for ordering. Add, Get and
//     move-to-front are O(1); Prune and Clear are O(n).
//
//   - Recency: every Add (insert or update) and every successful Get
//     moves the entry to the front. When an Add pushes the cache over
//     capacity, the single tail (least recently touched) entry is
//     evicted. Capacity eviction ignores TTL and may evict an
//     unexpired entry.
//
//   - TTL: entries carry a per-item TTL measured from their last Add.
//     Negative TTL never expires; ttl >= 0 expires once the entry's age
//     strictly exceeds it. Expiry is lazy: a plain Get reports a miss
//     for an expired entry but leaves it in place, untouched in recency
//     order; only Prune (and capacity eviction) actually removes
//     entries. GetIncludeExpired ignores TTL entirely.
//
//   - Values: the cache stores a clone of the refptr handle it is
//     given and hands out fresh clones on Get, so callers, the cache,
//     and concurrent readers each own an independent reference to one
//     shared payload. The payload is finalized when the last reference
//     anywhere is released.
//
//   - Concurrency: the cache itself is NOT synchronized; callers must
//     serialize access to an instance (typically one mutex per cache).
//     The handles it returns are individually thread-safe, which is
//     the boundary that matters once values fan out to readers.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals;
//     NoopMetrics is the default. Plug the metrics/prom adapter to
//     export Prometheus counters.
//
//   - Callbacks: Options.OnEvict(id, ref, reason) runs for capacity
//     and expiry evictions while the entry's handle is still alive.
//
// Basic usage
//
//	c, err := mru.New[[]byte](1024, mru.Options[[]byte]{})
//	if err != nil { ... }
//	defer func() { _ = c.Close() }()
//
//	r, _ := refptr.New(payload, func([]byte) { /* release payload */ })
//	_ = c.Add("blob:1", r, 30*time.Second) // cache takes its own clone
//	r.Release()                            // caller's handle
//
//	if got, err := c.Get("blob:1"); err == nil && got != nil {
//	    defer got.Release()
//	    b, _ := got.Payload()
//	    _ = b
//	}
//
// Deterministic expiry in tests
//
//	clk := &fakeClock{}
//	c, _ := mru.New[string](8, mru.Options[string]{Clock: clk})
//	// advance clk instead of sleeping
package mru
