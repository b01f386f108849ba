package mru

import "github.com/avolkov/mrucache/refptr"

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictCapacity — removed because an Add pushed the cache over maxItems.
	EvictCapacity EvictReason = iota
	// EvictExpired — removed by Prune after its TTL elapsed.
	EvictExpired
)

// Clock provides time in UnixNano; useful for deterministic tests.
type Clock interface{ NowUnixNano() int64 }

// Options configures cache behavior. Zero values are safe;
// sane defaults are applied in New():
//   - nil Metrics => NoopMetrics
//   - nil Clock   => time.Now()
type Options[V any] struct {
	// OnEvict is called for capacity and expiry evictions, before the
	// entry's handle is released. Clone the handle inside the callback
	// to keep the value alive. Explicit Remove/Clear/Close do not
	// trigger it.
	OnEvict func(id string, ref *refptr.Ref[V], reason EvictReason)

	// Metrics receives Hit/Miss/Evict/Size signals.
	Metrics Metrics

	// Clock allows overriding the time source (tests). Nil => time.Now().
	Clock Clock
}
