package mru

import (
	"time"

	"github.com/avolkov/mrucache/refptr"
)

// entry is an intrusive doubly linked list element owned by the cache.
// It stores the id and the cache's clone of the value handle alongside
// list links and the metadata used for expiry.
type entry[V any] struct {
	id  string
	ref *refptr.Ref[V]

	// Intrusive list links: head is MRU, tail is LRU.
	prev *entry[V]
	next *entry[V]

	// Clock nanos at insert or last update.
	created int64

	// Time-to-live measured from created.
	// Negative means "never expires"; zero and up is enforced strictly,
	// so ttl == 0 expires as soon as any time has elapsed.
	ttl time.Duration
}
