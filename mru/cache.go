package mru

import (
	"time"

	"github.com/avolkov/mrucache/refptr"
)

// MaxIDLen is the maximum accepted id length in bytes.
const MaxIDLen = 300

// Cache is a most-recently-used cache mapping string ids to
// reference-counted value handles, with a fixed entry-count capacity
// and optional per-entry TTL.
//
// Storage is a map[string]*entry for lookups plus an intrusive doubly
// linked list for ordering (head=MRU, tail=LRU). Insert, lookup and
// move-to-front are all O(1).
//
// The cache is NOT internally synchronized: callers must serialize
// access to one instance (e.g. one external mutex per cache, held
// across a call). This is deliberate: only the refptr handles it
// stores and hands out are individually thread-safe, because cached
// values are expected to be shared by many concurrent readers after
// retrieval.
type Cache[V any] struct {
	maxItems int
	numItems int

	m    map[string]*entry[V]
	head *entry[V] // MRU
	tail *entry[V] // LRU

	opt    Options[V]
	closed bool
}

// New constructs a cache holding at most maxItems entries.
// maxItems must be >= 0; zero is valid and yields a cache that evicts
// every entry as soon as it is added.
func New[V any](maxItems int, opt Options[V]) (*Cache[V], error) {
	if maxItems < 0 {
		return nil, ErrNegativeCapacity
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	return &Cache[V]{
		maxItems: maxItems,
		m:        make(map[string]*entry[V], maxItems),
		opt:      opt,
	}, nil
}

// Add inserts or updates the entry for id with a clone of ref; the
// caller keeps its own handle. ttl < 0 means the entry never expires.
//
// A new id is inserted at MRU; an existing id has its old handle
// released, its value/created/ttl refreshed, and is moved to MRU.
// If the insert pushed the cache over capacity, the single LRU entry
// is evicted. A ref that is nil or carries no payload is a documented
// success no-op; there is no value in caching an empty reference.
//
// On failure nothing is mutated.
func (c *Cache[V]) Add(id string, ref *refptr.Ref[V], ttl time.Duration) error {
	if err := c.check(id); err != nil {
		return err
	}
	if !ref.HasValue() {
		return nil
	}

	if e, ok := c.m[id]; ok {
		clone := ref.Clone()
		e.ref.Release()
		e.ref = clone
		e.created = c.now()
		e.ttl = ttl

		// Every add or update moves the entry to the front.
		c.moveToFront(e)
	} else {
		e := &entry[V]{
			id:      id,
			ref:     ref.Clone(),
			created: c.now(),
			ttl:     ttl,
		}
		c.m[id] = e
		c.insertFront(e)
	}

	// Are we now over capacity? At most one eviction is needed, since
	// Add admits at most one net new entry.
	if c.numItems > c.maxItems {
		c.evict(c.tail, EvictCapacity)
	}
	c.opt.Metrics.Size(c.numItems)
	return nil
}

// Get returns a fresh clone of the value handle for id and moves the
// entry to MRU. A miss (unknown id, or an entry past its TTL)
// returns (nil, nil). An expired entry is left exactly where it is:
// recency order is untouched and removal is deferred to Prune or
// capacity eviction.
//
// The caller owns the returned handle and must Release it.
func (c *Cache[V]) Get(id string) (*refptr.Ref[V], error) {
	return c.get(id, false)
}

// GetIncludeExpired is Get without the TTL check: an entry past its
// TTL is still returned (and moved to MRU).
func (c *Cache[V]) GetIncludeExpired(id string) (*refptr.Ref[V], error) {
	return c.get(id, true)
}

func (c *Cache[V]) get(id string, includeExpired bool) (*refptr.Ref[V], error) {
	if err := c.check(id); err != nil {
		return nil, err
	}

	e, ok := c.m[id]
	if !ok || (!includeExpired && c.expired(e)) {
		c.opt.Metrics.Miss()
		return nil, nil
	}

	// Since the entry was accessed, move it to the front of the list.
	c.moveToFront(e)
	c.opt.Metrics.Hit()
	return e.ref.Clone(), nil
}

// Len returns the number of resident entries.
func (c *Cache[V]) Len() (int, error) {
	if c == nil {
		return 0, ErrNilCache
	}
	if c.closed {
		return 0, ErrClosed
	}
	return c.numItems, nil
}

// Keys returns the resident ids in recency order, most recently
// touched first.
func (c *Cache[V]) Keys() ([]string, error) {
	if c == nil {
		return nil, ErrNilCache
	}
	if c.closed {
		return nil, ErrClosed
	}
	ids := make([]string, 0, c.numItems)
	for e := c.head; e != nil; e = e.next {
		ids = append(ids, e.id)
	}
	return ids, nil
}

// Remove deletes the entry for id if present and releases its handle.
// Reports whether an entry existed.
// Note: explicit Remove is not counted as an eviction in metrics and
// does not trigger OnEvict.
func (c *Cache[V]) Remove(id string) (bool, error) {
	if err := c.check(id); err != nil {
		return false, err
	}
	e, ok := c.m[id]
	if !ok {
		return false, nil
	}
	c.removeEntry(e)
	c.opt.Metrics.Size(c.numItems)
	return true, nil
}

// Prune removes and releases every expired entry in one scan.
// Unexpired entries and recency order are unaffected.
func (c *Cache[V]) Prune() error {
	if c == nil {
		return ErrNilCache
	}
	if c.closed {
		return ErrClosed
	}
	for e := c.head; e != nil; {
		next := e.next
		if c.expired(e) {
			c.evict(e, EvictExpired)
		}
		e = next
	}
	c.opt.Metrics.Size(c.numItems)
	return nil
}

// Clear removes and releases every entry, leaving an empty cache.
func (c *Cache[V]) Clear() error {
	if c == nil {
		return ErrNilCache
	}
	if c.closed {
		return ErrClosed
	}
	c.clear()
	c.opt.Metrics.Size(0)
	return nil
}

// Close clears the cache and marks it invalid; every subsequent
// operation returns ErrClosed. Close is idempotent.
func (c *Cache[V]) Close() error {
	if c == nil {
		return ErrNilCache
	}
	if c.closed {
		return nil
	}
	c.clear()
	c.closed = true
	return nil
}

// -------------------- internals --------------------

// check validates the receiver and the id for all per-id operations.
func (c *Cache[V]) check(id string) error {
	if c == nil {
		return ErrNilCache
	}
	if c.closed {
		return ErrClosed
	}
	if id == "" {
		return ErrEmptyID
	}
	if len(id) > MaxIDLen {
		return ErrIDTooLong
	}
	return nil
}

func (c *Cache[V]) now() int64 {
	if c.opt.Clock != nil {
		return c.opt.Clock.NowUnixNano()
	}
	return time.Now().UnixNano()
}

// expired reports whether e's age strictly exceeds its TTL.
// Negative TTL never expires.
func (c *Cache[V]) expired(e *entry[V]) bool {
	if e.ttl < 0 {
		return false
	}
	return time.Duration(c.now()-e.created) > e.ttl
}

// insertFront inserts e at MRU in O(1).
func (c *Cache[V]) insertFront(e *entry[V]) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
	c.numItems++
}

// moveToFront promotes e to MRU in O(1).
func (c *Cache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	// detach
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	if c.tail == e {
		c.tail = e.prev
	}
	// insert at head
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

// removeNode unlinks e from the list and updates the count in O(1).
func (c *Cache[V]) removeNode(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	if c.head == e {
		c.head = e.next
	}
	if c.tail == e {
		c.tail = e.prev
	}
	e.prev, e.next = nil, nil
	c.numItems--
}

// removeEntry unlinks e, drops it from the map, and releases the
// cache's handle on its value.
func (c *Cache[V]) removeEntry(e *entry[V]) {
	c.removeNode(e)
	delete(c.m, e.id)
	e.ref.Release()
	e.ref = nil
}

// evict removes e, notifies OnEvict first (the handle is still alive
// there), and updates metrics.
func (c *Cache[V]) evict(e *entry[V], reason EvictReason) {
	if cb := c.opt.OnEvict; cb != nil {
		cb(e.id, e.ref, reason)
	}
	c.removeEntry(e)
	c.opt.Metrics.Evict(reason)
}

// clear releases every entry and resets the list, map, and count.
func (c *Cache[V]) clear() {
	for e := c.head; e != nil; {
		next := e.next
		e.ref.Release()
		e.ref = nil
		e.prev, e.next = nil, nil
		e = next
	}
	c.head, c.tail = nil, nil
	c.numItems = 0
	c.m = make(map[string]*entry[V])
}
