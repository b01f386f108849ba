package refptr

import (
	"sync"
	"sync/atomic"
)

// ErrNilFinalizer is returned by New when no finalizer is supplied.
// A finalizer is mandatory: the shared state must always know how to
// release its payload once the last reference is gone.
var ErrNilFinalizer = errorsNew("refptr: nil finalizer")

// lightweight local errors.New to avoid importing std 'errors' everywhere
func errorsNew(s string) error { return &strErr{s} }

type strErr struct{ s string }

func (e *strErr) Error() string { return e.s }

// shared is the jointly owned state behind every clone of one logical
// allocation. refs and val are guarded by mu; the finalizer runs at
// most once, when refs drops to zero, while mu is still held, so no
// Clone/Payload/Release on the same state can overlap it.
type shared[T any] struct {
	mu        sync.Mutex
	refs      int
	val       T
	hasValue  bool
	finalizer func(T)
}

// Ref is a reference-counted handle onto a shared payload.
//
// Clones of the same Ref share one payload and one counter; the payload
// is finalized exactly once, when the last clone is released. Unlike the
// cache in package mru, a Ref is safe for concurrent use: any goroutine
// holding a clone may Clone, Release, or read the payload.
//
// Each Ref object must be released exactly once. A second Release of
// the same object is a guarded no-op and does not disturb the count.
type Ref[T any] struct {
	s        *shared[T]
	released atomic.Bool
}

// New wraps payload in a reference-counted handle with refs == 1.
// finalizer is invoked with the payload when the last clone is
// released; it must not be nil.
func New[T any](payload T, finalizer func(T)) (*Ref[T], error) {
	if finalizer == nil {
		return nil, ErrNilFinalizer
	}
	return &Ref[T]{s: &shared[T]{
		refs:      1,
		val:       payload,
		hasValue:  true,
		finalizer: finalizer,
	}}, nil
}

// NewEmpty returns a handle that carries no payload. Releasing it is
// still required, but finalization is a no-op.
func NewEmpty[T any]() *Ref[T] {
	return &Ref[T]{s: &shared[T]{
		refs:      1,
		finalizer: func(T) {},
	}}
}

// Clone increments the shared count and returns a new handle onto the
// same payload. Clone of a nil or already-released handle returns nil;
// the count is left untouched in that case.
func (r *Ref[T]) Clone() *Ref[T] {
	if r == nil || r.released.Load() {
		return nil
	}
	s := r.s
	s.mu.Lock()
	s.refs++
	s.mu.Unlock()
	return &Ref[T]{s: s}
}

// Release drops this handle's reference. When the count reaches zero
// the finalizer runs exactly once with the payload, and the payload is
// cleared so it can be collected. Safe to call on a nil handle; extra
// Release calls on the same handle are no-ops.
func (r *Ref[T]) Release() {
	if r == nil || !r.released.CompareAndSwap(false, true) {
		return
	}
	s := r.s
	s.mu.Lock()
	s.refs--
	if s.refs == 0 {
		fin := s.finalizer
		val := s.val
		s.finalizer = nil
		var zero T
		s.val = zero
		s.hasValue = false
		// Still under mu: a finalizer must never overlap a concurrent
		// Clone or Payload on the same shared state.
		fin(val)
	}
	s.mu.Unlock()
}

// Payload returns the shared payload and whether one is present.
// A nil or released handle, or one created by NewEmpty, reports absent.
func (r *Ref[T]) Payload() (T, bool) {
	var zero T
	if r == nil || r.released.Load() {
		return zero, false
	}
	s := r.s
	s.mu.Lock()
	val, ok := s.val, s.hasValue
	s.mu.Unlock()
	if !ok {
		return zero, false
	}
	return val, true
}

// HasValue reports whether the handle carries a payload.
func (r *Ref[T]) HasValue() bool {
	_, ok := r.Payload()
	return ok
}
