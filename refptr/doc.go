// Package refptr provides a reference-counted, shared-ownership handle
// around an arbitrary payload.
//
// A Ref is created with a payload and a finalizer. Cloning it hands a
// new, independently releasable handle to another owner; the payload
// stays shared and is finalized exactly once, when the last handle is
// released. This is the primitive package mru uses to hand one cached
// value to many concurrent readers without copying it.
//
// Concurrency
//
// All operations on handles of the same allocation are safe to call
// concurrently: the count and payload live behind one mutex, and the
// finalizer never overlaps a live Clone, Payload, or Release.
//
// Basic usage
//
//	buf := make([]byte, 1<<20)
//	r, err := refptr.New(buf, func(b []byte) { pool.Put(b) })
//	if err != nil { ... }
//
//	other := r.Clone() // hand off to another goroutine
//	go func() {
//	    defer other.Release()
//	    if b, ok := other.Payload(); ok {
//	        use(b)
//	    }
//	}()
//
//	r.Release() // finalizer runs after the last Release
package refptr
