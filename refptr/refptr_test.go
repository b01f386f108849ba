package refptr

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// One clone plus the original, released in either order: the finalizer
// must run exactly once, with the original payload, and only after the
// second release.
func TestRef_FinalizerExactlyOnce(t *testing.T) {
	t.Parallel()

	var frees int
	var freed string
	r, err := New("payload", func(s string) {
		frees++
		freed = s
	})
	require.NoError(t, err)

	clone := r.Clone()
	require.NotNil(t, clone)

	r.Release()
	require.Zero(t, frees, "finalizer must not run while a clone is live")

	v, ok := clone.Payload()
	require.True(t, ok)
	require.Equal(t, "payload", v)

	clone.Release()
	require.Equal(t, 1, frees)
	require.Equal(t, "payload", freed)
}

func TestRef_NewRequiresFinalizer(t *testing.T) {
	t.Parallel()

	r, err := New("x", nil)
	require.ErrorIs(t, err, ErrNilFinalizer)
	require.Nil(t, r)
}

func TestRef_Empty(t *testing.T) {
	t.Parallel()

	r := NewEmpty[string]()
	require.NotNil(t, r)
	require.False(t, r.HasValue())

	v, ok := r.Payload()
	require.False(t, ok)
	require.Empty(t, v)

	clone := r.Clone()
	require.NotNil(t, clone)
	require.False(t, clone.HasValue())

	clone.Release()
	r.Release()
}

// All operations must tolerate a nil handle.
func TestRef_NilHandle(t *testing.T) {
	t.Parallel()

	var r *Ref[int]
	require.Nil(t, r.Clone())
	require.False(t, r.HasValue())
	_, ok := r.Payload()
	require.False(t, ok)
	r.Release() // no-op, must not panic
}

// Releasing the same handle object twice must not double-decrement:
// the sibling clone keeps the payload alive.
func TestRef_DoubleReleaseGuarded(t *testing.T) {
	t.Parallel()

	var frees int
	r, err := New(42, func(int) { frees++ })
	require.NoError(t, err)
	clone := r.Clone()

	r.Release()
	r.Release() // guarded no-op
	require.Zero(t, frees)

	v, ok := clone.Payload()
	require.True(t, ok)
	require.Equal(t, 42, v)

	clone.Release()
	require.Equal(t, 1, frees)
}

// A released handle reports no payload; Clone on it returns nil and
// leaves the shared count untouched.
func TestRef_ReleasedHandleIsInert(t *testing.T) {
	t.Parallel()

	var frees int
	r, err := New("v", func(string) { frees++ })
	require.NoError(t, err)
	clone := r.Clone()

	r.Release()
	require.False(t, r.HasValue())
	require.Nil(t, r.Clone())

	require.True(t, clone.HasValue())
	clone.Release()
	require.Equal(t, 1, frees)
}

// White-box: the shared count must track live handles exactly.
func TestRef_CountAccounting(t *testing.T) {
	t.Parallel()

	r, err := New("v", func(string) {})
	require.NoError(t, err)
	require.Equal(t, 1, r.s.refs)

	a := r.Clone()
	b := a.Clone()
	require.Equal(t, 3, r.s.refs)

	b.Release()
	require.Equal(t, 2, r.s.refs)
	a.Release()
	require.Equal(t, 1, r.s.refs)
	r.Release()
	require.Equal(t, 0, r.s.refs)
}

// Hammer one allocation from many goroutines: each clones, reads the
// payload, and releases. The finalizer must fire exactly once, after
// every handle is gone. Run with -race.
func TestRef_ConcurrentCloneRelease(t *testing.T) {
	t.Parallel()

	var frees atomic.Int64
	base, err := New("shared", func(string) { frees.Add(1) })
	require.NoError(t, err)

	const goroutines = 32
	const iterations = 500

	var g errgroup.Group
	for i := 0; i < goroutines; i++ {
		c := base.Clone()
		g.Go(func() error {
			defer c.Release()
			for j := 0; j < iterations; j++ {
				inner := c.Clone()
				if _, ok := inner.Payload(); !ok {
					inner.Release()
					return errorsNew("payload vanished while referenced")
				}
				inner.Release()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Zero(t, frees.Load(), "base handle still holds a reference")

	base.Release()
	require.Equal(t, int64(1), frees.Load())
}
