//go:build go1.18

package mru

import (
	"strings"
	"testing"

	"github.com/avolkov/mrucache/refptr"
)

// Fuzz basic Add/Get/Remove semantics under arbitrary string inputs.
// Guards against panics and ensures core invariants hold.
// NOTE: ids longer than MaxIDLen are truncated so the workload stays in
// the accepted range; rejection of over-long ids is covered separately.
func FuzzCache_AddGetRemove(f *testing.F) {
	// Seed corpus: ASCII, Unicode, boundary-length ids.
	f.Add("a", "1")
	f.Add("b", "2")
	f.Add("αβγ", "δ")
	f.Add("emoji🙂", "🙂🙂")
	f.Add(strings.Repeat("x", MaxIDLen), strings.Repeat("v", 1024))

	f.Fuzz(func(t *testing.T, id, v string) {
		if len(id) > MaxIDLen {
			id = id[:MaxIDLen]
		}
		if id == "" {
			t.Skip("empty ids are rejected by contract")
		}

		c, err := New[string](16, Options[string]{})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		t.Cleanup(func() { _ = c.Close() })

		r, err := refptr.New(v, func(string) {})
		if err != nil {
			t.Fatalf("refptr.New: %v", err)
		}
		defer r.Release()

		// Add -> Get must return the same payload.
		if err := c.Add(id, r, -1); err != nil {
			t.Fatalf("Add: %v", err)
		}
		got, err := c.Get(id)
		if err != nil || got == nil {
			t.Fatalf("Get after Add: ref=%v err=%v", got, err)
		}
		if p, ok := got.Payload(); !ok || p != v {
			t.Fatalf("payload: want %q, got %q ok=%v", v, p, ok)
		}
		got.Release()

		// Remove must delete and report true once.
		ok, err := c.Remove(id)
		if err != nil || !ok {
			t.Fatalf("Remove: ok=%v err=%v", ok, err)
		}
		if got, err := c.Get(id); err != nil || got != nil {
			t.Fatalf("id must be absent after Remove: ref=%v err=%v", got, err)
		}

		// After removal, Add should succeed again.
		if err := c.Add(id, r, -1); err != nil {
			t.Fatalf("Add after Remove: %v", err)
		}
		if n, err := c.Len(); err != nil || n != 1 {
			t.Fatalf("Len: n=%d err=%v", n, err)
		}
	})
}
