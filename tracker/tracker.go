// Package tracker records which hook implementations have fired for
// which lifecycle context and enforces at-most-once semantics.
//
// Records are keyed by (hook, context key, implementation identity),
// live only in memory, and never revert once marked: this is the
// mechanism that makes dispatch idempotent and breaks re-entrant
// loops when an implementation triggers a nested dispatch for the
// same hook and context.
package tracker

import (
	"sync"

	"github.com/xraph/graft/hook"
	"github.com/xraph/graft/statekey"
)

// passKey identifies one (hook, context) dispatch stream.
type passKey struct {
	hook hook.Name
	key  statekey.Key
}

// record tracks one implementation's invocation state within a pass.
type record struct {
	impl    hook.Implementation
	invoked bool
}

// Tracker holds invocation records for the process lifetime.
// Individual operations are mutex-guarded and safe for concurrent use;
// serializing whole dispatch passes is the engine's concern.
type Tracker struct {
	mu     sync.Mutex
	passes map[passKey][]*record
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{passes: make(map[passKey][]*record)}
}

// Ensure registers the implementations known for (h, key) the first
// time that pair is seen, all unfired. If records already exist for
// the pair this is a no-op: re-registration attempts are simply
// ignored, so repeated dispatch of the same context is harmless.
func (t *Tracker) Ensure(h hook.Name, key statekey.Key, impls []hook.Implementation) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pk := passKey{hook: h, key: key}
	if _, ok := t.passes[pk]; ok {
		return
	}

	recs := make([]*record, 0, len(impls))
	for _, impl := range impls {
		recs = append(recs, &record{impl: impl})
	}
	t.passes[pk] = recs
}

// Pending returns the implementations for (h, key) that have not yet
// been marked invoked, in registration order.
func (t *Tracker) Pending(h hook.Name, key statekey.Key) []hook.Implementation {
	t.mu.Lock()
	defer t.mu.Unlock()

	var pending []hook.Implementation
	for _, r := range t.passes[passKey{hook: h, key: key}] {
		if !r.invoked {
			pending = append(pending, r.impl)
		}
	}
	return pending
}

// MarkInvoked flips the record for impl to invoked. Callers must mark
// BEFORE invoking the implementation, not after: a nested dispatch
// triggered from inside the implementation then sees the record
// already marked and skips it, terminating re-entrant recursion even
// though the outer invocation has not returned yet. Once set, the flag
// never reverts for the process lifetime.
func (t *Tracker) MarkInvoked(h hook.Name, key statekey.Key, impl hook.Implementation) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, r := range t.passes[passKey{hook: h, key: key}] {
		if r.impl.Extension == impl.Extension && r.impl.Symbol == impl.Symbol {
			r.invoked = true
			return
		}
	}
}

// Claim atomically selects the first pending implementation for
// (h, key), marks it invoked, and returns it. Returns false when
// nothing is pending.
//
// Dispatch loops must claim one implementation at a time rather than
// iterating a Pending snapshot: a re-entrant nested pass may drain
// records between iterations, and a stale snapshot would invoke those
// implementations a second time.
func (t *Tracker) Claim(h hook.Name, key statekey.Key) (hook.Implementation, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, r := range t.passes[passKey{hook: h, key: key}] {
		if !r.invoked {
			r.invoked = true
			return r.impl, true
		}
	}
	return hook.Implementation{}, false
}

// Tracked reports whether records exist for (h, key).
func (t *Tracker) Tracked(h hook.Name, key statekey.Key) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.passes[passKey{hook: h, key: key}]
	return ok
}
