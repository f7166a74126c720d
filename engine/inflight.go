package engine

import (
	"context"

	"github.com/xraph/graft/hook"
	"github.com/xraph/graft/statekey"
)

// passID identifies one (hook, context key) dispatch pass.
type passID struct {
	hook hook.Name
	key  statekey.Key
}

// inflightCtxKey carries the set of passes active on the current call
// stack. Implementations receive the dispatch context and pass it to
// nested Dispatch calls, so a nested pass for the same (hook, key) is
// recognized as re-entrant rather than concurrent and does not try to
// re-acquire the pass lock.
type inflightCtxKey struct{}

// withInFlight returns ctx with p added to the active pass set.
// The set is copied, not mutated: sibling goroutines holding the
// parent context are unaffected.
func withInFlight(ctx context.Context, p passID) context.Context {
	prev, _ := ctx.Value(inflightCtxKey{}).(map[passID]struct{})
	next := make(map[passID]struct{}, len(prev)+1)
	for k := range prev {
		next[k] = struct{}{}
	}
	next[p] = struct{}{}
	return context.WithValue(ctx, inflightCtxKey{}, next)
}

// isInFlight reports whether p is active on this call stack.
func isInFlight(ctx context.Context, p passID) bool {
	set, _ := ctx.Value(inflightCtxKey{}).(map[passID]struct{})
	_, ok := set[p]
	return ok
}
