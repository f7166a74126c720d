// Package middleware provides composable middleware for hook
// invocation. Middleware wraps callable execution synchronously and can
// modify it (recover from panics, log, record metrics, add tracing).
package middleware

import (
	"context"

	"github.com/xraph/graft/hook"
)

// Handler is the terminal function that runs the hook implementation
// and returns its merge value.
type Handler func(ctx context.Context) (any, error)

// Middleware wraps a Handler with cross-cutting logic. It receives the
// current context, the implementation being invoked, and the next
// handler to call. Middleware MUST call next to continue the chain
// (unless short-circuiting on error).
type Middleware func(ctx context.Context, impl hook.Implementation, next Handler) (any, error)

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(recover, logging, metrics) executes as:
//
//	recover → logging → metrics → handler
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, impl hook.Implementation, next Handler) (any, error) {
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) (any, error) {
				return mw(ctx, impl, prev)
			}
		}
		return h(ctx)
	}
}
