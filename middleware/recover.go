package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/xraph/graft/hook"
)

// Recover returns middleware that recovers from panics in the handler
// chain. Panics are converted to errors and logged with a stack trace,
// so one panicking implementation cannot abort the rest of a dispatch
// pass.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, impl hook.Implementation, next Handler) (ret any, retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("hook implementation panicked",
					slog.String("hook", string(impl.Hook)),
					slog.String("extension", impl.Extension),
					slog.String("symbol", impl.Symbol),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				ret = nil
				retErr = fmt.Errorf("panic in %s: %v", impl.Symbol, r)
			}
		}()
		return next(ctx)
	}
}
