package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/graft/hook"
)

// Logging returns middleware that logs invocation start and completion.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, impl hook.Implementation, next Handler) (any, error) {
		logger.Debug("hook invocation started",
			slog.String("hook", string(impl.Hook)),
			slog.String("extension", impl.Extension),
			slog.String("symbol", impl.Symbol),
		)

		start := time.Now()
		v, err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("hook invocation failed",
				slog.String("hook", string(impl.Hook)),
				slog.String("extension", impl.Extension),
				slog.String("symbol", impl.Symbol),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Debug("hook invocation completed",
				slog.String("hook", string(impl.Hook)),
				slog.String("extension", impl.Extension),
				slog.String("symbol", impl.Symbol),
				slog.Duration("elapsed", elapsed),
			)
		}

		return v, err
	}
}
