package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/graft/hook"
)

// tracerName is the instrumentation scope name for graft tracing.
const tracerName = "github.com/xraph/graft"

// Tracing returns middleware that wraps each hook invocation in an
// OpenTelemetry span. If no TracerProvider is configured globally, the
// default noop tracer is used and this middleware becomes a
// pass-through with zero overhead.
//
// Span attributes include: graft.hook, graft.extension, graft.symbol,
// graft.location. On error, the span status is set to codes.Error with
// the error message.
func Tracing() Middleware {
	tracer := otel.Tracer(tracerName)
	return TracingWithTracer(tracer)
}

// TracingWithTracer returns tracing middleware using the provided
// tracer. This variant allows injecting a specific TracerProvider for
// testing or when multiple providers are in use.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, impl hook.Implementation, next Handler) (any, error) {
		ctx, span := tracer.Start(ctx, "graft.hook.invoke",
			trace.WithAttributes(
				attribute.String("graft.hook", string(impl.Hook)),
				attribute.String("graft.extension", impl.Extension),
				attribute.String("graft.symbol", impl.Symbol),
				attribute.String("graft.location", impl.Location),
			),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		v, err := next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return v, err
	}
}
