package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"

	"github.com/xraph/graft"
	"github.com/xraph/graft/catalog"
	"github.com/xraph/graft/graph"
	"github.com/xraph/graft/hook"
	mw "github.com/xraph/graft/middleware"
	"github.com/xraph/graft/statekey"
	"github.com/xraph/graft/tracker"
)

// meterName is the instrumentation scope name for engine metrics.
const meterName = "github.com/xraph/graft/engine"

// Engine dispatches lifecycle hooks across a resolved extension graph
// with at-most-once semantics per (hook, context key, implementation).
type Engine struct {
	config  graft.Config
	logger  *slog.Logger
	source  graft.Source
	symbols catalog.SymbolSource
	rootID  string

	userMws []mw.Middleware
	chain   mw.Middleware
	trk     *tracker.Tracker

	// Graph and catalog are resolved on first dispatch and cached for
	// the process lifetime. Same root, same declarations, same result.
	resolveOnce sync.Once
	resolveErr  error
	graph       *graph.Graph
	cat         *catalog.Catalog

	// locks serializes non-nested concurrent passes per (hook, key)
	// so the ensure-and-invoke sequence is one critical section.
	locks sync.Map // passID → *sync.Mutex

	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	skips          metric.Int64Counter
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger for the engine.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithHooks overrides the supported hook set used to build the catalog.
func WithHooks(hooks []hook.Name) Option {
	return func(e *Engine) { e.config.Hooks = hooks }
}

// WithMiddleware appends middleware to the engine's invocation chain,
// after the default recover → tracing → metrics → logging stack.
func WithMiddleware(m mw.Middleware) Option {
	return func(e *Engine) { e.userMws = append(e.userMws, m) }
}

// WithTracerProvider sets a custom OTel TracerProvider for the engine.
// If not set, the global otel.GetTracerProvider() is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) { e.tracerProvider = tp }
}

// WithMeterProvider sets a custom OTel MeterProvider for the engine.
// If not set, the global otel.GetMeterProvider() is used.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(e *Engine) { e.meterProvider = mp }
}

// New creates an engine rooted at the extension rootID. The
// declaration source and symbol source are required collaborators;
// graph resolution is deferred to the first dispatch.
func New(rootID string, src graft.Source, syms catalog.SymbolSource, opts ...Option) (*Engine, error) {
	if src == nil {
		return nil, graft.ErrNoSource
	}
	if syms == nil {
		return nil, graft.ErrNoSymbols
	}

	e := &Engine{
		config:  graft.DefaultConfig(),
		logger:  slog.Default(),
		source:  src,
		symbols: syms,
		rootID:  rootID,
		trk:     tracker.New(),
	}
	for _, opt := range opts {
		opt(e)
	}

	// Build tracing middleware (custom provider or global).
	var tracingMw mw.Middleware
	if e.tracerProvider != nil {
		tracingMw = mw.TracingWithTracer(e.tracerProvider.Tracer("github.com/xraph/graft"))
	} else {
		tracingMw = mw.Tracing()
	}

	// Build metrics middleware (custom provider or global).
	var metricsMw mw.Middleware
	var meter metric.Meter
	if e.meterProvider != nil {
		meter = e.meterProvider.Meter(meterName)
		metricsMw = mw.MetricsWithMeter(e.meterProvider.Meter("github.com/xraph/graft"))
	} else {
		meter = otel.Meter(meterName)
		metricsMw = mw.Metrics()
	}

	// Re-entrant skips are not errors, but they must be observable:
	// a skip means either intentional re-entrancy or a bug in an
	// implementation's own recursion.
	skips, sErr := meter.Int64Counter(
		"graft.dispatch.reentrant_skips",
		metric.WithDescription("Implementations skipped because their (hook, context) record was already marked invoked"),
		metric.WithUnit("{skip}"),
	)
	_ = sErr // noop fallback guaranteed by OTel API contract
	e.skips = skips

	mws := []mw.Middleware{
		mw.Recover(e.logger),
		tracingMw,
		metricsMw,
		mw.Logging(e.logger),
	}
	mws = append(mws, e.userMws...)
	e.chain = mw.Chain(mws...)

	return e, nil
}

// resolve builds the extension graph and hook catalog on first use.
// Resolution errors are cached too: a root whose graph cannot resolve
// stays fatal for every subsequent dispatch.
func (e *Engine) resolve(ctx context.Context) error {
	e.resolveOnce.Do(func() {
		g, err := graph.Resolve(ctx, e.source, e.rootID)
		if err != nil {
			e.resolveErr = err
			return
		}
		e.graph = g
		e.cat = catalog.Build(g, e.config.Hooks, e.symbols)

		e.logger.Info("extension graph resolved",
			slog.String("root", e.rootID),
			slog.Int("extensions", len(g.Extensions)),
			slog.Int("dependencies", g.Dependencies.Cardinality()),
		)
	})
	return e.resolveErr
}

// Graph returns the resolved extension graph, resolving it if needed.
func (e *Engine) Graph(ctx context.Context) (*graph.Graph, error) {
	if err := e.resolve(ctx); err != nil {
		return nil, err
	}
	return e.graph, nil
}

// Catalog returns the hook catalog, resolving the graph if needed.
func (e *Engine) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	if err := e.resolve(ctx); err != nil {
		return nil, err
	}
	return e.cat, nil
}

// Dispatch runs hook h against the lifecycle state st, threading
// payload through every implementation not yet invoked for this
// (hook, context) pair, in catalog order.
//
// Implementations already marked for this exact context are skipped —
// dispatching twice with structurally identical state runs each
// implementation exactly once total. Individual implementation
// failures do not abort the pass; they are aggregated (as
// *graft.ImplementationError values) and returned together after all
// implementations have run. The returned payload is always usable.
func (e *Engine) Dispatch(ctx context.Context, h hook.Name, st hook.State, payload *hook.Payload) (*hook.Payload, error) {
	if err := e.resolve(ctx); err != nil {
		return payload, err
	}

	key, err := statekey.Of(st)
	if err != nil {
		return payload, err
	}

	return e.run(ctx, h, key, st, payload, e.cat.ImplementationsFor(h))
}

// DispatchWith is the install-flavor override: the host supplies an
// explicit, pre-resolved, ordered implementation list instead of
// deriving one from the catalog. This lets a host resolve
// execution-order conflicts between extensions' setup actions.
// Tracking, merging, and error semantics match Dispatch.
func (e *Engine) DispatchWith(ctx context.Context, h hook.Name, st hook.State, payload *hook.Payload, impls []hook.Implementation) (*hook.Payload, error) {
	key, err := statekey.Of(st)
	if err != nil {
		return payload, err
	}

	return e.run(ctx, h, key, st, payload, impls)
}

// run executes one dispatch pass under the (hook, key) critical
// section, unless the pass is already in flight on this call stack.
func (e *Engine) run(ctx context.Context, h hook.Name, key statekey.Key, st hook.State, payload *hook.Payload, impls []hook.Implementation) (*hook.Payload, error) {
	if payload == nil {
		payload = hook.NewPayload()
	}

	p := passID{hook: h, key: key}
	if !isInFlight(ctx, p) {
		// Serialize concurrent passes for the same (hook, key).
		// A nested re-entrant pass must NOT re-acquire: the outer
		// pass holds the lock and the records it pre-marked are
		// exactly what makes the nested pass a no-op.
		lock := e.passLock(p)
		lock.Lock()
		defer lock.Unlock()
		ctx = withInFlight(ctx, p)
	}

	e.trk.Ensure(h, key, impls)
	pending := e.trk.Pending(h, key)

	if skipped := len(impls) - len(pending); skipped > 0 {
		e.logger.Debug("skipping already-invoked implementations",
			slog.String("hook", string(h)),
			slog.String("context_key", key.String()),
			slog.Int("skipped", skipped),
		)
		e.skips.Add(ctx, int64(skipped),
			metric.WithAttributes(attribute.String("hook", string(h))))
	}

	var errs error
	for {
		// Claim marks the record invoked BEFORE the implementation
		// runs: a nested dispatch triggered from inside it sees the
		// record already set and terminates instead of recursing.
		// Claiming one at a time (rather than iterating the pending
		// snapshot) keeps at-most-once intact when a nested pass
		// drains records mid-loop.
		impl, ok := e.trk.Claim(h, key)
		if !ok {
			break
		}

		v, err := e.chain(ctx, impl, func(ctx context.Context) (any, error) {
			return impl.Fn(ctx, payload, st)
		})
		if err != nil {
			errs = multierr.Append(errs, &graft.ImplementationError{
				Hook:      string(h),
				Extension: impl.Extension,
				Symbol:    impl.Symbol,
				Err:       err,
			})
			continue
		}
		if v != nil {
			e.merge(h, payload, v)
		}
	}

	return payload, errs
}

// merge folds a value returned by an implementation into the payload
// according to the hook's kind.
func (e *Engine) merge(h hook.Name, payload *hook.Payload, v any) {
	switch h.Kind() {
	case hook.KindGather:
		switch deps := v.(type) {
		case []string:
			payload.Dependencies.Append(deps...)
		case string:
			payload.Dependencies.Add(deps)
		default:
			e.warnMergeType(h, v)
		}
	case hook.KindTasks:
		switch tasks := v.(type) {
		case []hook.Task:
			payload.Tasks = append(payload.Tasks, tasks...)
		case hook.Task:
			payload.Tasks = append(payload.Tasks, tasks)
		default:
			e.warnMergeType(h, v)
		}
	case hook.KindForm:
		switch form := v.(type) {
		case hook.Form:
			payload.Form = form
		case map[string]any:
			payload.Form = hook.Form(form)
		default:
			e.warnMergeType(h, v)
		}
	case hook.KindAction:
		// Side-effecting hooks: returned values are ignored.
	}
}

func (e *Engine) warnMergeType(h hook.Name, v any) {
	e.logger.Warn("implementation returned unmergeable value",
		slog.String("hook", string(h)),
		slog.String("type", fmt.Sprintf("%T", v)),
	)
}

// passLock returns the mutex serializing passes for p.
func (e *Engine) passLock(p passID) *sync.Mutex {
	v, _ := e.locks.LoadOrStore(p, &sync.Mutex{})
	return v.(*sync.Mutex)
}
