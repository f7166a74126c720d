// Package notify provides the subject/observer alternative to the
// catalog-based engine: a shared hub holds the currently active hook
// as transient state and offers it to every attached observer
// uniformly; each observer independently decides whether it has a
// matching callable.
//
// The hub shares the invocation tracker's keying scheme — records are
// keyed by (hook, context key, observer) — so re-entrant notification
// during a callback cannot re-trigger the same hook+observer pair.
// Without that safeguard this shape is vulnerable to infinite
// notification loops and must not be used.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"go.uber.org/multierr"

	"github.com/xraph/graft"
	"github.com/xraph/graft/hook"
	"github.com/xraph/graft/statekey"
	"github.com/xraph/graft/tracker"
)

// Observer is a collaborator attached to the hub. For each notified
// hook, the observer reports whether it carries a matching callable.
type Observer interface {
	// Name returns a unique human-readable name for the observer.
	Name() string

	// Callable returns the observer's implementation of h, if any.
	Callable(h hook.Name) (hook.Callable, bool)
}

// Hub notifies attached observers of lifecycle hooks. Observers are
// notified in attachment order; each fires at most once per distinct
// (hook, context) pair for the process lifetime.
type Hub struct {
	mu        sync.Mutex
	observers []Observer
	trk       *tracker.Tracker
	logger    *slog.Logger

	// active is the hook currently being notified. Transient: set for
	// the duration of a Notify pass, for diagnostics only — invocation
	// keying never depends on it.
	active hook.Name
}

// NewHub creates an observer hub with the given logger.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{trk: tracker.New(), logger: logger}
}

// Attach adds an observer. Observers are notified in attachment order.
func (hb *Hub) Attach(o Observer) {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	hb.observers = append(hb.observers, o)
}

// Observers returns all attached observers.
func (hb *Hub) Observers() []Observer {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	return append([]Observer(nil), hb.observers...)
}

// Notify offers hook h with state st to every attached observer.
// Observers without a matching callable are passed over silently;
// observers already recorded for this (hook, context) pair are
// skipped. Callable errors are aggregated and returned after the full
// pass, as with the engine.
func (hb *Hub) Notify(ctx context.Context, h hook.Name, st hook.State, payload *hook.Payload) (*hook.Payload, error) {
	key, err := statekey.Of(st)
	if err != nil {
		return payload, err
	}
	if payload == nil {
		payload = hook.NewPayload()
	}

	hb.mu.Lock()
	observers := append([]Observer(nil), hb.observers...)
	hb.active = h
	hb.mu.Unlock()
	defer func() {
		hb.mu.Lock()
		hb.active = ""
		hb.mu.Unlock()
	}()

	// Build the implementation set from whichever observers match,
	// then track and fire exactly like a catalog pass.
	var impls []hook.Implementation
	for _, o := range observers {
		fn, ok := o.Callable(h)
		if !ok {
			continue
		}
		impls = append(impls, hook.Implementation{
			Hook:      h,
			Extension: o.Name(),
			Symbol:    hook.Symbol(o.Name(), h),
			Fn:        fn,
		})
	}

	hb.trk.Ensure(h, key, impls)
	pending := hb.trk.Pending(h, key)

	if skipped := len(impls) - len(pending); skipped > 0 {
		hb.logger.Debug("skipping already-notified observers",
			slog.String("hook", string(h)),
			slog.String("context_key", key.String()),
			slog.Int("skipped", skipped),
		)
	}

	var errs error
	for {
		// Claim pre-marks, same as the engine: re-entrant Notify from
		// inside a callable finds the record set and terminates.
		impl, ok := hb.trk.Claim(h, key)
		if !ok {
			break
		}

		v, cErr := impl.Fn(ctx, payload, st)
		if cErr != nil {
			errs = multierr.Append(errs, &graft.ImplementationError{
				Hook:      string(h),
				Extension: impl.Extension,
				Symbol:    impl.Symbol,
				Err:       cErr,
			})
			continue
		}
		_ = v // observers follow the mutate-in-place contract
	}

	return payload, errs
}

// Active returns the hook currently being notified, or "" outside a
// Notify pass.
func (hb *Hub) Active() hook.Name {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	return hb.active
}
