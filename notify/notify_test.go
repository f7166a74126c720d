package notify_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/xraph/graft"
	"github.com/xraph/graft/hook"
	"github.com/xraph/graft/notify"
)

// observer carries callables for a subset of hooks.
type observer struct {
	name      string
	callables map[hook.Name]hook.Callable
}

func (o *observer) Name() string { return o.name }

func (o *observer) Callable(h hook.Name) (hook.Callable, bool) {
	fn, ok := o.callables[h]
	return fn, ok
}

func TestNotify_OnlyMatchingObserversFire(t *testing.T) {
	hub := notify.NewHub(nil)

	var fired []string
	record := func(name string) hook.Callable {
		return func(_ context.Context, _ *hook.Payload, _ hook.State) (any, error) {
			fired = append(fired, name)
			return nil, nil
		}
	}

	hub.Attach(&observer{name: "a", callables: map[hook.Name]hook.Callable{
		hook.GatherTasks: record("a"),
	}})
	hub.Attach(&observer{name: "b", callables: map[hook.Name]hook.Callable{
		hook.AlterForm: record("b"),
	}})
	hub.Attach(&observer{name: "c", callables: map[hook.Name]hook.Callable{
		hook.GatherTasks: record("c"),
	}})

	if _, err := hub.Notify(context.Background(), hook.GatherTasks, hook.State{"n": 1}, nil); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if len(fired) != 2 || fired[0] != "a" || fired[1] != "c" {
		t.Fatalf("fired = %v, want [a c] in attachment order", fired)
	}
}

func TestNotify_AtMostOncePerContext(t *testing.T) {
	hub := notify.NewHub(nil)

	var calls atomic.Int64
	hub.Attach(&observer{name: "a", callables: map[hook.Name]hook.Callable{
		hook.GatherTasks: func(_ context.Context, _ *hook.Payload, _ hook.State) (any, error) {
			calls.Add(1)
			return nil, nil
		},
	}})

	st := hook.State{"phase": "install"}
	for i := 0; i < 3; i++ {
		if _, err := hub.Notify(context.Background(), hook.GatherTasks, st, nil); err != nil {
			t.Fatalf("Notify %d: %v", i, err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("observer fired %d times, want 1", calls.Load())
	}

	// A different hook with the same state is a distinct pair.
	hub.Attach(&observer{name: "b", callables: map[hook.Name]hook.Callable{
		hook.AlterTasks: func(_ context.Context, _ *hook.Payload, _ hook.State) (any, error) {
			calls.Add(1)
			return nil, nil
		},
	}})
	if _, err := hub.Notify(context.Background(), hook.AlterTasks, st, nil); err != nil {
		t.Fatalf("Notify alter: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2 (hook included in the invocation key)", calls.Load())
	}
}

func TestNotify_ReentrantNotificationTerminates(t *testing.T) {
	hub := notify.NewHub(nil)
	st := hook.State{"phase": "install"}

	var calls atomic.Int64
	hub.Attach(&observer{name: "looper", callables: map[hook.Name]hook.Callable{
		hook.GatherTasks: func(ctx context.Context, _ *hook.Payload, _ hook.State) (any, error) {
			if calls.Add(1) > 1 {
				t.Error("observer re-triggered by re-entrant notification")
				return nil, nil
			}
			// Re-notify the same hook+context from inside the callback.
			_, err := hub.Notify(ctx, hook.GatherTasks, st, nil)
			return nil, err
		},
	}})

	if _, err := hub.Notify(context.Background(), hook.GatherTasks, st, nil); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("observer fired %d times, want 1", calls.Load())
	}
}

func TestNotify_ErrorsAggregated(t *testing.T) {
	hub := notify.NewHub(nil)

	errA := errors.New("a failed")
	var bRan atomic.Bool
	hub.Attach(&observer{name: "a", callables: map[hook.Name]hook.Callable{
		hook.SubmitForm: func(_ context.Context, _ *hook.Payload, _ hook.State) (any, error) {
			return nil, errA
		},
	}})
	hub.Attach(&observer{name: "b", callables: map[hook.Name]hook.Callable{
		hook.SubmitForm: func(_ context.Context, _ *hook.Payload, _ hook.State) (any, error) {
			bRan.Store(true)
			return nil, nil
		},
	}})

	_, err := hub.Notify(context.Background(), hook.SubmitForm, hook.State{"v": 1}, nil)
	if !errors.Is(err, errA) {
		t.Fatalf("expected aggregate wrapping errA, got %v", err)
	}
	var implErr *graft.ImplementationError
	if !errors.As(err, &implErr) {
		t.Fatalf("expected *graft.ImplementationError, got %v", err)
	}
	if !bRan.Load() {
		t.Error("failing observer aborted the pass")
	}
}

func TestHub_ActiveOutsidePassIsEmpty(t *testing.T) {
	hub := notify.NewHub(nil)
	if got := hub.Active(); got != "" {
		t.Errorf("Active() = %q outside a pass", got)
	}
}
