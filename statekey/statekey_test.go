package statekey_test

import (
	"errors"
	"testing"

	"github.com/xraph/graft"
	"github.com/xraph/graft/hook"
	"github.com/xraph/graft/statekey"
)

func TestOf_EmptyStateYieldsNoContext(t *testing.T) {
	for _, st := range []hook.State{nil, {}} {
		key, err := statekey.Of(st)
		if err != nil {
			t.Fatalf("Of(%v): %v", st, err)
		}
		if key != statekey.NoContext {
			t.Errorf("Of(%v) = %v, want NoContext", st, key)
		}
	}
}

func TestOf_StructurallyEqualStatesMatch(t *testing.T) {
	// Same keys and values, built in different insertion order.
	a := hook.State{}
	a["alpha"] = 1
	a["beta"] = "two"
	a["nested"] = map[string]any{"x": true, "y": []any{"p", "q"}}

	b := hook.State{}
	b["nested"] = map[string]any{"y": []any{"p", "q"}, "x": true}
	b["beta"] = "two"
	b["alpha"] = 1

	ka, err := statekey.Of(a)
	if err != nil {
		t.Fatalf("Of(a): %v", err)
	}
	kb, err := statekey.Of(b)
	if err != nil {
		t.Fatalf("Of(b): %v", err)
	}
	if ka != kb {
		t.Errorf("keys differ for structurally equal states: %v vs %v", ka, kb)
	}
}

func TestOf_LeafDifferenceChangesKey(t *testing.T) {
	base := hook.State{"step": "configure", "weight": 10}
	variants := []hook.State{
		{"step": "configure", "weight": 11},
		{"step": "verify", "weight": 10},
		{"step": "configure"},
		{"step": "configure", "weight": 10, "extra": nil},
	}

	kbase, err := statekey.Of(base)
	if err != nil {
		t.Fatalf("Of(base): %v", err)
	}
	for _, v := range variants {
		kv, err := statekey.Of(v)
		if err != nil {
			t.Fatalf("Of(%v): %v", v, err)
		}
		if kv == kbase {
			t.Errorf("variant %v collides with base key", v)
		}
	}
}

func TestOf_TypeTaggedEncoding(t *testing.T) {
	// The same rendered text in different types must not collide.
	ka, err := statekey.Of(hook.State{"v": "1"})
	if err != nil {
		t.Fatalf("Of: %v", err)
	}
	kb, err := statekey.Of(hook.State{"v": 1})
	if err != nil {
		t.Fatalf("Of: %v", err)
	}
	if ka == kb {
		t.Error(`keys collide for "1" (string) vs 1 (int)`)
	}
}

func TestOf_Stable(t *testing.T) {
	st := hook.State{"form": hook.Form{"site_name": "example", "mail": "a@b.c"}}
	first, err := statekey.Of(st)
	if err != nil {
		t.Fatalf("Of: %v", err)
	}
	for i := 0; i < 50; i++ {
		k, err := statekey.Of(st)
		if err != nil {
			t.Fatalf("Of (iteration %d): %v", i, err)
		}
		if k != first {
			t.Fatalf("key unstable at iteration %d: %v vs %v", i, k, first)
		}
	}
}

func TestOf_UnsupportedTypeFailsFast(t *testing.T) {
	type opaque struct{ n int }
	_, err := statekey.Of(hook.State{"bad": opaque{n: 1}})
	if !errors.Is(err, graft.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	_, err = statekey.Of(hook.State{"fn": func() {}})
	if !errors.Is(err, graft.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for func value, got %v", err)
	}
}

func TestKey_String(t *testing.T) {
	k, err := statekey.Of(hook.State{"a": 1})
	if err != nil {
		t.Fatalf("Of: %v", err)
	}
	if got := k.String(); len(got) != 32 {
		t.Errorf("String() = %q, want 32 hex digits", got)
	}
	if statekey.NoContext.String() != "00000000000000000000000000000000" {
		t.Errorf("NoContext.String() = %q", statekey.NoContext.String())
	}
}
