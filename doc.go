// Package graft composes a base extension from a tree of included
// extensions and dispatches lifecycle hooks to them with at-most-once
// semantics per lifecycle context.
//
// An extension declares dependencies, dependency removals, and the
// extensions it includes. Graft recursively flattens that tree into a
// deduplicated extension graph, locates the hook implementations each
// extension contributes, and invokes them exactly once per distinct
// lifecycle context — even when the host re-enters the same lifecycle
// phase or an implementation recursively triggers the same hook.
//
// # Quick Start
//
//	src := memory.New()
//	src.Register(&graft.Descriptor{Name: "base", Includes: []string{"childA"}})
//	src.Register(&graft.Descriptor{Name: "childA", Dependencies: []string{"moduleY"}})
//
//	syms := catalog.NewRegistry()
//	syms.RegisterHook("childA", hook.GatherTasks, myTasksCallable)
//
//	eng, err := engine.New("base", src, syms)
//	payload, err := eng.Dispatch(ctx, hook.GatherTasks, state, hook.NewPayload())
//
// # Architecture
//
// Graft is a library, not a service. The host owns the lifecycle phases
// and calls Dispatch at each one. Collaborators are interfaces with
// stock backends: the declaration source (graft.Source, backends under
// source/) and the symbol source (catalog.SymbolSource, stock
// catalog.Registry).
//
// Invocation tracking is in-memory and process-scoped: records never
// persist across restarts, and the extension graph is resolved once per
// engine and cached for the process lifetime.
package graft
