// Package engine wires the graft subsystems together: it resolves the
// extension graph and hook catalog lazily (once per engine, cached for
// the process lifetime), derives context keys, consults the invocation
// tracker, and invokes not-yet-fired implementations in catalog order
// through the middleware chain.
//
// The engine is an explicit instance constructed by the host — there
// is no ambient global. The host calls Dispatch at each of its own
// lifecycle phases; implementations may re-enter Dispatch on the same
// call stack without looping, because records are marked invoked
// before the implementation runs.
package engine
