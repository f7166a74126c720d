package graft

import "github.com/xraph/graft/hook"

// Config holds configuration for a dispatch engine.
type Config struct {
	// Hooks is the set of lifecycle hooks the host recognizes. The
	// catalog is built for exactly these hooks; dispatching a hook
	// outside this set finds no implementations and is a no-op.
	Hooks []hook.Name
}

// DefaultConfig returns a Config covering the standard hook vocabulary.
func DefaultConfig() Config {
	return Config{
		Hooks: hook.Standard(),
	}
}
