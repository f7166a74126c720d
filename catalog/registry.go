package catalog

import (
	"sync"

	"github.com/xraph/graft/hook"
)

// Ensure Registry implements SymbolSource at compile time.
var _ SymbolSource = (*Registry)(nil)

type entry struct {
	fn       hook.Callable
	location string
}

// Registry is the stock SymbolSource: an explicit map from
// (extension, symbol) to callable, populated by the host at startup.
// Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewRegistry returns an empty symbol registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a callable under an explicit symbol name for the given
// extension. Re-registering a symbol replaces the previous callable.
func (r *Registry) Register(extension, symbol string, fn hook.Callable) {
	r.RegisterAt(extension, symbol, "", fn)
}

// RegisterAt is Register with an explicit source location recorded for
// diagnostics (e.g. the declaration file the callable belongs to).
func (r *Registry) RegisterAt(extension, symbol, location string, fn hook.Callable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key(extension, symbol)] = entry{fn: fn, location: location}
}

// RegisterHook registers a callable under the conventional symbol for
// the given extension and hook: "<extension>_<suffix>".
func (r *Registry) RegisterHook(extension string, h hook.Name, fn hook.Callable) {
	r.Register(extension, hook.Symbol(extension, h), fn)
}

// Lookup implements SymbolSource.
func (r *Registry) Lookup(extension, symbol string) (hook.Callable, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key(extension, symbol)]
	if !ok {
		return nil, "", false
	}
	return e.fn, e.location, true
}

// key namespaces symbols by extension so two extensions registering
// the same bare symbol name cannot collide.
func key(extension, symbol string) string {
	return extension + "\x00" + symbol
}
