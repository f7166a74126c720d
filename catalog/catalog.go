// Package catalog locates, per supported hook, which extensions in a
// resolved graph implement it and in what order.
//
// Discovery follows the symbol naming convention: an extension
// contributes to a hook by exposing a callable under the symbol
// "<extension>_<hook suffix>". The catalog probes the symbol source for
// that name once, at build time, and dispatch iterates the resulting
// registry — there is no call-time name probing.
package catalog

import (
	"github.com/xraph/graft/graph"
	"github.com/xraph/graft/hook"
)

// SymbolSource is the code-unit loader collaborator: it reports whether
// a symbol exists within an extension's code unit and, if so, returns
// the callable plus the location it was defined at.
//
// Go has no runtime symbol probing, so the stock implementation is
// Registry, which hosts populate with callables under the conventional
// names.
type SymbolSource interface {
	Lookup(extension, symbol string) (fn hook.Callable, location string, ok bool)
}

// Catalog maps each supported hook to the ordered implementations found
// across the extension graph. It is static for the process once built.
type Catalog struct {
	impls map[hook.Name][]hook.Implementation
}

// Build scans every extension in g (in graph traversal order) for each
// supported hook's conventional symbol. Absence of an implementation is
// never an error; extensions opt in to only the hooks they care about.
func Build(g *graph.Graph, hooks []hook.Name, syms SymbolSource) *Catalog {
	c := &Catalog{impls: make(map[hook.Name][]hook.Implementation, len(hooks))}

	for _, h := range hooks {
		for _, ext := range g.Extensions {
			symbol := hook.Symbol(ext, h)
			fn, loc, ok := syms.Lookup(ext, symbol)
			if !ok {
				continue
			}
			c.impls[h] = append(c.impls[h], hook.Implementation{
				Hook:      h,
				Extension: ext,
				Symbol:    symbol,
				Location:  loc,
				Fn:        fn,
			})
		}
	}

	return c
}

// ImplementationsFor returns the ordered implementations for h. Unknown
// or unimplemented hooks return an empty slice, never an error.
func (c *Catalog) ImplementationsFor(h hook.Name) []hook.Implementation {
	return c.impls[h]
}

// Hooks returns the hooks that have at least one implementation.
func (c *Catalog) Hooks() []hook.Name {
	names := make([]hook.Name, 0, len(c.impls))
	for h := range c.impls {
		names = append(names, h)
	}
	return names
}
