// Package graph resolves the extension graph: starting from a root
// extension it recursively discovers included extensions and merges
// their dependency declarations into one flattened, deduplicated set.
package graph

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/xraph/graft"
)

// Graph is the flattened extension graph rooted at one extension.
// It is built once per root and shared read-only afterwards;
// resolution is deterministic for identical declarations.
type Graph struct {
	// Root is the identifier resolution started from.
	Root string

	// Extensions lists every transitively included extension in
	// preorder traversal order (root first), each exactly once. This
	// order is the catalog order for hook implementations.
	Extensions []string

	// Descriptors holds the loaded declaration for each extension.
	Descriptors map[string]*graft.Descriptor

	// Dependencies is the merged dependency set across the whole graph
	// with all removals applied. No identifier appears in both
	// Dependencies and Removals: removal always wins, regardless of
	// which extension contributed which side.
	Dependencies mapset.Set[string]

	// Removals is the merged removal set across the whole graph.
	Removals mapset.Set[string]
}

// Resolve builds the extension graph rooted at rootID. A missing root
// or included extension is fatal and returns an error wrapping
// graft.ErrExtensionNotFound.
//
// Mutually including extensions are legal: each extension is visited
// at most once and cycles flatten silently rather than erroring or
// looping.
func Resolve(ctx context.Context, src graft.Source, rootID string) (*Graph, error) {
	if src == nil {
		return nil, graft.ErrNoSource
	}

	g := &Graph{
		Root:         rootID,
		Descriptors:  make(map[string]*graft.Descriptor),
		Dependencies: mapset.NewSet[string](),
		Removals:     mapset.NewSet[string](),
	}

	if err := g.visit(ctx, src, rootID); err != nil {
		return nil, err
	}

	// Removals apply once, after the whole graph is merged, so a
	// removal declared deep in the graph suppresses a dependency
	// declared anywhere else.
	g.Dependencies = g.Dependencies.Difference(g.Removals)

	return g, nil
}

// visit loads id, records it in preorder, merges its declarations, and
// descends into its includes. Already-visited extensions are skipped,
// which both deduplicates diamond includes and terminates cycles.
func (g *Graph) visit(ctx context.Context, src graft.Source, id string) error {
	if _, seen := g.Descriptors[id]; seen {
		return nil
	}

	if !src.Exists(ctx, id) {
		return fmt.Errorf("%w: %q", graft.ErrExtensionNotFound, id)
	}
	d, err := src.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("load extension %q: %w", id, err)
	}

	g.Descriptors[id] = d
	g.Extensions = append(g.Extensions, id)
	g.Dependencies.Append(d.Dependencies...)
	g.Removals.Append(d.RemoveDependencies...)

	for _, inc := range d.Includes {
		if err := g.visit(ctx, src, inc); err != nil {
			return err
		}
	}
	return nil
}

// Contains reports whether id is part of the resolved extension set.
func (g *Graph) Contains(id string) bool {
	_, ok := g.Descriptors[id]
	return ok
}

// Descriptor returns the declaration for id, or nil if id is not in
// the graph.
func (g *Graph) Descriptor(id string) *graft.Descriptor {
	return g.Descriptors[id]
}
