package graft

import "context"

// Descriptor is the parsed declaration of a single extension.
// It is immutable once loaded from its declaration source.
type Descriptor struct {
	// Name is the unique extension identifier.
	Name string

	// Path is the filesystem location the declaration was loaded from.
	// Empty for in-memory sources.
	Path string

	// Dependencies are the declared dependency identifiers, in
	// declaration order. Duplicates are allowed here; deduplication
	// happens during graph resolution.
	Dependencies []string

	// RemoveDependencies are dependency identifiers this extension
	// suppresses. A removal declared anywhere in the graph wins over a
	// dependency declared anywhere else in the graph.
	RemoveDependencies []string

	// Includes are the identifiers of extensions this one includes.
	Includes []string
}

// Source locates and loads extension declarations. Implementations
// live under source/ (memory, tomldir); hosts may provide their own.
type Source interface {
	// Exists reports whether a declaration for id can be located.
	Exists(ctx context.Context, id string) bool

	// Load parses and returns the declaration for id.
	// Returns an error wrapping ErrExtensionNotFound if absent.
	Load(ctx context.Context, id string) (*Descriptor, error)
}
