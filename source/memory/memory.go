// Package memory provides a fully in-memory declaration source.
// Safe for concurrent access. Intended for unit testing and embedding
// hosts that build descriptors programmatically.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/xraph/graft"
)

// Ensure Source implements graft.Source at compile time.
var _ graft.Source = (*Source)(nil)

// Source is an in-memory graft.Source.
type Source struct {
	mu          sync.RWMutex
	descriptors map[string]*graft.Descriptor
}

// New returns a new empty Source.
func New() *Source {
	return &Source{descriptors: make(map[string]*graft.Descriptor)}
}

// Register adds a descriptor, keyed by its Name. Re-registering a name
// replaces the previous descriptor.
func (s *Source) Register(d *graft.Descriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.descriptors[d.Name] = d
}

// Exists implements graft.Source.
func (s *Source) Exists(_ context.Context, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.descriptors[id]
	return ok
}

// Load implements graft.Source. Descriptors are returned by copy so
// callers cannot mutate registered declarations.
func (s *Source) Load(_ context.Context, id string) (*graft.Descriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.descriptors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", graft.ErrExtensionNotFound, id)
	}
	cp := *d
	cp.Dependencies = append([]string(nil), d.Dependencies...)
	cp.RemoveDependencies = append([]string(nil), d.RemoveDependencies...)
	cp.Includes = append([]string(nil), d.Includes...)
	return &cp, nil
}
