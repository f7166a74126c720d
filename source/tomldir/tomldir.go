// Package tomldir provides a declaration source backed by a directory
// of TOML files, one per extension: "<id>.toml".
//
// Declaration format:
//
//	name = "childA"
//	dependencies = ["moduleY"]
//	remove_dependencies = ["moduleX"]
//	includes = []
//
// The name key is optional and defaults to the file's base name; a
// mismatching name is a declaration error.
package tomldir

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/xraph/graft"
)

// Ensure Source implements graft.Source at compile time.
var _ graft.Source = (*Source)(nil)

// declaration is the on-disk TOML shape.
type declaration struct {
	Name               string   `toml:"name"`
	Dependencies       []string `toml:"dependencies"`
	RemoveDependencies []string `toml:"remove_dependencies"`
	Includes           []string `toml:"includes"`
}

// Source loads extension declarations from a directory.
type Source struct {
	dir string
}

// New returns a Source reading declarations from dir.
func New(dir string) *Source {
	return &Source{dir: dir}
}

// path returns the declaration file path for id.
func (s *Source) path(id string) string {
	return filepath.Join(s.dir, id+".toml")
}

// Exists implements graft.Source.
func (s *Source) Exists(_ context.Context, id string) bool {
	_, err := os.Stat(s.path(id))
	return err == nil
}

// Load implements graft.Source.
func (s *Source) Load(_ context.Context, id string) (*graft.Descriptor, error) {
	path := s.path(id)

	var decl declaration
	if _, err := toml.DecodeFile(path, &decl); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", graft.ErrExtensionNotFound, id)
		}
		return nil, fmt.Errorf("parse declaration %s: %w", path, err)
	}

	if decl.Name == "" {
		decl.Name = id
	}
	if decl.Name != id {
		return nil, fmt.Errorf("declaration %s: name %q does not match extension id %q", path, decl.Name, id)
	}

	return &graft.Descriptor{
		Name:               decl.Name,
		Path:               path,
		Dependencies:       decl.Dependencies,
		RemoveDependencies: decl.RemoveDependencies,
		Includes:           decl.Includes,
	}, nil
}
