// Package source documents the declaration-source backends.
//
// A graft.Source locates and parses extension declarations. Two stock
// backends are provided:
//
//   - source/memory: host-registered descriptors, for tests and
//     embedding hosts that assemble declarations programmatically.
//   - source/tomldir: a directory holding one TOML declaration file
//     per extension.
//
// Hosts with other declaration formats implement graft.Source directly.
package source
