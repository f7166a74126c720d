package graft

import (
	"errors"
	"fmt"
)

var (
	// Resolution errors.
	ErrExtensionNotFound = errors.New("graft: extension not found")

	// Dispatch errors.
	ErrInvalidState = errors.New("graft: lifecycle state cannot be canonicalized")

	// Construction errors.
	ErrNoSource  = errors.New("graft: no declaration source configured")
	ErrNoSymbols = errors.New("graft: no symbol source configured")
)

// ImplementationError reports a single hook implementation that failed
// (returned an error or panicked) during a dispatch pass. Failures do
// not abort the pass: remaining implementations still run, and all
// failures are aggregated and returned together after the pass.
type ImplementationError struct {
	Hook      string
	Extension string
	Symbol    string
	Err       error
}

func (e *ImplementationError) Error() string {
	return fmt.Sprintf("graft: implementation %s (hook %s, extension %s): %v",
		e.Symbol, e.Hook, e.Extension, e.Err)
}

// Unwrap returns the underlying implementation error.
func (e *ImplementationError) Unwrap() error { return e.Err }
