// Package repo implements the persistence layer: the bidirectional mapping
// between domain entities and store documents, and the write-through facade
// over the document store client. This file defines the load-error type all
// bulk load paths surface.
package repo

import "fmt"

// LoadError wraps any failure during a bulk load: store unreachable,
// malformed document, unparsable field. Load paths are atomic, so one
// LoadError means no partial data was returned.
type LoadError struct {
	// Kind is the store kind whose load failed.
	Kind string
	// Err is the underlying cause.
	Err error
}

// Error returns the kind-qualified failure description.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Kind, e.Err)
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *LoadError) Unwrap() error { return e.Err }
