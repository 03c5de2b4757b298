// Package store provides the document-store abstraction the persistence
// layer is written against: schema-less property-bag documents addressed by
// (kind, key), with put/query/delete semantics. The concrete client in this
// package is backed by SQLite through GORM; documents travel as JSON.
package store

import "fmt"

// Document is an opaque bag of named properties representing one entity
// instance in the store. Values are plain strings, bools, and string
// collections; nested structure is not supported.
type Document map[string]any

// KeyedDocument pairs a document with the key it is stored under.
type KeyedDocument struct {
	Key string
	Doc Document
}

// String returns the named property as a string. Absent or mistyped
// properties are errors: load paths treat them as malformed documents.
func (d Document) String(name string) (string, error) {
	v, ok := d[name]
	if !ok {
		return "", fmt.Errorf("property %q missing", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("property %q is %T, want string", name, v)
	}
	return s, nil
}

// OptionalString returns the named property and whether it was present.
// A present-but-mistyped property reads as absent.
func (d Document) OptionalString(name string) (string, bool) {
	v, ok := d[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Bool returns the named property as a bool.
func (d Document) Bool(name string) (bool, error) {
	v, ok := d[name]
	if !ok {
		return false, fmt.Errorf("property %q missing", name)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("property %q is %T, want bool", name, v)
	}
	return b, nil
}

// StringList returns the named property as a string collection. Documents
// decoded from JSON carry lists as []any, so both shapes are accepted.
func (d Document) StringList(name string) ([]string, error) {
	v, ok := d[name]
	if !ok {
		return nil, fmt.Errorf("property %q missing", name)
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("property %q element %d is %T, want string", name, i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("property %q is %T, want string list", name, v)
	}
}
