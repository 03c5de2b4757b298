package store

import "context"

// Sort requests an ordering over a string property of the queried kind.
// Properties used for sorting must serialize in an order-preserving form
// (creation timestamps do, as RFC 3339 UTC strings).
type Sort struct {
	Field      string
	Descending bool
}

// Ascending is a convenience constructor for the common case.
func Ascending(field string) *Sort {
	return &Sort{Field: field}
}

// Client is the remote document-store handle the persistence layer depends
// on. Implementations must be safe for concurrent use; racing Puts to the
// same (kind, key) resolve last-writer-wins. The client performs no retries
// and no transactions of its own.
type Client interface {
	// Put upserts the document under (kind, key): overwrite if present,
	// insert if absent.
	Put(ctx context.Context, kind, key string, doc Document) error

	// Query returns every document of the kind. A nil sort means no
	// particular order.
	Query(ctx context.Context, kind string, sort *Sort) ([]KeyedDocument, error)

	// Delete removes the single document under (kind, key). Deleting an
	// absent key is not an error.
	Delete(ctx context.Context, kind, key string) error
}
