// Package docstore defines the boundary with the external document store.
//
// The store delivers full-snapshot subscriptions: every change to a
// collection re-delivers the complete collection contents, never a diff.
// Implementations own their reconnection behavior; consumers never retry.
package docstore

import "context"

// Document is one stored entity: the store-assigned identifier plus the
// field payload it was written with.
type Document struct {
	ID     string
	Fields map[string]any
}

// Snapshot is a complete materialization of one collection.
type Snapshot []Document

// Event is one delivery on a subscription stream. Exactly one of Docs or
// Err is meaningful; an Err event does not terminate the stream unless the
// implementation says so.
type Event struct {
	Docs Snapshot
	Err  error
}

// Subscription is a live feed over one collection. The current snapshot is
// delivered immediately on subscribe, then again on every change.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

// Store is the document-store-with-live-subscriptions collaborator.
type Store interface {
	// Subscribe opens a snapshot stream for the collection. Protected
	// collections reject unauthenticated subscribers; callers gate on
	// session establishment.
	Subscribe(ctx context.Context, collection string) (Subscription, error)

	// CreateDocument writes a new document and returns its assigned id.
	CreateDocument(ctx context.Context, collection string, fields map[string]any) (string, error)
}

type serverTimestamp struct{}

// ServerTimestamp is a placeholder field value. Stores resolve it to an
// epoch-millisecond ordering token at write commit time; the client never
// sees the resolved value before the write completes.
var ServerTimestamp any = serverTimestamp{}

// IsServerTimestamp reports whether a field value is the placeholder.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}
