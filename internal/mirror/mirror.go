// Package mirror keeps the local cache of one remote collection. Every
// inbound snapshot replaces the whole mirror; there is no incremental
// merge and no hidden diffing state.
package mirror

import (
	"context"

	"github.com/angelmondragon/grocerfront/pkg/docstore"
)

// Status is the render state of a mirror.
type Status string

const (
	// StatusLoading means no snapshot has arrived yet.
	StatusLoading Status = "loading"
	// StatusReady means the mirror holds the latest snapshot.
	StatusReady Status = "ready"
	// StatusFailed means the subscription surfaced an error; contents are
	// stale or empty until the store layer reconnects on its own.
	StatusFailed Status = "failed"
)

// Materializer turns one stored document into a domain entity.
type Materializer[T any] func(docstore.Document) T

// Config wires a mirror.
type Config[T any] struct {
	Name        string
	Materialize Materializer[T]

	// Order imposes a deterministic client-side ordering on each applied
	// snapshot. It must be a stable sort over the snapshot's natural
	// sequence. Nil keeps arrival order.
	Order func([]T)

	// OnApply is the render callback, invoked synchronously after every
	// snapshot application with the full mirror contents.
	OnApply func([]T)

	// OnError is invoked when a subscription error replaces the loading
	// indicator.
	OnError func(error)
}

// Mirror is not safe for concurrent use; callers confine it to one
// goroutine, normally the engine loop.
type Mirror[T any] struct {
	cfg    Config[T]
	items  []T
	status Status
	err    error
}

func New[T any](cfg Config[T]) *Mirror[T] {
	return &Mirror[T]{cfg: cfg, status: StatusLoading}
}

// Apply replaces the mirror contents with a freshly materialized snapshot.
func (m *Mirror[T]) Apply(snap docstore.Snapshot) {
	items := make([]T, 0, len(snap))
	for _, doc := range snap {
		items = append(items, m.cfg.Materialize(doc))
	}
	if m.cfg.Order != nil {
		m.cfg.Order(items)
	}

	m.items = items
	m.status = StatusReady
	m.err = nil

	if m.cfg.OnApply != nil {
		m.cfg.OnApply(m.Items())
	}
}

// Fail marks the mirror failed. Contents keep their last value; a later
// Apply clears the failure.
func (m *Mirror[T]) Fail(err error) {
	m.status = StatusFailed
	m.err = err

	if m.cfg.OnError != nil {
		m.cfg.OnError(err)
	}
}

// Items returns a copy of the mirror contents.
func (m *Mirror[T]) Items() []T {
	return append([]T(nil), m.items...)
}

// Status returns the render state.
func (m *Mirror[T]) Status() Status {
	return m.status
}

// Err returns the surfaced subscription error, if any.
func (m *Mirror[T]) Err() error {
	return m.err
}

// Name identifies the mirror in logs and metrics.
func (m *Mirror[T]) Name() string {
	return m.cfg.Name
}

// Consume pumps subscription events into the mirror until the stream or
// context ends. Events run through dispatch so all mirror state stays on
// the engine's control thread. Errors do not stop consumption: if the
// store layer reconnects and delivers again, the mirror recovers.
func Consume[T any](ctx context.Context, sub docstore.Subscription, dispatch func(func()), m *Mirror[T]) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			if ev.Err != nil {
				err := ev.Err
				dispatch(func() { m.Fail(err) })
				continue
			}
			docs := ev.Docs
			dispatch(func() { m.Apply(docs) })
		}
	}
}
