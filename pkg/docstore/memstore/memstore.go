// Package memstore is an in-memory docstore.Store with live fan-out. It is
// the default backend in dev and the test double everywhere else.
package memstore

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/angelmondragon/grocerfront/pkg/docstore"
	"github.com/google/uuid"
)

type collectionData struct {
	docs  map[string]map[string]any
	order []string
}

// Store keeps every collection in process memory. Snapshots preserve
// insertion order so repeated deliveries are deterministic.
type Store struct {
	mu       sync.Mutex
	byName   map[string]*collectionData
	notifier *docstore.ChangeNotifier
	now      func() time.Time
}

type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		byName:   map[string]*collectionData{},
		notifier: docstore.NewChangeNotifier(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateDocument assigns a fresh id, resolves server-timestamp placeholders
// and notifies every live subscription on the collection.
func (s *Store) CreateDocument(_ context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()

	stored := maps.Clone(fields)
	if stored == nil {
		stored = map[string]any{}
	}
	for k, v := range stored {
		if docstore.IsServerTimestamp(v) {
			stored[k] = s.now().UnixMilli()
		}
	}

	s.mu.Lock()
	col := s.collection(collection)
	col.docs[id] = stored
	col.order = append(col.order, id)
	s.mu.Unlock()

	s.notifier.Notify(collection)
	return id, nil
}

// Subscribe delivers the current snapshot immediately, then a fresh full
// snapshot after every write to the collection.
func (s *Store) Subscribe(ctx context.Context, collection string) (docstore.Subscription, error) {
	signals, cancel := s.notifier.Listen(collection)

	sub := &subscription{
		events: make(chan docstore.Event, 1),
		done:   make(chan struct{}),
	}

	go func() {
		defer cancel()
		defer close(sub.events)

		sub.deliver(ctx, docstore.Event{Docs: s.snapshot(collection)})
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.done:
				return
			case <-signals:
				sub.deliver(ctx, docstore.Event{Docs: s.snapshot(collection)})
			}
		}
	}()

	return sub, nil
}

func (s *Store) snapshot(collection string) docstore.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collection(collection)
	snap := make(docstore.Snapshot, 0, len(col.order))
	for _, id := range col.order {
		snap = append(snap, docstore.Document{ID: id, Fields: maps.Clone(col.docs[id])})
	}
	return snap
}

// collection must be called with s.mu held.
func (s *Store) collection(name string) *collectionData {
	col, ok := s.byName[name]
	if !ok {
		col = &collectionData{docs: map[string]map[string]any{}}
		s.byName[name] = col
	}
	return col
}

type subscription struct {
	events    chan docstore.Event
	done      chan struct{}
	closeOnce sync.Once
}

func (s *subscription) Events() <-chan docstore.Event {
	return s.events
}

func (s *subscription) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

func (s *subscription) deliver(ctx context.Context, ev docstore.Event) {
	select {
	case s.events <- ev:
	case <-ctx.Done():
	case <-s.done:
	}
}
