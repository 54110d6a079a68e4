package mirror

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/grocerfront/pkg/docstore"
)

type entry struct {
	ID   string
	Name string
}

func materializeEntry(doc docstore.Document) entry {
	return entry{ID: doc.ID, Name: docstore.Str(doc.Fields, "name")}
}

func TestApplyReplacesContents(t *testing.T) {
	t.Parallel()

	renders := 0
	m := New(Config[entry]{
		Name:        "test",
		Materialize: materializeEntry,
		OnApply:     func([]entry) { renders++ },
	})

	if m.Status() != StatusLoading {
		t.Fatalf("expected loading before first snapshot, got %s", m.Status())
	}

	m.Apply(docstore.Snapshot{
		{ID: "a", Fields: map[string]any{"name": "first"}},
		{ID: "b", Fields: map[string]any{"name": "second"}},
	})
	m.Apply(docstore.Snapshot{
		{ID: "c", Fields: map[string]any{"name": "only"}},
	})

	items := m.Items()
	if len(items) != 1 || items[0].ID != "c" {
		t.Fatalf("expected full replacement, got %+v", items)
	}
	if m.Status() != StatusReady {
		t.Fatalf("expected ready, got %s", m.Status())
	}
	if renders != 2 {
		t.Fatalf("expected render callback per snapshot, got %d", renders)
	}
}

func TestFailSurfacesErrorAndLaterApplyRecovers(t *testing.T) {
	t.Parallel()

	var surfaced error
	m := New(Config[entry]{
		Name:        "test",
		Materialize: materializeEntry,
		OnError:     func(err error) { surfaced = err },
	})

	m.Fail(errors.New("stream broke"))
	if m.Status() != StatusFailed || m.Err() == nil || surfaced == nil {
		t.Fatalf("expected failed state, got status=%s err=%v", m.Status(), m.Err())
	}

	m.Apply(docstore.Snapshot{{ID: "a", Fields: map[string]any{"name": "back"}}})
	if m.Status() != StatusReady || m.Err() != nil {
		t.Fatalf("expected recovery on next snapshot, got status=%s err=%v", m.Status(), m.Err())
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	t.Parallel()

	m := New(Config[entry]{Name: "test", Materialize: materializeEntry})
	m.Apply(docstore.Snapshot{{ID: "a", Fields: map[string]any{"name": "x"}}})

	items := m.Items()
	items[0].Name = "mutated"

	if m.Items()[0].Name != "x" {
		t.Fatal("mirror contents must not alias returned slices")
	}
}

type chanSubscription struct {
	events chan docstore.Event
}

func (s *chanSubscription) Events() <-chan docstore.Event { return s.events }
func (s *chanSubscription) Close() error                  { return nil }

func TestConsumeAppliesEventsInReceiptOrder(t *testing.T) {
	t.Parallel()

	m := New(Config[entry]{Name: "test", Materialize: materializeEntry})
	sub := &chanSubscription{events: make(chan docstore.Event, 3)}

	sub.events <- docstore.Event{Docs: docstore.Snapshot{{ID: "a"}}}
	sub.events <- docstore.Event{Err: errors.New("hiccup")}
	sub.events <- docstore.Event{Docs: docstore.Snapshot{{ID: "b"}, {ID: "c"}}}
	close(sub.events)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// dispatch runs inline: receipt order is application order.
		Consume(context.Background(), sub, func(fn func()) { fn() }, m)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consume did not finish")
	}

	items := m.Items()
	if len(items) != 2 || items[0].ID != "b" || items[1].ID != "c" {
		t.Fatalf("expected last snapshot to win, got %+v", items)
	}
	if m.Status() != StatusReady {
		t.Fatalf("expected ready after recovery, got %s", m.Status())
	}
}
