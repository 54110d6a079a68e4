package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/grocerfront/pkg/docstore"
)

func receive(t *testing.T, sub docstore.Subscription) docstore.Event {
	t.Helper()
	select {
	case ev := <-sub.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an event")
		return docstore.Event{}
	}
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	t.Parallel()

	store := New()
	ctx := context.Background()

	id, err := store.CreateDocument(ctx, "products", map[string]any{"name": "Apples"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sub, err := store.Subscribe(ctx, "products")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Close()

	ev := receive(t, sub)
	if ev.Err != nil {
		t.Fatalf("unexpected event error: %v", ev.Err)
	}
	if len(ev.Docs) != 1 || ev.Docs[0].ID != id {
		t.Fatalf("unexpected snapshot %+v", ev.Docs)
	}
	if ev.Docs[0].Fields["name"] != "Apples" {
		t.Fatalf("unexpected fields %+v", ev.Docs[0].Fields)
	}
}

func TestWriteRedeliversFullSnapshot(t *testing.T) {
	t.Parallel()

	store := New()
	ctx := context.Background()

	sub, err := store.Subscribe(ctx, "products")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Close()

	if got := receive(t, sub); len(got.Docs) != 0 {
		t.Fatalf("expected empty initial snapshot, got %+v", got.Docs)
	}

	first, _ := store.CreateDocument(ctx, "products", map[string]any{"name": "Apples"})
	ev := receive(t, sub)
	if len(ev.Docs) != 1 || ev.Docs[0].ID != first {
		t.Fatalf("unexpected snapshot %+v", ev.Docs)
	}

	second, _ := store.CreateDocument(ctx, "products", map[string]any{"name": "Milk"})
	ev = receive(t, sub)
	if len(ev.Docs) != 2 {
		t.Fatalf("expected full snapshot of 2 docs, got %d", len(ev.Docs))
	}
	// Snapshot order is insertion order.
	if ev.Docs[0].ID != first || ev.Docs[1].ID != second {
		t.Fatalf("unexpected order %s %s", ev.Docs[0].ID, ev.Docs[1].ID)
	}
}

func TestServerTimestampResolved(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := New(WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	_, err := store.CreateDocument(ctx, "orders", map[string]any{
		"timestamp": docstore.ServerTimestamp,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sub, err := store.Subscribe(ctx, "orders")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Close()

	ev := receive(t, sub)
	if got := ev.Docs[0].Fields["timestamp"]; got != fixed.UnixMilli() {
		t.Fatalf("expected resolved millis %d, got %v", fixed.UnixMilli(), got)
	}
}

func TestSnapshotsAreIsolatedCopies(t *testing.T) {
	t.Parallel()

	store := New()
	ctx := context.Background()

	_, _ = store.CreateDocument(ctx, "products", map[string]any{"name": "Apples"})

	sub, err := store.Subscribe(ctx, "products")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Close()

	ev := receive(t, sub)
	ev.Docs[0].Fields["name"] = "mutated"

	sub2, err := store.Subscribe(ctx, "products")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub2.Close()

	if got := receive(t, sub2); got.Docs[0].Fields["name"] != "Apples" {
		t.Fatalf("expected stored fields untouched, got %v", got.Docs[0].Fields["name"])
	}
}

func TestCollectionsAreIndependent(t *testing.T) {
	t.Parallel()

	store := New()
	ctx := context.Background()

	sub, err := store.Subscribe(ctx, "products")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Close()
	_ = receive(t, sub)

	_, _ = store.CreateDocument(ctx, "orders", map[string]any{"status": "Placed"})

	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected delivery for unrelated collection: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}
