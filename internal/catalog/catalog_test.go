package catalog

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/grocerfront/pkg/docstore"
)

func TestMaterializeProduct(t *testing.T) {
	t.Parallel()

	doc := docstore.Document{
		ID: "p1",
		Fields: map[string]any{
			"name":        "Apples",
			"price":       "3.50",
			"image":       "https://img.example/apples.png",
			"description": "Crisp and sweet",
		},
	}

	p := Materialize(doc)

	if p.ID != "p1" || p.Name != "Apples" {
		t.Fatalf("unexpected product %+v", p)
	}
	if !p.Price.Equal(decimal.RequireFromString("3.50")) {
		t.Fatalf("unexpected price %s", p.Price)
	}
	if p.Image != "https://img.example/apples.png" || p.Description != "Crisp and sweet" {
		t.Fatalf("unexpected product %+v", p)
	}
}

func TestMaterializeProductNumericPrice(t *testing.T) {
	t.Parallel()

	p := Materialize(docstore.Document{ID: "p2", Fields: map[string]any{"price": 2.5}})
	if !p.Price.Equal(decimal.NewFromFloat(2.5)) {
		t.Fatalf("unexpected price %s", p.Price)
	}
}

func TestLookupInResolvesAgainstLatestSnapshot(t *testing.T) {
	t.Parallel()

	snapshot := []Product{
		{ID: "p1", Name: "Apples", Price: decimal.RequireFromString("3.00")},
	}
	lookup := LookupIn(func() []Product { return snapshot })

	info, ok := lookup("p1")
	if !ok || info.Name != "Apples" {
		t.Fatalf("expected to resolve p1, got %v %+v", ok, info)
	}
	if _, ok := lookup("missing"); ok {
		t.Fatal("expected missing id to not resolve")
	}

	// A later snapshot is visible through the same lookup.
	snapshot = []Product{
		{ID: "p2", Name: "Milk", Price: decimal.RequireFromString("5.00")},
	}
	if _, ok := lookup("p1"); ok {
		t.Fatal("expected p1 gone after snapshot replacement")
	}
	if info, ok := lookup("p2"); !ok || info.Name != "Milk" {
		t.Fatalf("expected to resolve p2, got %v %+v", ok, info)
	}
}
