// Package catalog models the product feed and the admin write path that
// adds to it. Products are created by admin writes and never mutated from
// this side.
package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/grocerfront/internal/cart"
	"github.com/angelmondragon/grocerfront/pkg/docstore"
)

// Product is one catalog entry as materialized from a snapshot.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
}

// Materialize builds a Product from a stored document, merging the
// store-assigned key with the field payload.
func Materialize(doc docstore.Document) Product {
	return Product{
		ID:          doc.ID,
		Name:        docstore.Str(doc.Fields, "name"),
		Description: docstore.Str(doc.Fields, "description"),
		Price:       docstore.Decimal(doc.Fields, "price"),
		Image:       docstore.Str(doc.Fields, "image"),
	}
}

// LookupIn builds a cart.ProductLookup over a snapshot accessor, so the
// cart always resolves against the latest applied snapshot.
func LookupIn(latest func() []Product) cart.ProductLookup {
	return func(productID string) (cart.ProductInfo, bool) {
		for _, p := range latest() {
			if p.ID == productID {
				return cart.ProductInfo{Name: p.Name, Price: p.Price, Image: p.Image}, true
			}
		}
		return cart.ProductInfo{}, false
	}
}
