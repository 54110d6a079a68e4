// Package orders models submitted orders, their client-side ordering rule
// and the checkout coordinator that creates them.
package orders

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/grocerfront/pkg/docstore"
)

// Order status and payment method are fixed at submission; this storefront
// only ever creates cash-on-delivery orders in the Placed state.
const (
	StatusPlaced          = "Placed"
	PaymentCashOnDelivery = "Cash on Delivery"
)

// CustomerInfo is captured at checkout time only; it is never persisted in
// the cart.
type CustomerInfo struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

// Item is one order line, copied by value from the cart at submission.
type Item struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Image     string
	Quantity  int
}

// Total is price × quantity for the line.
func (i Item) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is immutable from this side once materialized.
type Order struct {
	ID            string
	Customer      CustomerInfo
	Items         []Item
	Status        string
	PaymentMethod string

	// PlacedAtMillis is the store-assigned ordering token; 0 means the
	// write has not been server-stamped yet.
	PlacedAtMillis int64
}

// Total sums the order's line totals.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Total())
	}
	return total
}

// Materialize builds an Order from a stored document.
func Materialize(doc docstore.Document) Order {
	customer := docstore.Map(doc.Fields, "customer")

	var items []Item
	for _, raw := range docstore.Slice(doc.Fields, "items") {
		fields, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, Item{
			ProductID: docstore.Str(fields, "productId"),
			Name:      docstore.Str(fields, "name"),
			Price:     docstore.Decimal(fields, "price"),
			Image:     docstore.Str(fields, "image"),
			Quantity:  docstore.Int(fields, "quantity"),
		})
	}

	return Order{
		ID: doc.ID,
		Customer: CustomerInfo{
			Name:    docstore.Str(customer, "name"),
			Address: docstore.Str(customer, "address"),
			Phone:   docstore.Str(customer, "phone"),
		},
		Items:          items,
		Status:         docstore.Str(doc.Fields, "status"),
		PaymentMethod:  docstore.Str(doc.Fields, "paymentMethod"),
		PlacedAtMillis: docstore.Millis(doc.Fields, "timestamp"),
	}
}

// SortNewestFirst orders by descending timestamp token. An absent token is
// the minimum value, so unstamped orders sort last. The sort is stable so
// same-timestamp entries keep their snapshot arrival order across
// re-renders.
func SortNewestFirst(items []Order) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PlacedAtMillis > items[j].PlacedAtMillis
	})
}
