package orders

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/angelmondragon/grocerfront/internal/cart"
	"github.com/angelmondragon/grocerfront/pkg/docstore"
	pkgerrors "github.com/angelmondragon/grocerfront/pkg/errors"
	"github.com/angelmondragon/grocerfront/pkg/logger"
)

// CartAccess is the slice of the cart store the coordinator needs.
type CartAccess interface {
	Empty() bool
	Lines() []cart.Line
	Clear()
}

// Coordinator owns order submission. Reads and mutations of shared state
// go through run, the engine's control-thread executor; the only thing
// that happens off that thread is the awaited store write itself. That
// split is what keeps "snapshot at submission time" race-free without a
// lock: the items sequence is copied before the write and later cart
// mutations cannot touch it.
type Coordinator struct {
	store      docstore.Store
	collection string
	cart       CartAccess
	validate   *validator.Validate
	logg       *logger.Logger

	// run executes a function on the engine's control thread and returns
	// after it completes.
	run func(func())

	// onPlaced fires on the control thread after a successful submission,
	// with the store-assigned order id. Confirmation navigation and form
	// reset live there.
	onPlaced func(orderID string)
}

type CoordinatorParams struct {
	Store      docstore.Store
	Collection string
	Cart       CartAccess
	Run        func(func())
	OnPlaced   func(orderID string)
	Logger     *logger.Logger
}

func NewCoordinator(p CoordinatorParams) (*Coordinator, error) {
	if p.Store == nil {
		return nil, fmt.Errorf("document store required")
	}
	if p.Collection == "" {
		return nil, fmt.Errorf("orders collection required")
	}
	if p.Cart == nil {
		return nil, fmt.Errorf("cart access required")
	}
	run := p.Run
	if run == nil {
		run = func(fn func()) { fn() }
	}
	return &Coordinator{
		store:      p.Store,
		collection: p.Collection,
		cart:       p.Cart,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logg:       p.Logger,
		run:        run,
		onPlaced:   p.OnPlaced,
	}, nil
}

// PlaceOrder submits the current cart as an order. On failure the cart and
// form are left untouched and the caller surfaces a dismissable alert; the
// user retries manually.
func (c *Coordinator) PlaceOrder(ctx context.Context, info CustomerInfo) (string, error) {
	var items []Item
	var precheckErr error

	c.run(func() {
		if c.cart.Empty() {
			precheckErr = pkgerrors.New(pkgerrors.CodeValidation, "your cart is empty")
			return
		}
		if err := c.validate.Struct(info); err != nil {
			precheckErr = pkgerrors.Wrap(pkgerrors.CodeValidation, err, "incomplete customer info")
			return
		}
		items = snapshotItems(c.cart.Lines())
	})
	if precheckErr != nil {
		return "", precheckErr
	}

	fields := encodeOrder(info, items)
	id, err := c.store.CreateDocument(ctx, c.collection, fields)
	if err != nil {
		if c.logg != nil {
			c.logg.Error(ctx, "order.submit_failed", err)
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "could not place order")
	}

	c.run(func() {
		c.cart.Clear()
		if c.onPlaced != nil {
			c.onPlaced(id)
		}
	})

	if c.logg != nil {
		c.logg.Info(c.logg.WithField(ctx, "order_id", id), "order.placed")
	}
	return id, nil
}

func snapshotItems(lines []cart.Line) []Item {
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, Item{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Image:     line.Image,
			Quantity:  line.Quantity,
		})
	}
	return items
}

func encodeOrder(info CustomerInfo, items []Item) map[string]any {
	encoded := make([]any, 0, len(items))
	for _, item := range items {
		encoded = append(encoded, map[string]any{
			"productId": item.ProductID,
			"name":      item.Name,
			"price":     item.Price.String(),
			"image":     item.Image,
			"quantity":  item.Quantity,
		})
	}
	return map[string]any{
		"customer": map[string]any{
			"name":    info.Name,
			"address": info.Address,
			"phone":   info.Phone,
		},
		"items":         encoded,
		"status":        StatusPlaced,
		"paymentMethod": PaymentCashOnDelivery,
		"timestamp":     docstore.ServerTimestamp,
	}
}
