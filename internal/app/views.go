package app

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/grocerfront/internal/mirror"
	"github.com/angelmondragon/grocerfront/internal/orders"
)

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// View-models are plain render-ready data: the rendering collaborator is a
// pure sink and must be able to redraw any of these idempotently. Prices
// are fixed to two decimal places; currency symbols belong to the sink.

type ProductView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image"`
}

type CatalogView struct {
	Status   string        `json:"status"`
	Error    string        `json:"error,omitempty"`
	Empty    bool          `json:"empty"`
	Products []ProductView `json:"products"`
}

type CartLineView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Image     string `json:"image"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type CartView struct {
	Empty bool           `json:"empty"`
	Count int            `json:"count"`
	Total string         `json:"total"`
	Lines []CartLineView `json:"lines"`
}

type SummaryLineView struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type OrderSummaryView struct {
	Total string            `json:"total"`
	Lines []SummaryLineView `json:"lines"`
}

type OrderItemView struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type OrderView struct {
	ID              string          `json:"id"`
	CustomerName    string          `json:"customer_name"`
	CustomerAddress string          `json:"customer_address"`
	CustomerPhone   string          `json:"customer_phone"`
	PlacedAt        string          `json:"placed_at"`
	Total           string          `json:"total"`
	Items           []OrderItemView `json:"items"`
}

type OrdersView struct {
	Status string      `json:"status"`
	Error  string      `json:"error,omitempty"`
	Empty  bool        `json:"empty"`
	Orders []OrderView `json:"orders"`
}

type ConfirmationView struct {
	OrderID string `json:"order_id"`
}

// placedAtPending is shown for orders whose server timestamp has not
// resolved yet.
const placedAtPending = "Just now"

// Catalog renders the product list from the catalog mirror.
func (e *Engine) Catalog() CatalogView {
	var view CatalogView
	e.Do(func() { view = e.buildCatalog() })
	return view
}

func (e *Engine) buildCatalog() CatalogView {
	view := CatalogView{Status: string(e.catalogMirror.Status())}
	if err := e.catalogMirror.Err(); err != nil {
		view.Error = "could not load products"
		return view
	}

	items := e.catalogMirror.Items()
	view.Empty = len(items) == 0 && e.catalogMirror.Status() == mirror.StatusReady
	view.Products = make([]ProductView, 0, len(items))
	for _, p := range items {
		view.Products = append(view.Products, ProductView{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price.StringFixed(2),
			Image:       p.Image,
		})
	}
	return view
}

// Cart renders the cart contents plus the badge count.
func (e *Engine) Cart() CartView {
	var view CartView
	e.Do(func() { view = e.buildCart() })
	return view
}

func (e *Engine) buildCart() CartView {
	lines := e.cartStore.Lines()
	view := CartView{
		Empty: len(lines) == 0,
		Count: e.badge.Count,
		Total: e.cartStore.Total().StringFixed(2),
		Lines: make([]CartLineView, 0, len(lines)),
	}
	for _, line := range lines {
		view.Lines = append(view.Lines, CartLineView{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price.StringFixed(2),
			Image:     line.Image,
			Quantity:  line.Quantity,
			LineTotal: line.Price.Mul(decimalFromInt(line.Quantity)).StringFixed(2),
		})
	}
	return view
}

// OrderSummary renders the checkout summary.
func (e *Engine) OrderSummary() OrderSummaryView {
	var view OrderSummaryView
	e.Do(func() {
		lines := e.cartStore.Lines()
		view.Total = e.cartStore.Total().StringFixed(2)
		view.Lines = make([]SummaryLineView, 0, len(lines))
		for _, line := range lines {
			view.Lines = append(view.Lines, SummaryLineView{
				Name:      line.Name,
				Quantity:  line.Quantity,
				LineTotal: line.Price.Mul(decimalFromInt(line.Quantity)).StringFixed(2),
			})
		}
	})
	return view
}

// Orders renders the admin order list from the order mirror, newest first.
func (e *Engine) Orders() OrdersView {
	var view OrdersView
	e.Do(func() { view = e.buildOrders() })
	return view
}

func (e *Engine) buildOrders() OrdersView {
	view := OrdersView{Status: string(e.orderMirror.Status())}
	if err := e.orderMirror.Err(); err != nil {
		view.Error = "could not load orders"
		return view
	}

	items := e.orderMirror.Items()
	view.Empty = len(items) == 0 && e.orderMirror.Status() == mirror.StatusReady
	view.Orders = make([]OrderView, 0, len(items))
	for _, order := range items {
		view.Orders = append(view.Orders, buildOrderView(order))
	}
	return view
}

func buildOrderView(order orders.Order) OrderView {
	view := OrderView{
		ID:              order.ID,
		CustomerName:    order.Customer.Name,
		CustomerAddress: order.Customer.Address,
		CustomerPhone:   order.Customer.Phone,
		PlacedAt:        placedAtPending,
		Total:           order.Total().StringFixed(2),
		Items:           make([]OrderItemView, 0, len(order.Items)),
	}
	if order.PlacedAtMillis > 0 {
		view.PlacedAt = time.UnixMilli(order.PlacedAtMillis).UTC().Format("2006-01-02 15:04:05")
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, OrderItemView{
			Name:      item.Name,
			Quantity:  item.Quantity,
			LineTotal: item.Total().StringFixed(2),
		})
	}
	return view
}

// Confirmation renders the id of the most recently placed order.
func (e *Engine) Confirmation() ConfirmationView {
	var view ConfirmationView
	e.Do(func() { view.OrderID = e.lastOrderID })
	return view
}
