// Package app owns the whole of the storefront's client-side state: cart,
// navigator, session gate and both remote mirrors live on one explicit
// application-state object instead of free-standing globals. All shared
// mutable state is touched only from the engine's single control thread;
// the subscribe-once latch and the snapshot-at-submission copy stand in
// for locks by removing the race windows instead of guarding them.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/angelmondragon/grocerfront/internal/cart"
	"github.com/angelmondragon/grocerfront/internal/catalog"
	"github.com/angelmondragon/grocerfront/internal/mirror"
	"github.com/angelmondragon/grocerfront/internal/nav"
	"github.com/angelmondragon/grocerfront/internal/orders"
	"github.com/angelmondragon/grocerfront/internal/session"
	"github.com/angelmondragon/grocerfront/pkg/docstore"
	pkgerrors "github.com/angelmondragon/grocerfront/pkg/errors"
	"github.com/angelmondragon/grocerfront/pkg/identity"
	"github.com/angelmondragon/grocerfront/pkg/logger"
	"github.com/angelmondragon/grocerfront/pkg/metrics"
)

const (
	mirrorCatalog = "catalog"
	mirrorOrders  = "orders"
)

type Params struct {
	Store    docstore.Store
	Provider identity.Provider
	Logger   *logger.Logger
	Metrics  *metrics.EngineMetrics

	ProductsCollection string
	OrdersCollection   string

	// IdentityToken is the optional custom sign-in token; empty means
	// anonymous sign-in.
	IdentityToken string
}

type Engine struct {
	params Params

	tasks    chan func()
	loopDone chan struct{}
	cancel   context.CancelFunc
	ctx      context.Context
	startMu  sync.Mutex
	started  bool

	// State below is owned by the control thread once Start returns.
	cartStore     *cart.Store
	navigator     *nav.Navigator
	catalogMirror *mirror.Mirror[catalog.Product]
	orderMirror   *mirror.Mirror[orders.Order]
	coordinator   *orders.Coordinator
	catalogSvc    *catalog.Service
	gate          *session.Gate

	lastOrderID string
	badge       cart.Summary

	subsMu sync.Mutex
	subs   []docstore.Subscription
}

func New(p Params) (*Engine, error) {
	if p.Store == nil {
		return nil, fmt.Errorf("document store required")
	}
	if p.Provider == nil {
		return nil, fmt.Errorf("identity provider required")
	}
	if p.ProductsCollection == "" || p.OrdersCollection == "" {
		return nil, fmt.Errorf("collection paths required")
	}

	e := &Engine{
		params:   p,
		tasks:    make(chan func(), 64),
		loopDone: make(chan struct{}),
	}
	// The engine context exists from construction so Dispatch and Do are
	// usable before Start; queued tasks run once the loop comes up.
	e.ctx, e.cancel = context.WithCancel(context.Background())

	e.catalogMirror = mirror.New(mirror.Config[catalog.Product]{
		Name:        mirrorCatalog,
		Materialize: catalog.Materialize,
		OnApply:     func([]catalog.Product) { p.Metrics.IncSnapshot(mirrorCatalog) },
		OnError:     func(error) { p.Metrics.IncMirrorError(mirrorCatalog) },
	})
	e.orderMirror = mirror.New(mirror.Config[orders.Order]{
		Name:        mirrorOrders,
		Materialize: orders.Materialize,
		Order:       orders.SortNewestFirst,
		OnApply:     func([]orders.Order) { p.Metrics.IncSnapshot(mirrorOrders) },
		OnError:     func(error) { p.Metrics.IncMirrorError(mirrorOrders) },
	})

	e.cartStore = cart.New(
		catalog.LookupIn(e.catalogMirror.Items),
		func(summary cart.Summary) { e.badge = summary },
	)

	e.navigator = nav.New(func(view nav.View) {
		if p.Logger != nil {
			p.Logger.Debug(p.Logger.WithView(context.Background(), view.String()), "view.switched")
		}
	})
	e.navigator.Guard(nav.ViewCheckout, func() nav.View {
		// Reaching checkout with nothing to order redirects back to the
		// catalog before the summary renders.
		if e.cartStore.Empty() {
			return nav.ViewCatalog
		}
		return nav.ViewCheckout
	})

	catalogSvc, err := catalog.NewService(p.Store, p.ProductsCollection, p.Logger)
	if err != nil {
		return nil, err
	}
	e.catalogSvc = catalogSvc

	coordinator, err := orders.NewCoordinator(orders.CoordinatorParams{
		Store:      p.Store,
		Collection: p.OrdersCollection,
		Cart:       e.cartStore,
		Run:        e.Do,
		OnPlaced:   e.handlePlaced,
		Logger:     p.Logger,
	})
	if err != nil {
		return nil, err
	}
	e.coordinator = coordinator

	e.gate = session.New(p.Provider, e.handleSessionReady, e.handleSessionFatal)

	return e, nil
}

// Start launches the control loop and kicks off session establishment.
// Establishment may suspend on the identity collaborator, so it runs off
// the control thread; its outcome arrives through the gate callbacks.
func (e *Engine) Start(ctx context.Context) {
	e.startMu.Lock()
	defer e.startMu.Unlock()
	if e.started {
		return
	}
	e.started = true

	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				e.cancel()
			case <-e.ctx.Done():
			}
		}()
	}

	go e.loop()
	go e.gate.Start(e.ctx, e.params.IdentityToken)
}

// Stop tears down the loop and every live subscription.
func (e *Engine) Stop() {
	e.startMu.Lock()
	started := e.started
	e.startMu.Unlock()
	if !started {
		return
	}

	e.cancel()
	<-e.loopDone

	e.subsMu.Lock()
	subs := e.subs
	e.subs = nil
	e.subsMu.Unlock()
	for _, sub := range subs {
		_ = sub.Close()
	}
}

func (e *Engine) loop() {
	defer close(e.loopDone)
	for {
		select {
		case <-e.ctx.Done():
			return
		case task := <-e.tasks:
			task()
		}
	}
}

// Dispatch queues work onto the control thread.
func (e *Engine) Dispatch(fn func()) {
	select {
	case e.tasks <- fn:
	case <-e.ctx.Done():
	}
}

// Do runs fn on the control thread and returns once it has completed.
func (e *Engine) Do(fn func()) {
	done := make(chan struct{})
	e.Dispatch(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
	case <-e.ctx.Done():
	}
}

// handleSessionReady is the one-shot unlock: it opens both subscriptions.
// The gate's latch guarantees it runs at most once per page lifetime no
// matter how often the identity callback fires.
func (e *Engine) handleSessionReady(id identity.Identity) {
	ctx := e.ctx
	if e.params.Logger != nil {
		e.params.Logger.Info(e.params.Logger.WithUserID(ctx, id.UID), "session.established")
	}

	e.subscribeMirror(ctx, e.params.ProductsCollection, func(sub docstore.Subscription) {
		go mirror.Consume(ctx, sub, e.Dispatch, e.catalogMirror)
	}, func(err error) {
		e.Dispatch(func() { e.catalogMirror.Fail(err) })
	})

	e.subscribeMirror(ctx, e.params.OrdersCollection, func(sub docstore.Subscription) {
		go mirror.Consume(ctx, sub, e.Dispatch, e.orderMirror)
	}, func(err error) {
		e.Dispatch(func() { e.orderMirror.Fail(err) })
	})
}

func (e *Engine) subscribeMirror(ctx context.Context, collection string, attach func(docstore.Subscription), fail func(error)) {
	sub, err := e.params.Store.Subscribe(ctx, collection)
	if err != nil {
		if e.params.Logger != nil {
			e.params.Logger.Error(e.params.Logger.WithCollection(ctx, collection), "subscription.failed", err)
		}
		fail(pkgerrors.Wrap(pkgerrors.CodeSubscription, err, "could not subscribe"))
		return
	}

	e.subsMu.Lock()
	e.subs = append(e.subs, sub)
	e.subsMu.Unlock()

	attach(sub)
}

func (e *Engine) handleSessionFatal(err error) {
	if e.params.Logger != nil {
		e.params.Logger.Error(e.ctx, "session.fatal", err)
	}
}

// handlePlaced runs on the control thread after a successful submission.
func (e *Engine) handlePlaced(orderID string) {
	e.lastOrderID = orderID
	e.navigator.SwitchTo(nav.ViewConfirmation)
}

// FatalErr reports the terminal session error, if establishment failed.
func (e *Engine) FatalErr() error {
	return e.gate.FatalErr()
}

// AddToCart adds one unit of the product to the cart.
func (e *Engine) AddToCart(productID string) {
	e.Do(func() { e.cartStore.AddItem(productID) })
	e.params.Metrics.IncCartOp("add")
}

// ChangeQuantity applies a signed quantity delta to an existing line.
func (e *Engine) ChangeQuantity(productID string, delta int) {
	e.Do(func() { e.cartStore.ChangeQuantity(productID, delta) })
	e.params.Metrics.IncCartOp("change")
}

// RemoveFromCart deletes a line.
func (e *Engine) RemoveFromCart(productID string) {
	e.Do(func() { e.cartStore.RemoveItem(productID) })
	e.params.Metrics.IncCartOp("remove")
}

// Navigate requests a view transition and returns the resulting view,
// which may differ from the request when an entry guard redirects or the
// request names an unknown view.
func (e *Engine) Navigate(view nav.View) nav.View {
	var current nav.View
	e.Do(func() { current = e.navigator.SwitchTo(view) })
	return current
}

// CurrentView returns the active view.
func (e *Engine) CurrentView() nav.View {
	var current nav.View
	e.Do(func() { current = e.navigator.Current() })
	return current
}

// Checkout submits the cart as an order. On success the cart is cleared
// and the navigator lands on confirmation; on failure everything stays put
// for a manual retry.
func (e *Engine) Checkout(ctx context.Context, info orders.CustomerInfo) (string, error) {
	id, err := e.coordinator.PlaceOrder(ctx, info)
	if err != nil {
		if pkgerrors.As(err).Code() == pkgerrors.CodeWriteFailed {
			e.params.Metrics.IncOrderFailure()
		}
		return "", err
	}
	e.params.Metrics.IncOrderPlaced()
	return id, nil
}

// CreateProduct is the admin write path.
func (e *Engine) CreateProduct(ctx context.Context, input catalog.CreateProductInput) (string, error) {
	return e.catalogSvc.CreateProduct(ctx, input)
}
