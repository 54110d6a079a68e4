package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/grocerfront/api/responses"
	"github.com/angelmondragon/grocerfront/internal/app"
	"github.com/angelmondragon/grocerfront/internal/nav"
	pkgerrors "github.com/angelmondragon/grocerfront/pkg/errors"
	"github.com/angelmondragon/grocerfront/pkg/logger"
)

// CurrentView reports the navigator's active view.
func CurrentView(engine *app.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, map[string]string{"view": engine.CurrentView().String()})
	}
}

// Navigate requests a view transition. Unknown views are rejected here at
// the API edge; the navigator itself silently ignores them, so a typo in a
// client build still cannot wedge the state machine.
func Navigate(engine *app.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requested, ok := nav.ParseView(chi.URLParam(r, "view"))
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "unknown view"))
			return
		}
		current := engine.Navigate(requested)
		responses.WriteSuccess(w, map[string]string{
			"requested": requested.String(),
			"view":      current.String(),
		})
	}
}

// CatalogView renders the product list view-model.
func CatalogView(engine *app.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, engine.Catalog())
	}
}

// CartView renders the cart view-model.
func CartView(engine *app.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, engine.Cart())
	}
}

// OrderSummaryView renders the checkout summary.
func OrderSummaryView(engine *app.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, engine.OrderSummary())
	}
}

// OrdersView renders the admin order list.
func OrdersView(engine *app.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, engine.Orders())
	}
}

// ConfirmationView renders the latest placed order id.
func ConfirmationView(engine *app.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, engine.Confirmation())
	}
}
