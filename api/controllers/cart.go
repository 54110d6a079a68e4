package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/grocerfront/api/responses"
	"github.com/angelmondragon/grocerfront/api/validators"
	"github.com/angelmondragon/grocerfront/internal/app"
	pkgerrors "github.com/angelmondragon/grocerfront/pkg/errors"
	"github.com/angelmondragon/grocerfront/pkg/logger"
)

type addItemRequest struct {
	ProductID string `json:"product_id"`
}

type changeQuantityRequest struct {
	Delta int `json:"delta"`
}

// AddToCart adds one unit of a product. An id the catalog no longer knows
// is dropped silently and the cart comes back unchanged, matching the
// benign race between a click and a catalog refresh.
func AddToCart(engine *app.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.ProductID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required"))
			return
		}
		engine.AddToCart(payload.ProductID)
		responses.WriteSuccess(w, engine.Cart())
	}
}

// ChangeQuantity applies a signed delta to an existing line.
func ChangeQuantity(engine *app.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "productID")
		var payload changeQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		engine.ChangeQuantity(productID, payload.Delta)
		responses.WriteSuccess(w, engine.Cart())
	}
}

// RemoveFromCart deletes a line.
func RemoveFromCart(engine *app.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine.RemoveFromCart(chi.URLParam(r, "productID"))
		responses.WriteSuccess(w, engine.Cart())
	}
}
