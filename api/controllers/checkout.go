package controllers

import (
	"net/http"

	"github.com/angelmondragon/grocerfront/api/responses"
	"github.com/angelmondragon/grocerfront/api/validators"
	"github.com/angelmondragon/grocerfront/internal/app"
	"github.com/angelmondragon/grocerfront/internal/orders"
	"github.com/angelmondragon/grocerfront/pkg/logger"
)

// PlaceOrder submits the cart with the entered customer info. On failure
// the cart and the client's form stay as they were so the user can retry
// the same submission.
func PlaceOrder(engine *app.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload orders.CustomerInfo
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := engine.Checkout(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{
			"order_id": orderID,
			"view":     engine.CurrentView().String(),
		})
	}
}
