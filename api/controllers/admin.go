package controllers

import (
	"net/http"

	"github.com/angelmondragon/grocerfront/api/responses"
	"github.com/angelmondragon/grocerfront/api/validators"
	"github.com/angelmondragon/grocerfront/internal/app"
	"github.com/angelmondragon/grocerfront/internal/catalog"
	"github.com/angelmondragon/grocerfront/pkg/logger"
)

type createProductRequest struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// AdminCreateProduct handles the admin add-product form.
func AdminCreateProduct(engine *app.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := engine.CreateProduct(r.Context(), catalog.CreateProductInput{
			Name:        payload.Name,
			Price:       payload.Price,
			Image:       payload.Image,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"id": id})
	}
}
