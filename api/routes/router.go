package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/grocerfront/api/controllers"
	"github.com/angelmondragon/grocerfront/api/middleware"
	"github.com/angelmondragon/grocerfront/internal/app"
	"github.com/angelmondragon/grocerfront/pkg/config"
	"github.com/angelmondragon/grocerfront/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	engine *app.Engine,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Get("/health/live", controllers.HealthLive(cfg))
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SessionGuard(engine.FatalErr, logg))

		r.Route("/views", func(r chi.Router) {
			r.Get("/current", controllers.CurrentView(engine))
			r.Post("/{view}", controllers.Navigate(engine, logg))
			r.Get("/catalog", controllers.CatalogView(engine))
			r.Get("/cart", controllers.CartView(engine))
			r.Get("/checkout", controllers.OrderSummaryView(engine))
			r.Get("/orders", controllers.OrdersView(engine))
			r.Get("/confirmation", controllers.ConfirmationView(engine))
		})

		r.Route("/cart/items", func(r chi.Router) {
			r.Post("/", controllers.AddToCart(engine, logg))
			r.Patch("/{productID}", controllers.ChangeQuantity(engine, logg))
			r.Delete("/{productID}", controllers.RemoveFromCart(engine))
		})

		r.Post("/checkout", controllers.PlaceOrder(engine, logg))
		r.Post("/admin/products", controllers.AdminCreateProduct(engine, logg))
	})

	return r
}
