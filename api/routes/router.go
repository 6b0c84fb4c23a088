package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mandimart/mandimart-backend/api/controllers"
	"github.com/mandimart/mandimart-backend/api/middleware"
	"github.com/mandimart/mandimart-backend/internal/cart"
	"github.com/mandimart/mandimart-backend/internal/catalog"
	"github.com/mandimart/mandimart-backend/pkg/config"
	"github.com/mandimart/mandimart-backend/pkg/db"
	"github.com/mandimart/mandimart-backend/pkg/logger"
	"github.com/mandimart/mandimart-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	metricsRegistry *prometheus.Registry,
	catalogService catalog.Service,
	cartManager *cart.Manager,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(catalogService, logg))
			r.Post("/", controllers.CreateProduct(catalogService, logg))
			r.Get("/{productId}", controllers.GetProduct(catalogService, logg))
			r.Patch("/{productId}", controllers.UpdateProduct(catalogService, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(catalogService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.Session(logg))
			r.Get("/", controllers.CartFetch(cartManager, logg))
			r.Post("/items", controllers.CartAddItem(cartManager, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateItem(cartManager, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(cartManager, logg))
			r.Delete("/items/{productId}/{packCode}", controllers.CartRemoveItem(cartManager, logg))
			r.Delete("/", controllers.CartClear(cartManager, logg))
		})
	})

	return r
}
