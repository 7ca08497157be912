package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/retail-admin-backend/api/controllers"
	"github.com/angelmondragon/retail-admin-backend/api/middleware"
	"github.com/angelmondragon/retail-admin-backend/pkg/config"
	"github.com/angelmondragon/retail-admin-backend/pkg/logger"
	"github.com/angelmondragon/retail-admin-backend/pkg/metrics"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
)

// Registry is the metrics registry a router records into and exposes on /metrics.
type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

// NewRouter builds the retail operations API.
func NewRouter(cfg *config.Config, logg *logger.Logger, dbP controllers.Pinger, reg Registry, svcs RetailServices) http.Handler {
	r := chi.NewRouter()
	useCommon(r, cfg, logg, reg, "retail-api")

	bounds := pagination.Bounds{Default: cfg.Pagination.DefaultPageSize, Max: cfg.Pagination.MaxPageSize}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(dbP, logg))
	})

	r.Route(cfg.App.APIPrefix, func(r chi.Router) {
		r.Get("/health", controllers.Health())

		r.Route("/stores", func(r chi.Router) {
			r.Post("/", controllers.StoreCreate(svcs.Stores, logg))
			r.Get("/", controllers.StoreList(svcs.Stores, bounds, logg))
			r.Get("/{storeID}", controllers.StoreGet(svcs.Stores, logg))
			r.Patch("/{storeID}", controllers.StoreUpdate(svcs.Stores, logg))
		})

		r.Route("/catalog/skus", func(r chi.Router) {
			r.Post("/", controllers.SKUCreate(svcs.Catalog, logg))
			r.Get("/", controllers.SKUList(svcs.Catalog, bounds, logg))
			r.Get("/{skuID}", controllers.SKUGet(svcs.Catalog, logg))
			r.Patch("/{skuID}", controllers.SKUUpdate(svcs.Catalog, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Post("/moves", controllers.InventoryMove(svcs.Inventory, logg))
			r.Get("/ledger", controllers.InventoryLedger(svcs.Inventory, bounds, logg))
			r.Get("/stock", controllers.InventoryStock(svcs.Inventory, logg))
		})

		r.Route("/members", func(r chi.Router) {
			r.Post("/", controllers.MemberCreate(svcs.Members, logg))
			r.Get("/", controllers.MemberList(svcs.Members, bounds, logg))
			r.Get("/{memberID}", controllers.MemberGet(svcs.Members, logg))
			r.Patch("/{memberID}", controllers.MemberUpdate(svcs.Members, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(svcs.Orders, logg))
			r.Get("/", controllers.OrderList(svcs.Orders, bounds, logg))
			r.Get("/{orderID}", controllers.OrderGet(svcs.Orders, logg))
			r.Patch("/{orderID}", controllers.OrderUpdate(svcs.Orders, logg))
		})

		r.Route("/promotions", func(r chi.Router) {
			r.Post("/", controllers.PromotionCreate(svcs.Promotions, logg))
			r.Get("/", controllers.PromotionList(svcs.Promotions, bounds, logg))
			r.Get("/{promotionID}", controllers.PromotionGet(svcs.Promotions, logg))
			r.Patch("/{promotionID}", controllers.PromotionUpdate(svcs.Promotions, logg))
		})
	})

	return r
}

// useCommon installs the middleware stack and /metrics shared by both services.
func useCommon(r chi.Router, cfg *config.Config, logg *logger.Logger, reg Registry, service string) {
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.Origins),
	)
	if reg != nil {
		r.Use(middleware.Metrics(metrics.NewHTTPMetrics(reg, service)))
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
}
