package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter assembles the HTTP surface: observability middleware, CORS,
// health and metrics endpoints, and the three resource route groups.
func NewRouter(h *Handler, logger *zap.Logger, metrics *Metrics) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(ObservabilityMiddleware(logger, metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.handleCreateUser)
		r.Get("/", h.handleListUsers)
		r.Get("/{id}", h.handleGetUser)
		r.Put("/{id}", h.handleUpdateUser)
		r.Delete("/{id}", h.handleDeleteUser)
	})

	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.handleCreateProduct)
		r.Get("/", h.handleListProducts)
		r.Get("/{id}", h.handleGetProduct)
		r.Put("/{id}/metadata", h.handleUpdateProductMetadata)
		r.Post("/{id}/stock", h.handleAdjustProductStock)
		r.Delete("/{id}", h.handleDeleteProduct)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.handleCreateOrder)
		r.Get("/", h.handleListOrders)
		r.Get("/{id}", h.handleGetOrder)
		r.Delete("/{id}", h.handleDeleteOrder)
	})

	return r
}
