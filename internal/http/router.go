package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"vaultmind/internal/handlers"
	"vaultmind/internal/metrics"
	"vaultmind/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine  service.Engine
	Metrics *metrics.Collector
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	if deps.Metrics != nil {
		r.Use(Metrics(deps.Metrics))
	}
	r.Use(CORS)

	insights := handlers.NewInsightHandler(deps.Engine)
	notes := handlers.NewVaultHandler(deps.Engine)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.Engine))

		r.Route("/insights", func(r chi.Router) {
			r.Post("/", insights.Remember)
			r.Get("/", insights.Recall)
			r.Get("/forgotten", insights.Forgotten)
			r.Get("/gaps", insights.Gaps)
			r.Get("/review", insights.Review)
			r.Get("/summary", insights.Summary)
			r.Get("/search", insights.Search)
			r.Delete("/{id}", insights.Forget)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/similar", notes.Similar)
			r.Get("/duplicates", notes.Duplicates)
			r.Get("/backlinks", notes.Backlinks)
		})

		r.Get("/vault/health", notes.Health)
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	return r
}
