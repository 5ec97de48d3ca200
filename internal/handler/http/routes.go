package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withRequestLog)

	router.Route("/api", func(r chi.Router) {
		r.Post("/contracts", h.createContract)
		r.Get("/contracts", h.listContracts)
		r.Get("/contracts/{contractID}", h.getContract)

		r.Post("/sync/push/{contractID}", h.pushContract)
		r.Post("/sync/pull/{organizationID}", h.pullOrganization)
		r.Get("/sync/log/{contractID}", h.getSyncLog)

		r.Get("/search", h.searchNorms)
	})

	router.Get("/metrics", h.getMetrics)
	router.Get("/healthz", h.healthz)

	return router
}
