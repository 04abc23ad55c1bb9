package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func SetupRoutes(handler *Handler) *chi.Mux {
	r := chi.NewRouter()

	for _, middleware := range SetupMiddleware(handler.logger) {
		r.Use(middleware)
	}

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", handler.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/window", handler.GetWindow)

		r.Get("/tiles/{x}/{y}", handler.GetTile)
		r.Patch("/tiles/{x}/{y}", handler.PatchTile)

		r.Post("/character/step", handler.Step)
		r.Get("/inventory", handler.GetInventory)
		r.Post("/inventory/use", handler.UseInventory)

		r.Post("/save", handler.Save)
		r.Post("/recover", handler.Recover)
		r.Post("/reset", handler.Reset)
	})

	return r
}
