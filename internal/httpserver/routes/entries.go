package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/harunode/internal/httpserver/deps"
	"github.com/MrSnakeDoc/harunode/internal/httpserver/handlers"
)

func init() { Register(registerEntries) }

func registerEntries(r chi.Router, d deps.Deps) {
	r.Route("/api/entries", func(r chi.Router) {
		r.Get("/", handlers.ListEntries(d))
		r.Post("/", handlers.CreateEntry(d))
		r.Post("/import", handlers.ImportEntries(d))
		r.Get("/export", handlers.ExportEntries(d))
		r.Patch("/{id}", handlers.UpdateEntry(d))
		r.Delete("/{id}", handlers.DeleteEntry(d))
	})
	r.Get("/api/achievements", handlers.Achievements(d))
	r.Get("/api/stats", handlers.Stats(d))
}
