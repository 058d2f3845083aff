package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/harunode/internal/httpserver/deps"
	"github.com/MrSnakeDoc/harunode/internal/httpserver/handlers"
)

func init() { Register(registerRecommend) }

func registerRecommend(r chi.Router, d deps.Deps) {
	r.Post("/api/recommendations", handlers.Recommend(d))
	r.Delete("/api/sessions/{id}", handlers.EndSession(d))
	r.Get("/api/insights", handlers.Insights(d))
}
