package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all quiz routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/quiz", func(r chi.Router) {
		r.Get("/questions", h.Questions)
		r.Post("/score", h.Score)
		r.Get("/assessments", h.Assessments)
	})
}
