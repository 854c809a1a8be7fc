package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all financial statement routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/financials/{ticker}", func(r chi.Router) {
		r.Get("/", h.Statement)
		r.Get("/growth", h.Growth)
	})
}
