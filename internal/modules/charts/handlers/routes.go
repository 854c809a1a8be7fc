package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all chart routes. The static compare route
// must stay distinct from the ticker pattern, chi resolves it first.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/charts", func(r chi.Router) {
		r.Get("/compare.png", h.CompareChart)
		r.Get("/{ticker}.png", h.PriceChart)
	})
}
