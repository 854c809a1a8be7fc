package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all ticker analytics routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tickers/{ticker}", func(r chi.Router) {
		r.Get("/", h.Metrics)
		r.Get("/history", h.History)
		r.Get("/indicators", h.Indicators)
		r.Get("/valuation", h.Valuation)
	})
}
