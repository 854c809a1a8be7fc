// Package handlers provides HTTP handlers for financial statements
package handlers

import (
	"net/http"
	"strings"

	"github.com/aristath/riskboard/internal/modules/financials"
	"github.com/aristath/riskboard/internal/server/respond"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles financial statement HTTP requests
type Handler struct {
	service *financials.Service
	log     zerolog.Logger
}

// NewHandler creates a new financials handler
func NewHandler(service *financials.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "financials").Logger(),
	}
}

// Statement handles GET /api/financials/{ticker}. It returns the
// yearly statement rows, monetary figures in billions.
func (h *Handler) Statement(w http.ResponseWriter, r *http.Request) {
	ticker := tickerParam(r)

	rows, err := h.service.Statement(r.Context(), ticker)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, h.log, http.StatusOK, rows)
}

// Growth handles GET /api/financials/{ticker}/growth. It returns
// year-over-year growth percentages.
func (h *Handler) Growth(w http.ResponseWriter, r *http.Request) {
	ticker := tickerParam(r)

	rows, err := h.service.Growth(r.Context(), ticker)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, h.log, http.StatusOK, rows)
}

func tickerParam(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "ticker")))
}
