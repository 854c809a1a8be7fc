// Package handlers provides HTTP handlers for chart rendering
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aristath/riskboard/internal/modules/charts"
	"github.com/aristath/riskboard/internal/server/respond"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles chart HTTP requests
type Handler struct {
	service *charts.Service
	log     zerolog.Logger
}

// NewHandler creates a new charts handler
func NewHandler(service *charts.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "charts").Logger(),
	}
}

// PriceChart handles GET /api/charts/{ticker}.png
func (h *Handler) PriceChart(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "ticker")))
	days := intQuery(r, "days", 0)

	img, err := h.service.PriceChart(r.Context(), ticker, days)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	writePNG(w, img)
}

// CompareChart handles GET /api/charts/compare.png
func (h *Handler) CompareChart(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("tickers")
	if raw == "" {
		respond.BadRequest(w, h.log, "tickers query parameter is required")
		return
	}

	var tickers []string
	for _, part := range strings.Split(raw, ",") {
		ticker := strings.ToUpper(strings.TrimSpace(part))
		if ticker != "" {
			tickers = append(tickers, ticker)
		}
	}
	days := intQuery(r, "days", 0)

	img, err := h.service.CompareChart(r.Context(), tickers, days)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	writePNG(w, img)
}

func writePNG(w http.ResponseWriter, img []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func intQuery(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}
