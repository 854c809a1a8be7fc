// Package handlers provides HTTP handlers for ticker analytics
package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/riskboard/internal/modules/analysis"
	"github.com/aristath/riskboard/internal/server/respond"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const dateLayout = "2006-01-02"

// Handler handles ticker analytics HTTP requests
type Handler struct {
	service *analysis.Service
	log     zerolog.Logger
}

// NewHandler creates a new analysis handler
func NewHandler(service *analysis.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "analysis").Logger(),
	}
}

// Metrics handles GET /api/tickers/{ticker}
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	ticker := tickerParam(r)
	days := intQuery(r, "days", 0)

	metrics, err := h.service.Metrics(r.Context(), ticker, days)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, h.log, http.StatusOK, metrics)
}

// History handles GET /api/tickers/{ticker}/history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	ticker := tickerParam(r)
	days := intQuery(r, "days", 0)

	var end time.Time
	if raw := r.URL.Query().Get("end"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			respond.BadRequest(w, h.log, "end must be formatted YYYY-MM-DD")
			return
		}
		end = parsed
	}

	rows, err := h.service.History(r.Context(), ticker, days, end)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, h.log, http.StatusOK, rows)
}

// Indicators handles GET /api/tickers/{ticker}/indicators
func (h *Handler) Indicators(w http.ResponseWriter, r *http.Request) {
	ticker := tickerParam(r)
	days := intQuery(r, "days", 0)
	window := intQuery(r, "window", analysis.DefaultIndicatorWindow)

	series, err := h.service.Indicators(r.Context(), ticker, days, window)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, h.log, http.StatusOK, series)
}

// Valuation handles GET /api/tickers/{ticker}/valuation
func (h *Handler) Valuation(w http.ResponseWriter, r *http.Request) {
	ticker := tickerParam(r)
	days := intQuery(r, "days", 0)

	valuation, err := h.service.Valuation(r.Context(), ticker, days)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, h.log, http.StatusOK, valuation)
}

func tickerParam(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "ticker")))
}

// intQuery reads an integer query parameter, falling back to def when
// the parameter is absent or malformed.
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
