// Package handlers provides HTTP handlers for risk endpoints
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aristath/riskboard/internal/modules/risk"
	"github.com/aristath/riskboard/internal/server/respond"
	"github.com/aristath/riskboard/pkg/formulas"
	"github.com/rs/zerolog"
)

// Handler handles risk HTTP requests
type Handler struct {
	service *risk.Service
	log     zerolog.Logger
}

// NewHandler creates a new risk handler
func NewHandler(service *risk.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "risk").Logger(),
	}
}

// varRequest is the body of POST /api/risk/var
type varRequest struct {
	Returns         []float64 `json:"returns"`
	ConfidenceLevel *float64  `json:"confidence_level"`
	InvestmentValue *float64  `json:"investment_value"`
}

// VaR handles POST /api/risk/var. It computes historical and parametric
// VaR for a caller-supplied return series.
func (h *Handler) VaR(w http.ResponseWriter, r *http.Request) {
	var req varRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, h.log, "invalid request body")
		return
	}

	confidence := risk.DefaultConfidenceLevel
	if req.ConfidenceLevel != nil {
		confidence = *req.ConfidenceLevel
	}
	investment := risk.DefaultInvestment
	if req.InvestmentValue != nil {
		investment = *req.InvestmentValue
	}

	result, err := h.service.VaR(req.Returns, confidence, investment)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.JSON(w, h.log, http.StatusOK, result)
}

// portfolioVaRRequest is the body of POST /api/risk/var/portfolio
type portfolioVaRRequest struct {
	Tickers         []string  `json:"tickers"`
	Weights         []float64 `json:"weights"`
	Days            *int      `json:"days"`
	ConfidenceLevel *float64  `json:"confidence_level"`
	InvestmentValue *float64  `json:"investment_value"`
	Method          string    `json:"method"`
}

// PortfolioVaR handles POST /api/risk/var/portfolio. It fetches price
// history for each constituent and estimates portfolio VaR.
func (h *Handler) PortfolioVaR(w http.ResponseWriter, r *http.Request) {
	var req portfolioVaRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, h.log, "invalid request body")
		return
	}

	params := risk.PortfolioVaRParams{
		Tickers:         req.Tickers,
		Weights:         req.Weights,
		Days:            risk.DefaultLookbackDays,
		ConfidenceLevel: risk.DefaultConfidenceLevel,
		InvestmentValue: risk.DefaultPortfolioValue,
		Method:          req.Method,
	}
	if req.Days != nil {
		params.Days = *req.Days
	}
	if req.ConfidenceLevel != nil {
		params.ConfidenceLevel = *req.ConfidenceLevel
	}
	if req.InvestmentValue != nil {
		params.InvestmentValue = *req.InvestmentValue
	}
	if params.Method == "" {
		params.Method = formulas.MethodHistorical
	}

	result, err := h.service.PortfolioVaR(r.Context(), params)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	respond.JSON(w, h.log, http.StatusOK, result)
}
