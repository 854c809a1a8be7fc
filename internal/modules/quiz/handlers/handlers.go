// Package handlers provides HTTP handlers for the risk tolerance quiz
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aristath/riskboard/internal/modules/quiz"
	"github.com/aristath/riskboard/internal/server/respond"
	"github.com/rs/zerolog"
)

// Handler handles quiz HTTP requests
type Handler struct {
	service *quiz.Service
	log     zerolog.Logger
}

// NewHandler creates a new quiz handler
func NewHandler(service *quiz.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "quiz").Logger(),
	}
}

// Questions handles GET /api/quiz/questions
func (h *Handler) Questions(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, h.log, http.StatusOK, h.service.Questions())
}

// scoreRequest is the body of POST /api/quiz/score. Answer keys are
// question ids as JSON object keys.
type scoreRequest struct {
	Answers map[string]string `json:"answers"`
}

// Score handles POST /api/quiz/score
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, h.log, "invalid request body")
		return
	}

	answers := make(map[int]string, len(req.Answers))
	for rawID, key := range req.Answers {
		id, err := strconv.Atoi(rawID)
		if err != nil {
			respond.BadRequest(w, h.log, "question ids must be integers, got "+strconv.Quote(rawID))
			return
		}
		answers[id] = key
	}

	result, err := h.service.Score(answers)
	if err != nil {
		if errors.Is(err, quiz.ErrInvalidSubmission) {
			respond.BadRequest(w, h.log, err.Error())
			return
		}
		respond.Error(w, h.log, err)
		return
	}

	respond.JSON(w, h.log, http.StatusOK, result)
}

// Assessments handles GET /api/quiz/assessments
func (h *Handler) Assessments(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	assessments, err := h.service.Assessments(limit)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	if assessments == nil {
		assessments = []quiz.Assessment{}
	}
	respond.JSON(w, h.log, http.StatusOK, assessments)
}
