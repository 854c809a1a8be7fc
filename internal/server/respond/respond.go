// Package respond writes the JSON envelopes shared by every API handler
// and maps domain errors onto HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aristath/riskboard/internal/clients/marketdata"
	"github.com/aristath/riskboard/pkg/formulas"
	"github.com/rs/zerolog"
)

// Error kinds surfaced in error envelopes
const (
	KindInvalidArgument     = "invalid_argument"
	KindInsufficientData    = "insufficient_data"
	KindUpstreamUnavailable = "upstream_unavailable"
	KindNotFound            = "not_found"
	KindInternal            = "internal"
)

// JSON writes a success envelope: {"data": ..., "metadata": {...}}
func JSON(w http.ResponseWriter, log zerolog.Logger, status int, data interface{}) {
	payload := map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	write(w, log, status, payload)
}

// Error maps err onto the HTTP status and error kind of the taxonomy and
// writes an error envelope: {"error": {"kind": ..., "message": ...},
// "metadata": {...}}. Unclassified errors become opaque 500s so internal
// detail never leaks.
func Error(w http.ResponseWriter, log zerolog.Logger, err error) {
	status, kind := classify(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
		message = "internal server error"
	}

	payload := map[string]interface{}{
		"error": map[string]interface{}{
			"kind":    kind,
			"message": message,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	write(w, log, status, payload)
}

// BadRequest writes an invalid_argument envelope for malformed requests
// that never reach the domain layer
func BadRequest(w http.ResponseWriter, log zerolog.Logger, message string) {
	payload := map[string]interface{}{
		"error": map[string]interface{}{
			"kind":    KindInvalidArgument,
			"message": message,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	write(w, log, http.StatusBadRequest, payload)
}

// NotFound writes a not_found envelope
func NotFound(w http.ResponseWriter, log zerolog.Logger, message string) {
	payload := map[string]interface{}{
		"error": map[string]interface{}{
			"kind":    KindNotFound,
			"message": message,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	write(w, log, http.StatusNotFound, payload)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, formulas.ErrInvalidArgument):
		return http.StatusBadRequest, KindInvalidArgument
	case errors.Is(err, formulas.ErrInsufficientData):
		return http.StatusUnprocessableEntity, KindInsufficientData
	case errors.Is(err, marketdata.ErrNoData):
		return http.StatusBadGateway, KindUpstreamUnavailable
	default:
		return http.StatusInternalServerError, KindInternal
	}
}

func write(w http.ResponseWriter, log zerolog.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
