package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, data any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(map[string]any{"data": data})
	require.NoError(t, err)
}

func TestHealth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		err := json.NewEncoder(w).Encode(Health{Status: "healthy", Version: "1.0.0", Service: "riskboard"})
		require.NoError(t, err)
	})

	h, err := client.Health()
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, "riskboard", h.Service)
}

func TestMetrics(t *testing.T) {
	avgVolume := 1_250_000.5
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tickers/AAPL", r.URL.Path)
		assert.Equal(t, "90", r.URL.Query().Get("days"))
		writeEnvelope(t, w, http.StatusOK, Metrics{
			Ticker:      "AAPL",
			LatestPrice: 187.44,
			Change:      -1.2,
			ChangePct:   -0.64,
			AvgVolume:   &avgVolume,
			PeriodHigh:  199.62,
			PeriodLow:   164.08,
			FirstDate:   "2024-01-02",
			LastDate:    "2024-03-28",
			RecordCount: 61,
		})
	})

	m, err := client.Metrics("AAPL", 90)
	require.NoError(t, err)
	assert.Equal(t, 187.44, m.LatestPrice)
	assert.Equal(t, 61, m.RecordCount)
	assert.Nil(t, m.Volume)
	require.NotNil(t, m.AvgVolume)
	assert.Equal(t, avgVolume, *m.AvgVolume)
}

func TestHistory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tickers/MSFT/history", r.URL.Path)
		assert.Equal(t, "365", r.URL.Query().Get("days"))
		writeEnvelope(t, w, http.StatusOK, []PricePoint{
			{Date: "2024-01-02", Close: 370.87},
			{Date: "2024-01-03", Close: 373.26},
		})
	})

	points, err := client.History("MSFT", 365)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2024-01-02", points[0].Date)
	assert.Equal(t, 373.26, points[1].Close)
}

func TestPortfolioVaR(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/risk/var/portfolio", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []any{"AAPL"}, body["tickers"])
		assert.Equal(t, []any{1.0}, body["weights"])
		assert.Equal(t, float64(365), body["days"])
		assert.Equal(t, "parametric", body["method"])

		writeEnvelope(t, w, http.StatusOK, VaRReport{
			VaR:             4_312.55,
			Method:          "parametric",
			ConfidenceLevel: 0.95,
			SampleSize:      251,
		})
	})

	report, err := client.PortfolioVaR("AAPL", 365, "parametric")
	require.NoError(t, err)
	assert.Equal(t, 4_312.55, report.VaR)
	assert.Equal(t, "parametric", report.Method)
	assert.Equal(t, 251, report.SampleSize)
}

func TestErrorEnvelopeSurfacesMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, err := w.Write([]byte(`{"error":{"kind":"insufficient_data","message":"not enough history for XYZ"}}`))
		require.NoError(t, err)
	})

	_, err := client.Metrics("XYZ", 365)
	require.Error(t, err)
	assert.Equal(t, "not enough history for XYZ", err.Error())
}

func TestNonJSONErrorReportsStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := client.History("AAPL", 365)
	require.Error(t, err)
	assert.Equal(t, "API returned 502", err.Error())
}
